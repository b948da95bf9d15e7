package client

import (
	"bytes"
	"context"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/crud/actions"
	"github.com/materials-commons/mccrud/pkg/crud/fields"
	"github.com/materials-commons/mccrud/pkg/crud/repository"
	"github.com/materials-commons/mccrud/pkg/crud/webapi"
	"github.com/materials-commons/mccrud/pkg/crud/webapi/apimiddleware"
	"github.com/materials-commons/mccrud/pkg/tutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := tutil.NewTestDB(t, &sample{})
	require.NoError(t, db.Create(&[]sample{{Name: "a"}, {Name: "b"}, {Name: "c"}}).Error)

	service := crud.NewService("/crud", false, crud.MenuEntry{Entity: "samples"})
	require.NoError(t, service.Register(&crud.Entity{
		Name:          "Sample",
		NewRepository: repository.GormFactory[sample](db),
		Form: func(f *fields.Factory) {
			f.Input("name", "Name").Required("Name is required")
		},
		PaginationSize: 2,
		Actions: map[string]crud.Action{
			"csv": actions.CSVExport,
		},
	}))

	cache := apimiddleware.NewAPIKeyCache(nil)
	cache.AddStaticKeys("secret")

	e := echo.New()
	webapi.RegisterRoutes(e, service, nil, apimiddleware.APIKeyAuth(apimiddleware.APIKeyConfig{
		Keyname:          "X-API-KEY",
		GetOwnerByAPIKey: cache.GetOwnerByAPIKey,
	}))

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return srv
}

func TestClient(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL + "/crud/").WithAPIKey("X-API-KEY", "secret")
	ctx := context.Background()

	t.Run("menu and schema", func(t *testing.T) {
		menu, err := c.Menu(ctx)
		require.NoError(t, err)
		require.Len(t, menu, 1)
		assert.Equal(t, "/samples", menu[0].Path)

		schema, err := c.Schema(ctx, "samples")
		require.NoError(t, err)
		assert.Equal(t, "/crud/samples", schema["url"])
	})

	t.Run("paginate and list", func(t *testing.T) {
		page, err := c.Paginate(ctx, "samples", 2, 0, nil)
		require.NoError(t, err)
		assert.Len(t, page.Data, 1)
		assert.Equal(t, int64(3), page.Total)

		records, err := c.List(ctx, "samples", nil)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("write operations", func(t *testing.T) {
		created, err := c.Create(ctx, "samples", map[string]any{"name": "d"})
		require.NoError(t, err)
		assert.Equal(t, float64(4), created["id"])

		updated, err := c.Update(ctx, "samples", "4", map[string]any{"name": "dd"})
		require.NoError(t, err)
		assert.Equal(t, "dd", updated["name"])

		found, err := c.Find(ctx, "samples", "4")
		require.NoError(t, err)
		assert.Equal(t, "dd", found["name"])

		require.NoError(t, c.Delete(ctx, "samples", "4"))

		_, err = c.Find(ctx, "samples", "4")
		var errResp *ErrorResponse
		require.True(t, errors.As(err, &errResp))
		assert.Equal(t, 404, errResp.StatusCode)
	})

	t.Run("validation errors", func(t *testing.T) {
		_, err := c.Create(ctx, "samples", map[string]any{})
		var errResp *ErrorResponse
		require.True(t, errors.As(err, &errResp))
		assert.Equal(t, 422, errResp.StatusCode)
		assert.Equal(t, []string{"The Name field is required."}, errResp.Errors["name"])
		assert.ErrorIs(t, err, ErrCrudAPI)
	})

	t.Run("export", func(t *testing.T) {
		var b bytes.Buffer
		err := c.Export(ctx, "samples", "csv", "1,2", url.Values{"fields": []string{"id as ID,name as Name"}}, &b)
		require.NoError(t, err)
		assert.Equal(t, "ID,Name\n1,a\n2,b\n", b.String())

		err = c.Export(ctx, "samples", "pdf", "", nil, &b)
		assert.ErrorIs(t, err, ErrCrudAPI)
	})
}

func TestClientWithoutAPIKey(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL + "/crud")

	_, err := c.Menu(context.Background())
	var errResp *ErrorResponse
	require.True(t, errors.As(err, &errResp))
	assert.Equal(t, 400, errResp.StatusCode)
}
