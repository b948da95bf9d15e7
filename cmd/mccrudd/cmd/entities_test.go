package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/materials-commons/mccrud/pkg/mcdb"
	"github.com/materials-commons/mccrud/pkg/mcdb/mcmodel"
	"github.com/materials-commons/mccrud/pkg/tutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db := tutil.NewTestDB(t, mcdb.Models()...)
	owner := mcmodel.User{Name: "Owner", Email: "owner@example.com", PlainPassword: "password1"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&[]mcmodel.Project{
		{Name: "Alloys", OwnerID: owner.ID, FileCount: 3},
		{Name: "Ceramics", OwnerID: owner.ID},
	}).Error)

	settings := &config.Settings{URI: "/crud", Dashboard: true, APIKeyHeader: "X-API-KEY"}
	service, err := newService(settings, db)
	require.NoError(t, err)

	e := echo.New()
	require.NoError(t, setupRoutes(e, RouteOpts{service: service, db: db, settings: settings}))

	return e, db
}

func request(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestDefaultMenu(t *testing.T) {
	e, _ := setupServer(t)

	rec := request(e, http.MethodGet, "/crud/_menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"path":"/users"`)
	assert.Contains(t, rec.Body.String(), `"title":"Logging"`)
}

func TestUsersEntity(t *testing.T) {
	e, db := setupServer(t)

	rec := request(e, http.MethodPost, "/crud/users", `{"name":"Grace","email":"grace@example.com","password":"hopper123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "hopper123")

	var grace mcmodel.User
	require.NoError(t, db.Where("email = ?", "grace@example.com").First(&grace).Error)
	assert.True(t, grace.CheckPassword("hopper123"))

	rec = request(e, http.MethodPost, "/crud/users", `{"name":"Bad","email":"not-an-email","password":"short"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Email must be a valid email address.")
	assert.Contains(t, rec.Body.String(), "The Password must be at least 8.")

	rec = request(e, http.MethodGet, "/crud/users?search=grace", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Grace <grace@example.com>", page.Data[0]["display"])
}

func TestProjectsEntity(t *testing.T) {
	e, db := setupServer(t)

	rec := request(e, http.MethodGet, "/crud/projects/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"owner_name":"Owner"`)

	rec = request(e, http.MethodPost, "/crud/projects/1,2/archive", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"archived":2}`, rec.Body.String())

	var archived int64
	require.NoError(t, db.Model(&mcmodel.Project{}).Where("is_archived = ?", true).Count(&archived).Error)
	assert.Equal(t, int64(2), archived)

	rec = request(e, http.MethodPost, "/crud/projects/action/archive", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(e, http.MethodGet, "/crud/projects/action/csv?fields=name+as+Project,owner.name+as+Owner", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Project,Owner\nAlloys,Owner\nCeramics,Owner\n", rec.Body.String())
}

func TestLogLevelsEntity(t *testing.T) {
	e, _ := setupServer(t)

	rec := request(e, http.MethodGet, "/crud/log-levels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ctx":"global"`)
	assert.Contains(t, rec.Body.String(), `"ctx":"projects"`)

	rec = request(e, http.MethodDelete, "/crud/log-levels/global", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEntityRow(t *testing.T) {
	db := tutil.NewTestDB(t, mcdb.Models()...)
	service, err := newService(&config.Settings{URI: "/crud"}, db)
	require.NoError(t, err)

	e, err := service.Entity("projects")
	require.NoError(t, err)
	assert.Equal(t, []string{"projects", "Project", "CRUD", "20", "archive,csv,json,xml,yaml", "/crud/projects"}, entityRow(e))

	e, err = service.Entity("log-levels")
	require.NoError(t, err)
	assert.Equal(t, "R", entityRow(e)[2])
	assert.Equal(t, "-", entityRow(e)[3])
}

func TestSeedAdmin(t *testing.T) {
	db := tutil.NewTestDB(t, mcdb.Models()...)

	require.NoError(t, seedAdmin(db, "admin@example.com", "changeme1"))
	require.NoError(t, seedAdmin(db, "admin@example.com", "other"))

	var users []mcmodel.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin)
	assert.True(t, users[0].CheckPassword("changeme1"))
}
