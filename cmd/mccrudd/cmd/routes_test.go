package cmd

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/materials-commons/mccrud/pkg/mcdb/mcmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRoutes(t *testing.T) {
	old := config.GetConfig()
	t.Cleanup(func() { config.SetConfig(old) })
	config.SetConfig(config.NewMapConfig(map[string]string{config.KeyCrudAPIKeys: "admin-key"}))

	e, db := setupServer(t)

	grace := mcmodel.User{Name: "Grace", Email: "grace@example.com"}
	require.NoError(t, db.Create(&grace).Error)
	require.NotEmpty(t, grace.ApiToken)

	t.Run("MissingKey", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/crud/_menu", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UserTokenInQuery", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/crud/log-levels?X-API-KEY="+grace.ApiToken, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"ctx":"global"`)
	})

	t.Run("DeletedUserTokenForgotten", func(t *testing.T) {
		rec := request(e, http.MethodDelete, "/crud/users/"+strconv.Itoa(grace.ID)+"?X-API-KEY=admin-key", "")
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		rec = request(e, http.MethodGet, "/crud/_menu?X-API-KEY="+grace.ApiToken, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = request(e, http.MethodGet, "/crud/_menu?X-API-KEY=admin-key", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
