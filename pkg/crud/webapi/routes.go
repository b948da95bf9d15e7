package webapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/materials-commons/mccrud/pkg/crud"
)

// RegisterRoutes mounts the crud routes of service under its URI. views may
// be nil, the dashboard is then unavailable and indexes always answer JSON.
// File log outputs of /_log are confined to CRUD_LOG_DIR.
func RegisterRoutes(e *echo.Echo, service *crud.Service, views *Views, m ...echo.MiddlewareFunc) *echo.Group {
	g := e.Group(strings.TrimSuffix(service.URI, "/"), m...)

	crudController := NewCrudController(service, views)
	logController := NewLogController(config.LogDir())

	g.GET("", crudController.Dashboard)
	g.GET("/", crudController.Dashboard)
	g.GET("/_menu", crudController.Menu)

	g.GET("/_log", logController.ShowCurrentLogging)
	g.PUT("/_log", logController.SetLogging)

	g.GET("/:entity/_schema", crudController.Schema)
	g.Any("/:entity/action/:action", crudController.Action)
	g.Any("/:entity/:id/:action", crudController.Action)

	g.GET("/:entity", crudController.Index)
	g.POST("/:entity", crudController.Store)
	g.GET("/:entity/:id", crudController.Show)
	g.PUT("/:entity/:id", crudController.Update)
	g.PATCH("/:entity/:id", crudController.Update)
	g.DELETE("/:entity/:id", crudController.Destroy)

	return g
}
