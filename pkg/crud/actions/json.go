package actions

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/crud"
)

// JSONExport answers with all the records.
func JSONExport(c echo.Context, e *crud.Entity, id string) error {
	repo, err := Scope(c, e, id)
	if err != nil {
		return err
	}

	records, err := repo.All(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}
