package actions

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/decoder"
	"gopkg.in/yaml.v3"
)

// YAMLExport streams the records as a yaml sequence, one item per record.
func YAMLExport(c echo.Context, e *crud.Entity, id string) error {
	repo, err := Scope(c, e, id)
	if err != nil {
		return err
	}

	attach(c, "yaml", "application/yaml")
	res := c.Response()
	res.WriteHeader(http.StatusOK)

	written := 0
	err = repo.Each(c.Request().Context(), func(record any) error {
		m, err := decoder.ToMap(record)
		if err != nil {
			return err
		}

		b, err := yaml.Marshal([]any{m})
		if err != nil {
			return err
		}

		if _, err := res.Write(b); err != nil {
			return err
		}

		written++
		res.Flush()
		return nil
	})
	if err != nil {
		return err
	}

	if written == 0 {
		_, err = res.Write([]byte("[]\n"))
	}

	return err
}
