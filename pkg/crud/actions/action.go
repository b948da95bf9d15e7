// Package actions holds the stock custom actions: exports of the records of
// an entity as CSV, XML, JSON or YAML.
package actions

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/crud/repository"
)

const allRecords = "action"

// Scope returns the repository of the entity narrowed down for an action
// request: the listed ids (or the search params when there are none), the
// sort order, the relations to include and the maximum number of records.
func Scope(c echo.Context, e *crud.Entity, id string) (repository.Repository, error) {
	repo, err := e.Repository()
	if err != nil {
		return nil, err
	}

	params := crud.RequestParams(c)

	if id == "" {
		id = allRecords
	}

	if ids := repository.SplitIDs(id); id != allRecords && len(ids) != 0 {
		repo.WhereKey(ids...)
	} else {
		repo.ApplyFilters(crud.FilterParams(params))
	}

	if sortBy := params["sort"]; sortBy != "" {
		repo.OrderBy(sortBy, params["order"])
	}

	if include := params["include"]; include != "" {
		if p, ok := repo.(repository.Preloader); ok {
			p.With(repository.SplitIDs(include)...)
		}
	}

	if limit, err := strconv.Atoi(params["limit"]); err == nil && limit > 0 {
		repo.Limit(limit)
	}

	return e.Loading(repo, nil, id), nil
}

// attach sets the content headers of an export, as an attachment when the
// request has a download param.
func attach(c echo.Context, format, contentType string) {
	disposition := "inline"
	if _, ok := crud.RequestParams(c)["download"]; ok {
		disposition = "attachment"
	}

	now := time.Now()
	filename := fmt.Sprintf("export_%s_%d.%s", now.Format("2006_01_02"), now.Unix(), format)

	h := c.Response().Header()
	h.Set(echo.HeaderContentType, contentType)
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
}
