// Package webapi serves the entities of a crud.Service over HTTP with echo.
package webapi

import (
	"encoding/json"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/clog"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/crud/repository"
	"github.com/materials-commons/mccrud/pkg/lock"
	"github.com/pkg/errors"
)

var jsonpCallback = regexp.MustCompile(`^[A-Za-z_$][\w$]*(\.[A-Za-z_$][\w$]*|\[\d+\])*$`)

type CrudController struct {
	service *crud.Service
	views   *Views
	locker  *lock.IdLocker
}

func NewCrudController(service *crud.Service, views *Views) *CrudController {
	return &CrudController{
		service: service,
		views:   views,
		locker:  lock.NewIdLocker(),
	}
}

func (c *CrudController) Dashboard(ctx echo.Context) error {
	if !c.service.Dashboard || c.views == nil {
		return ctx.String(http.StatusNotFound, "Dashboard not available")
	}

	return c.views.RenderDashboard(ctx, c.service)
}

func (c *CrudController) Menu(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.service.Menu())
}

// Schema answers the entity schema as JSON, or as JSONP with a parse
// wrapper reviving the javascript functions when a callback is given.
func (c *CrudController) Schema(ctx echo.Context) error {
	e, err := c.entity(ctx)
	if err != nil {
		return err
	}

	schema, err := e.Schema()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	callback := ctx.QueryParam("callback")
	if callback == "" {
		return ctx.JSON(http.StatusOK, schema)
	}

	if !jsonpCallback.MatchString(callback) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid callback name")
	}

	js, err := crud.JSONWithParse(schema)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJavaScriptCharsetUTF8, []byte("/**/"+callback+"("+js+");"))
}

// Action runs a custom action, for all records when no id is routed.
func (c *CrudController) Action(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		id = "action"
	}

	err := c.service.ExecuteAction(ctx, ctx.Param("entity"), ctx.Param("action"), id)
	if err != nil && !ctx.Response().Committed {
		return toHTTPError(err)
	}

	return err
}

// Index renders the entity view for browsers and a page of records for
// requests expecting JSON.
func (c *CrudController) Index(ctx echo.Context) error {
	e, err := c.entity(ctx)
	if err != nil {
		return err
	}

	if c.views != nil && !expectsJSON(ctx.Request()) {
		return c.views.RenderIndex(ctx, c.service, e)
	}

	if !e.Allows(crud.OpRead) {
		return echo.ErrMethodNotAllowed
	}

	repo, err := e.Repository()
	if err != nil {
		return toHTTPError(err)
	}

	params := crud.RequestParams(ctx)
	sortBy, order := params["sort"], params["order"]

	repo = e.Loading(repo, params, "")
	if sortBy != "" {
		repo.OrderBy(sortBy, order)
	}

	page, _ := strconv.Atoi(params["page"])
	size, _ := e.Pagination()
	if s, err := strconv.Atoi(params["size"]); err == nil && s > 0 {
		size = s
	}

	var result *repository.Page
	if e.PaginationSize < 0 {
		records, err := repo.All(ctx.Request().Context())
		if err != nil {
			return toHTTPError(err)
		}
		result = repository.NewPage(records, 1, 0, int64(len(records)))
	} else if result, err = repo.Paginate(ctx.Request().Context(), page, size); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *CrudController) Show(ctx echo.Context) error {
	e, err := c.entity(ctx)
	if err != nil {
		return err
	}

	if !e.Allows(crud.OpRead) {
		return echo.ErrMethodNotAllowed
	}

	repo, err := e.Repository()
	if err != nil {
		return toHTTPError(err)
	}

	id := ctx.Param("id")
	record, err := e.Loading(repo, crud.RequestParams(ctx), id).Find(ctx.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, record)
}

func (c *CrudController) Store(ctx echo.Context) error {
	e, err := c.entity(ctx)
	if err != nil {
		return err
	}

	if !e.Allows(crud.OpCreate) {
		return echo.ErrMethodNotAllowed
	}

	attrs, err := c.validated(ctx, e, "")
	if err != nil {
		return err
	}

	repo, err := e.Repository()
	if err != nil {
		return toHTTPError(err)
	}

	record, err := repo.Create(ctx.Request().Context(), attrs)
	if err != nil {
		clog.UsingCtx(e.ResourceName()).Errorf("create failed: %s", err)
		return ctx.String(http.StatusInternalServerError, "Record not created: "+err.Error())
	}

	return ctx.JSON(http.StatusCreated, record)
}

func (c *CrudController) Update(ctx echo.Context) error {
	e, err := c.entity(ctx)
	if err != nil {
		return err
	}

	if !e.Allows(crud.OpUpdate) {
		return echo.ErrMethodNotAllowed
	}

	id := ctx.Param("id")
	attrs, err := c.validated(ctx, e, id)
	if err != nil {
		return err
	}

	repo, err := e.Repository()
	if err != nil {
		return toHTTPError(err)
	}

	var record any
	err = c.withRecordLocks(e, id, func() error {
		record, err = repo.Update(ctx.Request().Context(), attrs, id)
		return err
	})

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return toHTTPError(err)
	case err != nil:
		clog.UsingCtx(e.ResourceName()).WithField("id", id).Errorf("update failed: %s", err)
		return ctx.String(http.StatusInternalServerError, "Record "+id+" not updated: "+err.Error())
	}

	return ctx.JSON(http.StatusOK, record)
}

// Destroy deletes one record or a comma separated list of records.
func (c *CrudController) Destroy(ctx echo.Context) error {
	e, err := c.entity(ctx)
	if err != nil {
		return err
	}

	if !e.Allows(crud.OpDelete) {
		return echo.ErrMethodNotAllowed
	}

	repo, err := e.Repository()
	if err != nil {
		return toHTTPError(err)
	}

	id := ctx.Param("id")
	err = c.withRecordLocks(e, id, func() error {
		return repo.Delete(ctx.Request().Context(), id)
	})

	if err != nil {
		clog.UsingCtx(e.ResourceName()).WithField("id", id).Errorf("delete failed: %s", err)
		return ctx.String(http.StatusInternalServerError, "Record "+id+" not deleted: "+err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *CrudController) entity(ctx echo.Context) (*crud.Entity, error) {
	e, err := c.service.Entity(ctx.Param("entity"))
	if err != nil {
		return nil, toHTTPError(err)
	}

	return e, nil
}

// validated reads the request data and validates it against the entity
// rules. Validation failures become a 422 with the messages of every field.
func (c *CrudController) validated(ctx echo.Context, e *crud.Entity, id string) (map[string]any, error) {
	data, err := requestData(ctx)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	attrs, err := e.ValidateRequest(data, id)
	var verr *crud.ValidationError
	switch {
	case errors.As(err, &verr):
		return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]any{
			"message": verr.Error(),
			"errors":  verr.Errors,
		})
	case err != nil:
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return attrs, nil
}

// withRecordLocks runs fn holding the locks of every listed record, taken in
// sorted order.
func (c *CrudController) withRecordLocks(e *crud.Entity, id string, fn func() error) error {
	ids := repository.SplitIDs(id)
	sort.Strings(ids)

	locked := fn
	for i := len(ids) - 1; i >= 0; i-- {
		if i > 0 && ids[i] == ids[i-1] {
			continue
		}

		key, next := e.ResourceName()+"/"+ids[i], locked
		locked = func() error {
			return c.locker.WithLock(key, next)
		}
	}

	return locked()
}

func requestData(ctx echo.Context) (map[string]any, error) {
	req := ctx.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		data := make(map[string]any)
		if req.ContentLength == 0 {
			return data, nil
		}

		if err := json.NewDecoder(req.Body).Decode(&data); err != nil {
			return nil, errors.Wrap(err, "invalid json body")
		}
		return data, nil
	}

	params := crud.RequestParams(ctx)
	data := make(map[string]any, len(params))
	for key, value := range params {
		data[key] = value
	}

	return data, nil
}

func expectsJSON(req *http.Request) bool {
	if req.Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest" {
		return true
	}

	return strings.Contains(req.Header.Get(echo.HeaderAccept), "json")
}

func toHTTPError(err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, crud.ErrEntityNotFound),
		errors.Is(err, crud.ErrActionNotFound),
		errors.Is(err, repository.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, crud.ErrOperationNotAllowed),
		errors.Is(err, repository.ErrNotSupported):
		return echo.NewHTTPError(http.StatusMethodNotAllowed, err.Error())
	case errors.Is(err, repository.ErrInvalidColumn),
		errors.Is(err, repository.ErrInvalidOperator):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		log.Errorf("crud request failed: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
