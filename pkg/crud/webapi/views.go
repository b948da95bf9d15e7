package webapi

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/pkg/errors"
)

//go:embed views/*.html
var viewsFS embed.FS

// Views renders the html pages hosting the frontend. An entity gets the
// template named "crud.<resource>" when one was added, "index" otherwise.
type Views struct {
	templates *template.Template
}

type viewData struct {
	Title    string
	URI      string
	Menu     []crud.MenuItem
	Entities []*crud.Entity
	Resource string
	Schema   template.JS
}

func NewViews() (*Views, error) {
	t, err := template.New("crud").ParseFS(viewsFS, "views/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing crud views")
	}

	return &Views{templates: t}, nil
}

// AddViews parses more templates, overriding those with the same name.
func (v *Views) AddViews(fsys fs.FS, patterns ...string) error {
	t, err := v.templates.ParseFS(fsys, patterns...)
	if err != nil {
		return errors.Wrap(err, "parsing views")
	}

	v.templates = t
	return nil
}

func (v *Views) RenderDashboard(ctx echo.Context, service *crud.Service) error {
	return v.render(ctx, "dashboard", viewData{
		Title:    "Dashboard",
		URI:      service.URI,
		Menu:     service.Menu(),
		Entities: service.Entities(),
	})
}

func (v *Views) RenderIndex(ctx echo.Context, service *crud.Service, e *crud.Entity) error {
	schema, err := e.Schema()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	js, err := crud.JSONWithParse(schema)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	name := "crud." + e.ResourceName()
	if v.templates.Lookup(name) == nil {
		name = "index"
	}

	return v.render(ctx, name, viewData{
		Title:    e.Title(),
		URI:      service.URI,
		Menu:     service.Menu(),
		Resource: e.ResourceName(),
		Schema:   template.JS(js),
	})
}

func (v *Views) render(ctx echo.Context, name string, data viewData) error {
	var b bytes.Buffer
	if err := v.templates.ExecuteTemplate(&b, name, data); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.HTMLBlob(http.StatusOK, b.Bytes())
}
