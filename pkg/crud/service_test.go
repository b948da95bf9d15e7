package crud

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRegister(t *testing.T) {
	s := NewService("/crud", false)
	require.NoError(t, s.Register(newPersonEntity(), &Entity{Name: "Project"}))

	e, err := s.Entity("people")
	require.NoError(t, err)
	assert.Equal(t, "/crud/people", e.ResourceURI())

	_, err = s.Entity("missing")
	assert.ErrorIs(t, err, ErrEntityNotFound)

	err = s.Register(&Entity{Name: "Person"})
	assert.Error(t, err)

	var resources []string
	for _, e := range s.Entities() {
		resources = append(resources, e.ResourceName())
	}
	assert.Equal(t, []string{"people", "projects"}, resources)
}

func TestServiceMenu(t *testing.T) {
	s := NewService("/crud", true,
		MenuEntry{Entity: "people"},
		MenuEntry{Entity: "projects", Title: "All projects", Icon: "el-icon-folder", Props: map[string]any{"size": "mini"}},
		MenuEntry{Title: "No path"},
		MenuEntry{
			Title:    "Admin",
			Path:     "/admin",
			Redirect: "/admin/users",
			Children: []MenuEntry{{Entity: "users", Path: "/admin/users"}, {Title: "Child without path"}},
		},
	)

	menu := s.Menu()
	require.Len(t, menu, 3)

	assert.Equal(t, MenuItem{
		Title:     "People",
		Path:      "/people",
		Component: "el-crud-view",
		Props:     map[string]any{"baseUri": "/crud"},
	}, menu[0])

	assert.Equal(t, "All projects", menu[1].Title)
	assert.Equal(t, "el-icon-folder", menu[1].Icon)
	assert.Equal(t, map[string]any{"baseUri": "/crud", "size": "mini"}, menu[1].Props)

	assert.Equal(t, "/admin", menu[2].Path)
	assert.Equal(t, "/admin/users", menu[2].Redirect)
	assert.Empty(t, menu[2].Component)
	require.Len(t, menu[2].Children, 2)
	assert.Equal(t, "/admin/users", menu[2].Children[0].Path)
	assert.Equal(t, "Child without path", menu[2].Children[1].Title)
}

func TestParseMenu(t *testing.T) {
	entries, err := ParseMenu([]any{"users", map[string]any{"entity": "projects", "icon": "el-icon-folder"}})
	require.NoError(t, err)
	assert.Equal(t, []MenuEntry{{Entity: "users"}, {Entity: "projects", Icon: "el-icon-folder"}}, entries)

	_, err = ParseMenu([]any{map[string]any{"entty": "typo"}})
	assert.Error(t, err)

	_, err = ParseMenu([]any{42})
	require.EqualError(t, err, "menu entry 0: unexpected int")
	assert.Contains(t, fmt.Sprintf("%+v", err), "crud.ParseMenu", "error carries its stack")
}

func TestServiceExecuteAction(t *testing.T) {
	s := NewService("", false)
	var called string

	e := newPersonEntity()
	e.Actions["touch"] = func(c echo.Context, e *Entity, id string) error {
		called = e.ResourceName() + ":" + id
		return c.NoContent(http.StatusNoContent)
	}
	require.NoError(t, s.Register(e))

	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())

	require.NoError(t, s.ExecuteAction(c, "people", "touch", "1,2"))
	assert.Equal(t, "people:1,2", called)

	err := s.ExecuteAction(c, "people", "missing", "action")
	assert.ErrorIs(t, err, ErrActionNotFound)
	assert.EqualError(t, err, "custom action [missing] is not registered on [people]")

	err = s.ExecuteAction(c, "nobody", "touch", "action")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}
