package crud

import (
	"github.com/materials-commons/mccrud/pkg/crud/naming"
	"github.com/materials-commons/mccrud/pkg/decoder"
	"github.com/pkg/errors"
)

const defaultMenuComponent = "el-crud-view"

// MenuEntry is one configured menu entry. An entry naming an Entity links to
// the crud view of that entity.
type MenuEntry struct {
	Entity    string         `json:"entity,omitempty" yaml:"entity,omitempty"`
	Title     string         `json:"title,omitempty" yaml:"title,omitempty"`
	Path      string         `json:"path,omitempty" yaml:"path,omitempty"`
	Component string         `json:"component,omitempty" yaml:"component,omitempty"`
	Props     map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
	Redirect  string         `json:"redirect,omitempty" yaml:"redirect,omitempty"`
	Icon      string         `json:"icon,omitempty" yaml:"icon,omitempty"`
	Children  []MenuEntry    `json:"children,omitempty" yaml:"children,omitempty"`
}

// MenuItem is a route of the frontend router.
type MenuItem struct {
	Title     string         `json:"title,omitempty"`
	Path      string         `json:"path,omitempty"`
	Component string         `json:"component,omitempty"`
	Props     map[string]any `json:"props,omitempty"`
	Redirect  string         `json:"redirect,omitempty"`
	Icon      string         `json:"icon,omitempty"`
	Children  []MenuItem     `json:"children,omitempty"`
}

// ParseMenu reads menu entries from configuration values: either an entity
// name or a map with the MenuEntry keys.
func ParseMenu(raw []any) ([]MenuEntry, error) {
	entries := make([]MenuEntry, 0, len(raw))
	for i, item := range raw {
		switch v := item.(type) {
		case string:
			entries = append(entries, MenuEntry{Entity: v})
		case map[string]any:
			entry, err := decoder.DecodeMapStrict[MenuEntry](v)
			if err != nil {
				return nil, errors.Wrapf(err, "menu entry %d", i)
			}
			entries = append(entries, entry)
		default:
			return nil, errors.Errorf("menu entry %d: unexpected %T", i, item)
		}
	}

	return entries, nil
}

func makeMenuItem(entry MenuEntry, baseURI string) MenuItem {
	var item MenuItem

	if entry.Entity != "" {
		item.Path = "/" + entry.Entity
		item.Component = defaultMenuComponent
		item.Title = naming.Title(entry.Entity)
	}

	if entry.Component != "" {
		item.Component = entry.Component
	}

	if item.Component != "" {
		item.Props = map[string]any{"baseUri": baseURI}
		for key, value := range entry.Props {
			item.Props[key] = value
		}
	}

	if entry.Path != "" {
		item.Path = entry.Path
	}

	for _, child := range entry.Children {
		item.Children = append(item.Children, makeMenuItem(child, baseURI))
	}

	if entry.Redirect != "" {
		item.Redirect = entry.Redirect
	}

	if entry.Title != "" {
		item.Title = entry.Title
	}

	if entry.Icon != "" {
		item.Icon = entry.Icon
	}

	return item
}
