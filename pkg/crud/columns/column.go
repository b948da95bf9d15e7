// Package columns builds the table column schema (element-ui table column
// attributes plus the custom prop/type/component keys understood by the
// crud table view).
package columns

import (
	"encoding/json"

	"github.com/materials-commons/mccrud/pkg/crud/computed"
	"github.com/materials-commons/mccrud/pkg/crud/jsfunc"
	"github.com/materials-commons/mccrud/pkg/obj"
	"github.com/pkg/errors"
)

const (
	TypeSelection = "selection"
	TypeIndex     = "index"
	TypeExpand    = "expand"
	TypeBoolean   = "boolean"
	TypeImg       = "img"
	TypeLink      = "link"
	TypeHTML      = "html"
)

// Filter is an entry of the column header filter list.
type Filter struct {
	Text  string `json:"text"`
	Value any    `json:"value"`
}

type Column struct {
	attrs    map[string]any
	computed computed.Func
}

// New creates a column from its attributes, dropping blank values. A prop is
// required unless the column renders a custom component or is a selection or
// index column.
func New(attrs map[string]any) (*Column, error) {
	c := &Column{attrs: make(map[string]any, len(attrs))}
	for key, value := range attrs {
		if !obj.IsBlank(value) {
			c.attrs[key] = value
		}
	}

	if !c.hasValidProp() {
		return nil, errors.New("prop is required")
	}

	return c, nil
}

func (c *Column) hasValidProp() bool {
	if c.Prop() != "" || c.Component() != "" {
		return true
	}

	switch c.Type() {
	case TypeSelection, TypeIndex:
		return true
	default:
		return false
	}
}

func (c *Column) str(key string) string {
	s, _ := c.attrs[key].(string)
	return s
}

func (c *Column) Prop() string      { return c.str("prop") }
func (c *Column) Label() string     { return c.str("label") }
func (c *Column) Type() string      { return c.str("type") }
func (c *Column) Component() string { return c.str("component") }

// Get returns any attribute of the column.
func (c *Column) Get(key string) any {
	return c.attrs[key]
}

func (c *Column) Set(key string, value any) *Column {
	c.attrs[key] = value
	return c
}

// Append adds attributes that are not set yet.
func (c *Column) Append(attrs map[string]any) *Column {
	for key, value := range attrs {
		if _, ok := c.attrs[key]; !ok {
			c.attrs[key] = value
		}
	}

	return c
}

func (c *Column) SetLabel(label string) *Column { return c.Set("label", label) }
func (c *Column) Params(params map[string]any) *Column {
	return c.Set("params", params)
}
func (c *Column) Width(width string) *Column    { return c.Set("width", width) }
func (c *Column) MinWidth(width string) *Column { return c.Set("minWidth", width) }

// Fixed pins the column: true, "left" or "right".
func (c *Column) Fixed(value any) *Column { return c.Set("fixed", value) }

// Sortable enables sorting: true, false or "custom" for server side sorting.
func (c *Column) Sortable(value any) *Column { return c.Set("sortable", value) }

func (c *Column) SortMethod(fn *jsfunc.Func) *Column   { return c.Set("sortMethod", fn) }
func (c *Column) RenderHeader(fn *jsfunc.Func) *Column { return c.Set("renderHeader", fn) }
func (c *Column) Formatter(fn *jsfunc.Func) *Column    { return c.Set("formatter", fn) }
func (c *Column) Selectable(fn *jsfunc.Func) *Column   { return c.Set("selectable", fn) }
func (c *Column) FilterMethod(fn *jsfunc.Func) *Column { return c.Set("filterMethod", fn) }
func (c *Column) Align(align string) *Column           { return c.Set("align", align) }
func (c *Column) HeaderAlign(align string) *Column     { return c.Set("headerAlign", align) }
func (c *Column) ClassName(name string) *Column        { return c.Set("className", name) }
func (c *Column) ShowOverflowTooltip() *Column         { return c.Set("showOverflowTooltip", true) }
func (c *Column) ReserveSelection() *Column            { return c.Set("reserveSelection", true) }

func (c *Column) Filters(filters ...Filter) *Column {
	return c.Set("filters", filters)
}

func (c *Column) Computed(fn computed.Func) *Column {
	c.computed = fn
	return c
}

func (c *Column) ComputedAttr(name string) *Column {
	return c.Computed(computed.Attr(name))
}

func (c *Column) ComputedFunc() computed.Func {
	return c.computed
}

func (c *Column) ToMap() map[string]any {
	m := make(map[string]any, len(c.attrs))
	for key, value := range c.attrs {
		m[key] = value
	}

	return m
}

func (c *Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.attrs)
}
