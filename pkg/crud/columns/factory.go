package columns

import (
	"github.com/materials-commons/mccrud/pkg/crud/naming"
)

// Factory appends columns to a collection, keeping the first error.
type Factory struct {
	columns *Collection
	err     error
}

func NewFactory(c *Collection) *Factory {
	return &Factory{columns: c}
}

func (f *Factory) Columns() *Collection {
	return f.columns
}

func (f *Factory) Err() error {
	return f.err
}

func (f *Factory) setErr(err error) {
	if f.err == nil {
		f.err = err
	}
}

func (f *Factory) Add(col *Column) *Column {
	if err := f.columns.Push(col); err != nil {
		f.setErr(err)
	}

	return col
}

func (f *Factory) make(attrs map[string]any) *Column {
	col, err := New(attrs)
	if err != nil {
		f.setErr(err)
		return &Column{attrs: attrs}
	}

	return f.Add(col)
}

// SetColumns replaces the collection with columns built from attribute maps.
func (f *Factory) SetColumns(columns ...map[string]any) *Factory {
	f.columns.columns = nil
	for _, attrs := range columns {
		f.make(attrs)
	}

	return f
}

// Col adds a column, typ is optional (one of the Type constants).
func (f *Factory) Col(prop, label, typ string) *Column {
	return f.make(map[string]any{"prop": prop, "label": label, "type": typ})
}

func (f *Factory) Selection() *Column {
	return f.make(map[string]any{"type": TypeSelection})
}

func (f *Factory) Index() *Column {
	return f.make(map[string]any{"type": TypeIndex})
}

func (f *Factory) Boolean(prop, label string) *Column { return f.Col(prop, label, TypeBoolean) }
func (f *Factory) Img(prop, label string) *Column     { return f.Col(prop, label, TypeImg) }
func (f *Factory) Link(prop, label string) *Column    { return f.Col(prop, label, TypeLink) }
func (f *Factory) HTML(prop, label string) *Column    { return f.Col(prop, label, TypeHTML) }
func (f *Factory) Expand(prop, label string) *Column  { return f.Col(prop, label, TypeExpand) }

// Component adds a column rendered by a custom frontend component. The
// name is kebab-cased ("StatusTag" -> "status-tag").
func (f *Factory) Component(name, prop, label string) *Column {
	return f.make(map[string]any{
		"component": naming.Kebab(name),
		"prop":      prop,
		"label":     label,
	})
}
