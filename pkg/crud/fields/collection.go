package fields

import (
	"encoding/json"

	"github.com/materials-commons/mccrud/pkg/crud/computed"
	"github.com/materials-commons/mccrud/pkg/obj"
	"github.com/pkg/errors"
)

// Collection is an ordered list of fields with unique ids.
type Collection struct {
	fields []*Field
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) Push(field *Field) error {
	for _, existing := range c.fields {
		if existing.id == field.id {
			return errors.Errorf("field is not unique: %s", field.id)
		}
	}

	c.fields = append(c.fields, field)
	return nil
}

func (c *Collection) All() []*Field {
	return c.fields
}

func (c *Collection) Len() int {
	return len(c.fields)
}

// Get returns the field with the given id, or nil.
func (c *Collection) Get(id string) *Field {
	for _, f := range c.fields {
		if f.id == id {
			return f
		}
	}

	return nil
}

func (c *Collection) reset() {
	c.fields = nil
}

func (c *Collection) IDs() []string {
	return c.pluck(func(*Field) bool { return true })
}

func (c *Collection) Required() []string {
	return c.pluck((*Field).IsRequired)
}

func (c *Collection) Disabled() []string {
	return c.pluck(func(f *Field) bool { return obj.IsTruthy(f.El("disabled")) })
}

func (c *Collection) Readonly() []string {
	return c.pluck(func(f *Field) bool { return obj.IsTruthy(f.El("readonly")) })
}

// Computed returns the computed attribute of every field that has one, keyed by field id.
func (c *Collection) Computed() map[string]computed.Func {
	m := make(map[string]computed.Func)
	for _, f := range c.fields {
		if f.computed != nil {
			m[f.id] = f.computed
		}
	}

	return m
}

func (c *Collection) pluck(keep func(*Field) bool) []string {
	ids := make([]string, 0, len(c.fields))
	for _, f := range c.fields {
		if keep(f) {
			ids = append(ids, f.id)
		}
	}

	return ids
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	if c == nil || c.fields == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(c.fields)
}
