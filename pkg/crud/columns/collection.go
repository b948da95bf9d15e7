package columns

import (
	"encoding/json"

	"github.com/materials-commons/mccrud/pkg/crud/computed"
	"github.com/pkg/errors"
)

// Collection is an ordered list of columns. Columns with a prop must have a unique prop.
type Collection struct {
	columns []*Column
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) Push(col *Column) error {
	if prop := col.Prop(); prop != "" {
		for _, existing := range c.columns {
			if existing.Prop() == prop {
				return errors.Errorf("column is not unique: %s", prop)
			}
		}
	}

	c.columns = append(c.columns, col)
	return nil
}

func (c *Collection) All() []*Column {
	return c.columns
}

func (c *Collection) Len() int {
	return len(c.columns)
}

// IDs returns the props of the data columns (selection and index columns excluded).
func (c *Collection) IDs() []string {
	var ids []string
	for _, col := range c.columns {
		switch col.Type() {
		case TypeSelection, TypeIndex:
			continue
		}
		ids = append(ids, col.Prop())
	}

	return ids
}

func (c *Collection) Computed() map[string]computed.Func {
	m := make(map[string]computed.Func)
	for _, col := range c.columns {
		if col.computed != nil && col.Prop() != "" {
			m[col.Prop()] = col.computed
		}
	}

	return m
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	if c == nil || c.columns == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(c.columns)
}
