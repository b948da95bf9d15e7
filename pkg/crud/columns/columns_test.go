package columns

import (
	"encoding/json"
	"testing"

	"github.com/materials-commons/mccrud/pkg/crud/jsfunc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDropsBlankValues(t *testing.T) {
	col, err := New(map[string]any{"prop": "name", "label": "Name", "type": "", "filters": []Filter{}})
	require.NoError(t, err)

	m := col.ToMap()
	assert.Equal(t, map[string]any{"prop": "name", "label": "Name"}, m)
}

func TestPropRequired(t *testing.T) {
	_, err := New(map[string]any{"label": "Name"})
	assert.Error(t, err)

	tests := []map[string]any{
		{"type": TypeSelection},
		{"type": TypeIndex},
		{"component": "status-tag"},
	}

	for _, attrs := range tests {
		_, err := New(attrs)
		assert.NoError(t, err, "attrs %v", attrs)
	}
}

func TestColumnJSON(t *testing.T) {
	col, err := New(map[string]any{"prop": "created_at", "label": "Created"})
	require.NoError(t, err)
	col.Width("180").Sortable("custom").Formatter(jsfunc.MustParse("function(row){return row.created_at}"))
	col.Append(map[string]any{"width": "20", "align": "center"})

	b, err := json.Marshal(col)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "180", m["width"])
	assert.Equal(t, "center", m["align"])
	assert.Equal(t, "custom", m["sortable"])
	assert.Equal(t, "function(row){return row.created_at}", m["formatter"])
}

func TestFactory(t *testing.T) {
	f := NewFactory(NewCollection())
	f.Selection()
	f.Index()
	f.Col("name", "Name", "")
	f.Boolean("active", "Active")
	f.Component("StatusTag", "status", "Status")
	require.NoError(t, f.Err())

	cols := f.Columns()
	assert.Equal(t, 5, cols.Len())
	assert.Equal(t, []string{"name", "active", "status"}, cols.IDs())
	assert.Equal(t, "status-tag", cols.All()[4].Component())
	assert.Equal(t, TypeBoolean, cols.All()[3].Type())
}

func TestFactoryStickyError(t *testing.T) {
	f := NewFactory(NewCollection())
	f.Col("name", "Name", "")
	f.Col("name", "Other", "")
	f.Col("", "No prop", "")

	require.Error(t, f.Err())
	assert.Contains(t, f.Err().Error(), "column is not unique")
	assert.Equal(t, 1, f.Columns().Len())
}

func TestSetColumnsAndComputed(t *testing.T) {
	f := NewFactory(NewCollection())
	f.Col("old", "Old", "")
	f.SetColumns(map[string]any{"prop": "a"}, map[string]any{"prop": "b"})
	require.NoError(t, f.Err())
	assert.Equal(t, []string{"a", "b"}, f.Columns().IDs())

	f.Columns().All()[1].ComputedAttr("a")
	computed := f.Columns().Computed()
	require.Contains(t, computed, "b")
	assert.Equal(t, 1, computed["b"](map[string]any{"a": 1}))
}

func TestEmptyCollectionJSON(t *testing.T) {
	b, err := json.Marshal(NewCollection())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}
