package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"name=Alloys", "owner_id=", "q=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Alloys", "owner_id": "", "q": "a=b"}, params)

	_, err = parseParams([]string{"oops"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=x"})
	assert.Error(t, err)
}

func TestShowRecords(t *testing.T) {
	records := []any{
		map[string]any{"id": float64(1), "name": "Alloys", "owner": map[string]any{"name": "Ada"}},
		map[string]any{"id": float64(2), "name": "Ceramics", "size": 1.5},
	}

	assert.Equal(t, []string{"id", "name", "size"}, recordKeys(records))

	var b bytes.Buffer
	require.NoError(t, showRecords(&b, records, []string{"id", "owner.name"}))
	out := b.String()
	assert.Contains(t, out, "Ada")
	assert.NotContains(t, out, "Ceramics")
	assert.Contains(t, strings.ToLower(out), "total: 2")

	b.Reset()
	require.NoError(t, showRecords(&b, nil, nil))
	assert.Equal(t, "No records\n", b.String())
}

func TestCell(t *testing.T) {
	assert.Equal(t, "", cell(nil))
	assert.Equal(t, "3", cell(float64(3)))
	assert.Equal(t, "1.25", cell(1.25))
	assert.Equal(t, "true", cell(true))
	assert.Equal(t, `{"a":1}`, cell(map[string]any{"a": 1}))
}

func TestFormatColumnHeader(t *testing.T) {
	assert.Equal(t, "Owner Name", formatColumnHeader("owner.name"))
	assert.Equal(t, "File Count", formatColumnHeader("file_count"))
}
