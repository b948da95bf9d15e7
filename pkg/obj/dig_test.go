package obj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDig(t *testing.T) {
	m := map[string]any{
		"name":  "p1",
		"owner": map[string]any{"name": "alice", "team": map[string]any{"id": 3}},
	}

	v, ok := Dig(m, "name")
	assert.True(t, ok)
	assert.Equal(t, "p1", v)

	v, ok = Dig(m, "owner.team.id")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = Dig(m, "owner.missing")
	assert.False(t, ok)

	_, ok = Dig(m, "name.first")
	assert.False(t, ok)
}
