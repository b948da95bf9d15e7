package obj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNil(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *int

	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(nilMap))
	assert.True(t, IsNil(nilPtr))
	assert.False(t, IsNil(0))
	assert.False(t, IsNil(""))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank([]string{}))
	assert.True(t, IsBlank(map[string]any{}))
	assert.False(t, IsBlank(false))
	assert.False(t, IsBlank(0))
	assert.False(t, IsBlank("x"))
}

func TestIsTruthy(t *testing.T) {
	assert.True(t, IsTruthy(true))
	assert.True(t, IsTruthy(1))
	assert.True(t, IsTruthy("yes"))
	assert.False(t, IsTruthy(false))
	assert.False(t, IsTruthy(0))
	assert.False(t, IsTruthy("0"))
	assert.False(t, IsTruthy(nil))
}
