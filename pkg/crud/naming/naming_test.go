package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKebab(t *testing.T) {
	tests := map[string]string{
		"ProjectType":  "project-type",
		"projectType":  "project-type",
		"HTMLPage":     "html-page",
		"status_tag":   "status-tag",
		"user":         "user",
		"Sample2Thing": "sample2-thing",
	}

	for in, want := range tests {
		assert.Equal(t, want, Kebab(in), in)
	}
}

func TestResource(t *testing.T) {
	assert.Equal(t, "project-types", Resource("ProjectType"))
	assert.Equal(t, "users", Resource("User"))
	assert.Equal(t, "people", Resource("Person"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Send Mail", Title("send-mail"))
	assert.Equal(t, "Archive", Title("archive"))
}
