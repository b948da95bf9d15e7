// Package jsfunc holds javascript function literals that are shipped to the
// frontend as part of an entity schema. A Func serialises to its source text
// ("function(a,b){...}") so the frontend can revive it with JSON.parse and a
// reviver (see crud.JSONWithParse).
package jsfunc

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var functionNotation = regexp.MustCompile(`(?i)^function([\s\w]*)\(([^)]*)\)\s*{(.*)}$`)

type Func struct {
	args []string
	body string
}

// New creates a function from a comma separated argument list and a body.
func New(args, body string) (*Func, error) {
	f := &Func{
		args: splitTrimmed(joinLines(args), ","),
		body: joinLines(body),
	}

	if f.body == "" {
		return nil, errors.New("function has no body")
	}

	return f, nil
}

// Parse accepts the full notation, for example "function (row, idx) { return row.id }".
func Parse(src string) (*Func, error) {
	src = joinLines(src)

	matches := functionNotation.FindStringSubmatch(src)
	if matches == nil {
		return nil, errors.Errorf("not a function notation: %q", src)
	}

	return New(matches[2], matches[3])
}

// MustParse is like Parse but panics on error. Meant for package level declarations.
func MustParse(src string) *Func {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return f
}

func (f *Func) Args() []string {
	return append([]string(nil), f.args...)
}

func (f *Func) Body() string {
	return f.body
}

func (f *Func) String() string {
	return "function(" + strings.Join(f.args, ",") + "){" + f.body + "}"
}

func (f *Func) ToMap() map[string]any {
	return map[string]any{
		"function": map[string]any{
			"args": f.Args(),
			"body": f.body,
		},
	}
}

func (f *Func) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Func) MarshalYAML() (any, error) {
	return f.String(), nil
}

func joinLines(s string) string {
	return strings.Join(splitTrimmed(s, "\n"), " ")
}

func splitTrimmed(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
