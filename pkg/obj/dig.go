package obj

import "strings"

// Dig reads a value from nested maps using a dotted path ("owner.name").
func Dig(m map[string]any, path string) (any, bool) {
	var current any = m
	for _, key := range strings.Split(path, ".") {
		next, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		if current, ok = next[key]; !ok {
			return nil, false
		}
	}

	return current, true
}
