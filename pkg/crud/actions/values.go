package actions

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// text renders a record value for csv cells and xml elements.
func text(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		if value {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case map[string]any, []any:
		b, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprint(value)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
