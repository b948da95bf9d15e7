package repository

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

var callbackOperators = map[string]bool{
	"": true, "=": true, "==": true, "===": true, "!=": true, "<>": true, "!==": true,
	"<": true, "<=": true, ">": true, ">=": true,
}

// compare applies a loose comparison of a record value against the
// constraint value: numbers (and numeric strings) compare numerically,
// anything else compares as text. === and !== also require the same type.
func compare(actual any, operator string, expected any) bool {
	switch operator {
	case "===":
		return reflect.DeepEqual(actual, expected)
	case "!==":
		return !reflect.DeepEqual(actual, expected)
	case "", "=", "==":
		return looseCompare(actual, expected) == 0
	case "!=", "<>":
		return looseCompare(actual, expected) != 0
	case "<":
		return looseCompare(actual, expected) < 0
	case "<=":
		return looseCompare(actual, expected) <= 0
	case ">":
		return looseCompare(actual, expected) > 0
	case ">=":
		return looseCompare(actual, expected) >= 0
	case "in":
		values, _ := expected.([]string)
		for _, v := range values {
			if looseCompare(actual, v) == 0 {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func looseCompare(a, b any) int {
	fa, aIsNum := toFloat(a)
	fb, bIsNum := toFloat(b)
	if aIsNum && bIsNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(toText(a), toText(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func toText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if s {
			return "1"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// naturalLess orders "item2" before "item10".
func naturalLess(a, b any) bool {
	fa, aIsNum := toFloat(a)
	fb, bIsNum := toFloat(b)
	if aIsNum && bIsNum {
		return fa < fb
	}

	return natural.Less(toText(a), toText(b))
}
