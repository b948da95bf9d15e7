package obj

import (
	"reflect"
)

// IsNil reports whether what is nil or a nil pointer, map, slice, chan,
// func or interface hidden behind a non-nil interface value.
func IsNil(what any) bool {
	if what == nil {
		return true
	}

	v := reflect.ValueOf(what)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// IsBlank reports whether what is nil, an empty string, or an empty map or slice.
// Booleans and numbers are never blank, false and 0 are meaningful schema values.
func IsBlank(what any) bool {
	if IsNil(what) {
		return true
	}

	v := reflect.ValueOf(what)
	switch v.Kind() {
	case reflect.String, reflect.Map, reflect.Slice, reflect.Array:
		return v.Len() == 0
	default:
		return false
	}
}

// IsTruthy follows the loose truthiness used by the frontend for flags such
// as $el.disabled: false, 0, "", "0" and nil are false.
func IsTruthy(what any) bool {
	if IsBlank(what) {
		return false
	}

	switch v := what.(type) {
	case bool:
		return v
	case string:
		return v != "0" && v != "false"
	}

	rv := reflect.ValueOf(what)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}

	return true
}
