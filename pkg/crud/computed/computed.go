// Package computed describes attributes that are derived from a record when
// it is presented, rather than stored with it.
package computed

// Func derives a value from a record. Records are presented as maps keyed
// by their json names.
type Func func(record map[string]any) any

// Attr copies an existing attribute of the record.
func Attr(name string) Func {
	return func(record map[string]any) any {
		return record[name]
	}
}
