package decoder

import (
	"encoding/json"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// DecodeMapStrict decodes m into T by the json names of its fields, failing
// on keys T does not declare. Scalars are converted weakly ("1" -> 1), which
// suits values read from settings files.
func DecodeMapStrict[T any](m map[string]any) (T, error) {
	var out T

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "json",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, errors.Wrap(err, "failed to create decoder")
	}

	if err := dec.Decode(m); err != nil {
		return out, errors.Wrap(err, "failed to decode map")
	}

	return out, nil
}

// ToMap converts a record to a map keyed by its json names. Maps are copied,
// anything else goes through its json encoding so hidden fields stay hidden.
func ToMap(record any) (map[string]any, error) {
	switch r := record.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		m := make(map[string]any, len(r))
		for key, value := range r {
			m[key] = value
		}
		return m, nil
	}

	b, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal record")
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "record is not an object")
	}

	return m, nil
}
