// Package fields builds the form schema consumed by el-form-renderer. The
// JSON keys ($id, $type, $el, ...) follow that renderer's conventions.
package fields

import (
	"encoding/json"

	"github.com/materials-commons/mccrud/pkg/crud/computed"
	"github.com/materials-commons/mccrud/pkg/obj"
	"github.com/pkg/errors"
)

const (
	TypeInput          = "input"
	TypeAutocomplete   = "autocomplete"
	TypeInputNumber    = "input-number"
	TypeRadio          = "radio"
	TypeCheckbox       = "checkbox"
	TypeSelect         = "select"
	TypeRadioGroup     = "radio-group"
	TypeRadioButton    = "radio-button"
	TypeCheckboxGroup  = "checkbox-group"
	TypeCheckboxButton = "checkbox-button"
	TypeCascader       = "cascader"
	TypeSwitch         = "switch"
	TypeSlider         = "slider"
	TypeTimePicker     = "time-picker"
	TypeDatePicker     = "date-picker"
	TypeColorPicker    = "color-picker"
	TypeRate           = "rate"
	TypeTransfer       = "transfer"
	TypeGroup          = "group"
)

// Option is an entry of a selection field.
type Option struct {
	Label    string `json:"label"`
	Value    any    `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Rule is an el-form-item validation rule, e.g. {"required": true, "message": "...", "trigger": "blur"}.
type Rule map[string]any

type Field struct {
	id         string
	typ        string
	label      string
	def        any
	el         map[string]any
	attrs      map[string]any
	enableWhen map[string]any
	options    []Option
	optionsFn  func() []Option
	items      *Collection
	remote     string
	rules      []Rule
	extra      map[string]any
	computed   computed.Func
}

func New(typ, id, label string) (*Field, error) {
	if id == "" {
		return nil, errors.New("field has invalid id")
	}

	if typ == "" {
		typ = TypeInput
	}

	return &Field{id: id, typ: typ, label: label}, nil
}

func (f *Field) ID() string        { return f.id }
func (f *Field) Type() string      { return f.typ }
func (f *Field) Label() string     { return f.label }
func (f *Field) Default() any      { return f.def }
func (f *Field) Rules() []Rule     { return f.rules }
func (f *Field) Items() *Collection { return f.items }

func (f *Field) ComputedFunc() computed.Func {
	return f.computed
}

// El returns a property of the underlying element.
func (f *Field) El(key string) any {
	return f.el[key]
}

func (f *Field) IsRequired() bool {
	for _, rule := range f.rules {
		if required, ok := rule["required"].(bool); ok && required {
			return true
		}
	}

	return false
}

func (f *Field) SetLabel(label string) *Field {
	f.label = label
	return f
}

func (f *Field) SetDefault(value any) *Field {
	f.def = value
	return f
}

// SetEl sets a property of the underlying element (placeholder, disabled, ...).
func (f *Field) SetEl(key string, value any) *Field {
	if f.el == nil {
		f.el = make(map[string]any)
	}
	f.el[key] = value
	return f
}

// SetAttr sets a render attribute of the field.
func (f *Field) SetAttr(key string, value any) *Field {
	if f.attrs == nil {
		f.attrs = make(map[string]any)
	}
	f.attrs[key] = value
	return f
}

func (f *Field) Placeholder(text string) *Field {
	return f.SetEl("placeholder", text)
}

func (f *Field) Disabled() *Field {
	return f.SetEl("disabled", true)
}

func (f *Field) Readonly() *Field {
	return f.SetEl("readonly", true)
}

// EnabledWhen shows the field only while another field has the given value.
func (f *Field) EnabledWhen(field string, value any) *Field {
	if f.enableWhen == nil {
		f.enableWhen = make(map[string]any)
	}
	f.enableWhen[field] = value
	return f
}

// EnabledWhenAll replaces all display conditions.
func (f *Field) EnabledWhenAll(conditions map[string]any) *Field {
	f.enableWhen = conditions
	return f
}

func (f *Field) SetOptions(options ...Option) *Field {
	f.options = options
	f.optionsFn = nil
	return f
}

// SetOptionsFunc defers loading the options until the schema is serialised.
func (f *Field) SetOptionsFunc(fn func() []Option) *Field {
	f.optionsFn = fn
	f.options = nil
	return f
}

// Options resolves the options of the field.
func (f *Field) Options() []Option {
	if f.optionsFn != nil {
		return f.optionsFn()
	}

	return f.options
}

// SetRemote sets the url used by autocomplete and select fields to load suggestions.
func (f *Field) SetRemote(url string) *Field {
	f.remote = url
	return f
}

func (f *Field) SetRules(rules ...Rule) *Field {
	f.rules = rules
	return f
}

func (f *Field) AddRule(rule Rule) *Field {
	f.rules = append(f.rules, rule)
	return f
}

func (f *Field) Required(message string) *Field {
	return f.AddRule(Rule{"required": true, "message": message, "trigger": "blur"})
}

// Set stores an arbitrary key of the field schema.
func (f *Field) Set(key string, value any) *Field {
	if f.extra == nil {
		f.extra = make(map[string]any)
	}
	f.extra[key] = value
	return f
}

// Unset removes an arbitrary key. The id and type of a field cannot be removed.
func (f *Field) Unset(key string) error {
	switch key {
	case "$id", "$type":
		return errors.Errorf("cannot remove %s", key)
	case "label":
		f.label = ""
	case "$default":
		f.def = nil
	case "$el":
		f.el = nil
	case "$attrs":
		f.attrs = nil
	case "$enableWhen":
		f.enableWhen = nil
	case "$options":
		f.options, f.optionsFn = nil, nil
	case "$remote":
		f.remote = ""
	case "rules":
		f.rules = nil
	default:
		delete(f.extra, key)
	}

	return nil
}

func (f *Field) Computed(fn computed.Func) *Field {
	f.computed = fn
	return f
}

// ComputedAttr presents the field with the value of another record attribute.
func (f *Field) ComputedAttr(name string) *Field {
	return f.Computed(computed.Attr(name))
}

func (f *Field) ToMap() map[string]any {
	m := make(map[string]any, len(f.extra)+8)

	for key, value := range f.extra {
		if !obj.IsNil(value) {
			m[key] = value
		}
	}

	m["$id"] = f.id
	m["$type"] = f.typ
	m["label"] = f.label

	if !obj.IsNil(f.def) {
		m["$default"] = f.def
	}
	if len(f.el) != 0 {
		m["$el"] = f.el
	}
	if len(f.attrs) != 0 {
		m["$attrs"] = f.attrs
	}
	if len(f.enableWhen) != 0 {
		m["$enableWhen"] = f.enableWhen
	}
	if options := f.Options(); len(options) != 0 {
		m["$options"] = options
	}
	if f.items != nil {
		m["$items"] = f.items
	}
	if f.remote != "" {
		m["$remote"] = f.remote
	}
	if len(f.rules) != 0 {
		m["rules"] = f.rules
	}

	return m
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.ToMap())
}
