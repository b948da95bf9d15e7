package fields

// Factory appends fields to a collection. The first error (invalid or
// duplicate id) is kept and reported by Err, so definitions can be written
// as a plain sequence of calls.
type Factory struct {
	fields *Collection
	err    error
}

func NewFactory(c *Collection) *Factory {
	return &Factory{fields: c}
}

func (f *Factory) Fields() *Collection {
	return f.fields
}

func (f *Factory) Err() error {
	return f.err
}

// Add appends the field. It returns the field to allow chaining.
func (f *Factory) Add(field *Field) *Field {
	if err := f.fields.Push(field); err != nil && f.err == nil {
		f.err = err
	}

	return field
}

// SetFields replaces every field of the collection.
func (f *Factory) SetFields(fields ...*Field) *Factory {
	f.fields.reset()
	for _, field := range fields {
		f.Add(field)
	}

	return f
}

// Make adds a field of any type.
func (f *Factory) Make(typ, id, label string) *Field {
	field, err := New(typ, id, label)
	if err != nil {
		if f.err == nil {
			f.err = err
		}
		// Detached field so the caller can keep chaining.
		return &Field{typ: typ, label: label}
	}

	return f.Add(field)
}

func (f *Factory) makeWithOptions(typ, id, label string, options []Option) *Field {
	return f.Make(typ, id, label).SetOptions(options...)
}

func (f *Factory) Input(id, label string) *Field {
	return f.Make(TypeInput, id, label)
}

// Autocomplete adds an input with suggestions, use SetRemote for server side suggestions.
func (f *Factory) Autocomplete(id, label string) *Field {
	return f.Make(TypeAutocomplete, id, label)
}

func (f *Factory) InputNumber(id, label string) *Field {
	return f.Make(TypeInputNumber, id, label)
}

func (f *Factory) Radio(id, label string) *Field {
	return f.Make(TypeRadio, id, label)
}

func (f *Factory) Checkbox(id, label string) *Field {
	return f.Make(TypeCheckbox, id, label)
}

func (f *Factory) Cascader(id, label string) *Field {
	return f.Make(TypeCascader, id, label)
}

func (f *Factory) Switch(id, label string) *Field {
	return f.Make(TypeSwitch, id, label)
}

func (f *Factory) Slider(id, label string) *Field {
	return f.Make(TypeSlider, id, label)
}

func (f *Factory) TimePicker(id, label string) *Field {
	return f.Make(TypeTimePicker, id, label)
}

func (f *Factory) DatePicker(id, label string) *Field {
	return f.Make(TypeDatePicker, id, label)
}

func (f *Factory) ColorPicker(id, label string) *Field {
	return f.Make(TypeColorPicker, id, label)
}

func (f *Factory) Rate(id, label string) *Field {
	return f.Make(TypeRate, id, label)
}

func (f *Factory) Transfer(id, label string) *Field {
	return f.Make(TypeTransfer, id, label)
}

func (f *Factory) Select(id, label string, options ...Option) *Field {
	return f.makeWithOptions(TypeSelect, id, label, options)
}

func (f *Factory) RadioGroup(id, label string, options ...Option) *Field {
	return f.makeWithOptions(TypeRadioGroup, id, label, options)
}

func (f *Factory) RadioButton(id, label string, options ...Option) *Field {
	return f.makeWithOptions(TypeRadioButton, id, label, options)
}

func (f *Factory) CheckboxGroup(id, label string, options ...Option) *Field {
	return f.makeWithOptions(TypeCheckboxGroup, id, label, options)
}

func (f *Factory) CheckboxButton(id, label string, options ...Option) *Field {
	return f.makeWithOptions(TypeCheckboxButton, id, label, options)
}

// Group builds nested fields. With an id they are wrapped in a group field
// whose $items holds them; with an empty id they are appended to this
// factory's collection directly.
func (f *Factory) Group(id string, build func(*Factory)) *Collection {
	nested := NewFactory(NewCollection())
	build(nested)

	if nested.err != nil && f.err == nil {
		f.err = nested.err
	}

	if id == "" {
		for _, field := range nested.fields.All() {
			f.Add(field)
		}
		return nested.fields
	}

	group := f.Make(TypeGroup, id, "")
	group.items = nested.fields

	return nested.fields
}
