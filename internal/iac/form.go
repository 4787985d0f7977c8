package iac

import "fmt"

// Form is the mutable state behind the create-IaC screen: a fixed mapping
// from every FieldKey to its selection and value.
type Form struct {
	fields [fieldCount]Field
}

// NewForm builds a form from wire names. Every name in selected and every
// key of values must be a known field.
func NewForm(selected []string, values map[string]string) (*Form, error) {
	f := EmptyForm()
	for _, name := range selected {
		k, err := ParseFieldKey(name)
		if err != nil {
			return nil, err
		}
		f.fields[k].Selected = true
	}
	for name, v := range values {
		k, err := ParseFieldKey(name)
		if err != nil {
			return nil, err
		}
		f.fields[k].Value = v
	}
	return f, nil
}

// EmptyForm returns a form with nothing selected and every value empty.
func EmptyForm() *Form {
	f := &Form{}
	f.Clear()
	return f
}

// Clear deselects every field and empties every value.
func (f *Form) Clear() {
	for i := range f.fields {
		k := FieldKey(i)
		f.fields[i] = Field{Key: k, Label: k.Label()}
	}
}

// Toggle flips the selection of key and reports the new state.
func (f *Form) Toggle(key FieldKey) bool {
	if !key.Valid() {
		return false
	}
	f.fields[key].Selected = !f.fields[key].Selected
	return f.fields[key].Selected
}

// Select sets the selection of key.
func (f *Form) Select(key FieldKey, on bool) {
	if key.Valid() {
		f.fields[key].Selected = on
	}
}

// Set stores value for key. The value is kept even while the field is
// unselected.
func (f *Form) Set(key FieldKey, value string) {
	if key.Valid() {
		f.fields[key].Value = value
	}
}

// Field returns the current entry for key.
func (f *Form) Field(key FieldKey) (Field, error) {
	if !key.Valid() {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return f.fields[key], nil
}

// Fields returns a copy of all entries in declaration order.
func (f *Form) Fields() []Field {
	out := make([]Field, fieldCount)
	copy(out, f.fields[:])
	return out
}

// Selected returns the wire names of selected fields in declaration order.
func (f *Form) Selected() []string {
	var out []string
	for _, fld := range f.fields {
		if fld.Selected {
			out = append(out, fld.Key.String())
		}
	}
	return out
}

// Values returns the non-empty values keyed by wire name.
func (f *Form) Values() map[string]string {
	out := make(map[string]string)
	for _, fld := range f.fields {
		if fld.Value != "" {
			out[fld.Key.String()] = fld.Value
		}
	}
	return out
}

// Render returns the document for the current state of the form.
func (f *Form) Render() string {
	return Render(f.fields[:])
}

// Clone returns an independent copy of f.
func (f *Form) Clone() *Form {
	c := *f
	return &c
}
