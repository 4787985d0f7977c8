// Package iac renders Terraform configuration documents from a fixed set of
// form fields.
//
// The field set is closed: every FieldKey is declared here, in the order its
// block appears in a rendered document. Rendering is a pure function of the
// field values, so callers recompute the document whenever a field changes
// instead of patching a previous result.
package iac

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned when a field name is not part of the closed set.
var ErrUnknownField = errors.New("unknown field")

// FieldKey identifies one of the form fields.
type FieldKey int

// Field keys in declaration order. Rendered blocks follow this order.
const (
	Provider FieldKey = iota
	Resource
	Variable
	Output
	Module
	State
	Locals
	Backend
	VariableType
	Dynamic
	ForEach
	Terraform
	Tags
	Lifecycle
	Provisioner

	fieldCount
)

type fieldMeta struct {
	name      string
	label     string
	multiline bool
}

var fieldTable = [fieldCount]fieldMeta{
	Provider:     {name: "provider", label: "Provider"},
	Resource:     {name: "resource", label: "Resource"},
	Variable:     {name: "variable", label: "Variable"},
	Output:       {name: "output", label: "Output"},
	Module:       {name: "module", label: "Module", multiline: true},
	State:        {name: "state", label: "State"},
	Locals:       {name: "locals", label: "Locals"},
	Backend:      {name: "backend", label: "Backend"},
	VariableType: {name: "variableType", label: "Variable Type"},
	Dynamic:      {name: "dynamic", label: "Dynamic"},
	ForEach:      {name: "forEach", label: "For Each"},
	Terraform:    {name: "terraform", label: "Terraform"},
	Tags:         {name: "tags", label: "Tags"},
	Lifecycle:    {name: "lifecycle", label: "Lifecycle"},
	Provisioner:  {name: "provisioner", label: "Provisioner", multiline: true},
}

// String returns the wire name of the key (e.g. "variableType").
func (k FieldKey) String() string {
	if !k.Valid() {
		return fmt.Sprintf("FieldKey(%d)", int(k))
	}
	return fieldTable[k].name
}

// Label returns the human-readable label of the key.
func (k FieldKey) Label() string {
	if !k.Valid() {
		return k.String()
	}
	return fieldTable[k].label
}

// Multiline reports whether the field takes multi-line input.
func (k FieldKey) Multiline() bool {
	return k.Valid() && fieldTable[k].multiline
}

// Valid reports whether k is one of the declared keys.
func (k FieldKey) Valid() bool {
	return k >= 0 && k < fieldCount
}

// ParseFieldKey resolves a wire name to its key.
func ParseFieldKey(name string) (FieldKey, error) {
	for i, meta := range fieldTable {
		if meta.name == name {
			return FieldKey(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Keys returns all field keys in declaration order.
func Keys() []FieldKey {
	keys := make([]FieldKey, fieldCount)
	for i := range keys {
		keys[i] = FieldKey(i)
	}
	return keys
}

// Field is one entry of the form. Only selected fields with a non-empty
// value contribute to the rendered document; the value of an unselected
// field is kept but ignored.
type Field struct {
	Key      FieldKey
	Label    string
	Selected bool
	Value    string
}

// DefaultFields returns the full field set, unselected and empty.
func DefaultFields() []Field {
	fields := make([]Field, fieldCount)
	for i := range fields {
		k := FieldKey(i)
		fields[i] = Field{Key: k, Label: k.Label()}
	}
	return fields
}
