package iac

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// formFile is the on-disk shape of a saved form.
type formFile struct {
	Selected []string          `yaml:"selected"`
	Values   map[string]string `yaml:"values,omitempty"`
}

// MarshalYAML encodes the form's selection and values.
func (f *Form) MarshalYAML() (any, error) {
	return formFile{Selected: f.Selected(), Values: f.Values()}, nil
}

// UnmarshalYAML decodes a form, rejecting unknown field names.
func (f *Form) UnmarshalYAML(node *yaml.Node) error {
	var raw formFile
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := NewForm(raw.Selected, raw.Values)
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}

// ParseForm decodes a form from YAML.
func ParseForm(data []byte) (*Form, error) {
	f := EmptyForm()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing form: %w", err)
	}
	return f, nil
}

// EncodeForm encodes f as YAML.
func EncodeForm(f *Form) ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding form: %w", err)
	}
	return data, nil
}

// LoadFormFile reads a YAML form from path.
func LoadFormFile(path string) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading form file: %w", err)
	}
	return ParseForm(data)
}

// WriteFormFile writes f to path as YAML.
func WriteFormFile(path string, f *Form) error {
	data, err := EncodeForm(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
