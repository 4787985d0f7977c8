package iac

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeys_DeclarationOrder(t *testing.T) {
	var names []string
	for _, k := range Keys() {
		names = append(names, k.String())
	}
	want := []string{
		"provider", "resource", "variable", "output", "module", "state", "locals",
		"backend", "variableType", "dynamic", "forEach", "terraform", "tags",
		"lifecycle", "provisioner",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFieldKey(t *testing.T) {
	k, err := ParseFieldKey("variableType")
	if err != nil {
		t.Fatalf("ParseFieldKey: %v", err)
	}
	if k != VariableType || k.Label() != "Variable Type" {
		t.Errorf("got %v (%s)", k, k.Label())
	}

	if _, err := ParseFieldKey("Provider"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("ParseFieldKey(Provider) err = %v, want ErrUnknownField", err)
	}
}

func TestMultiline(t *testing.T) {
	for _, k := range Keys() {
		want := k == Module || k == Provisioner
		if k.Multiline() != want {
			t.Errorf("%s.Multiline() = %v, want %v", k, k.Multiline(), want)
		}
	}
}

func TestNewForm(t *testing.T) {
	f, err := NewForm([]string{"tags", "provider"}, map[string]string{
		"provider": "us-east-1",
		"tags":     "demo",
		"output":   "kept but inert",
	})
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}

	if diff := cmp.Diff([]string{"provider", "tags"}, f.Selected()); diff != "" {
		t.Errorf("Selected mismatch (-want +got):\n%s", diff)
	}
	out, _ := f.Field(Output)
	if out.Selected || out.Value != "kept but inert" {
		t.Errorf("output field = %+v", out)
	}
	if strings.Contains(f.Render(), "kept but inert") {
		t.Error("unselected value leaked into the document")
	}
}

func TestNewForm_RejectsUnknownKeys(t *testing.T) {
	if _, err := NewForm([]string{"region"}, nil); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown selected key: err = %v", err)
	}
	if _, err := NewForm(nil, map[string]string{"region": "x"}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown value key: err = %v", err)
	}
}

func TestForm_ToggleSetClear(t *testing.T) {
	f := EmptyForm()
	f.Set(Provider, "eu-west-1")
	if got := f.Render(); got != Header {
		t.Errorf("unselected field rendered: %q", got)
	}
	if !f.Toggle(Provider) {
		t.Fatal("Toggle should select")
	}
	if !strings.Contains(f.Render(), `region = "eu-west-1"`) {
		t.Errorf("selected field not rendered:\n%s", f.Render())
	}
	if f.Toggle(Provider) {
		t.Fatal("second Toggle should deselect")
	}
	fld, _ := f.Field(Provider)
	if fld.Value != "eu-west-1" {
		t.Errorf("value lost on deselect: %q", fld.Value)
	}

	f.Select(Provider, true)
	f.Clear()
	if f.Render() != Header || len(f.Values()) != 0 {
		t.Error("Clear should reset selection and values")
	}
}

func TestForm_FieldsIsCopy(t *testing.T) {
	f := EmptyForm()
	fields := f.Fields()
	fields[0].Selected = true
	fields[0].Value = "x"
	if f.Render() != Header {
		t.Error("mutating Fields() result changed the form")
	}
}

func TestForm_YAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	f, err := NewForm([]string{"provider", "module"}, map[string]string{
		"provider": "us-east-1",
		"module":   "core\nnetwork",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFormFile(path, f); err != nil {
		t.Fatalf("WriteFormFile: %v", err)
	}

	loaded, err := LoadFormFile(path)
	if err != nil {
		t.Fatalf("LoadFormFile: %v", err)
	}
	if diff := cmp.Diff(f.Render(), loaded.Render()); diff != "" {
		t.Errorf("document changed after reload (-want +got):\n%s", diff)
	}
}

func TestParseForm_UnknownField(t *testing.T) {
	_, err := ParseForm([]byte("selected: [provider, region]\n"))
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("ParseForm err = %v, want ErrUnknownField", err)
	}
}

func TestLoadFormFile_Missing(t *testing.T) {
	_, err := LoadFormFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFormFile(missing) err = %v, want ErrNotExist", err)
	}
}

func TestForm_Clone(t *testing.T) {
	f := EmptyForm()
	f.Select(Provider, true)
	f.Set(Provider, "aws")

	c := f.Clone()
	c.Set(Provider, "gcp")
	got, _ := f.Field(Provider)
	if got.Value != "aws" {
		t.Errorf("original changed through clone: %q", got.Value)
	}
	if c.Render() == f.Render() {
		t.Error("clone should render independently")
	}
}
