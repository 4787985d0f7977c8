package iac

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// Download metadata for an exported document.
const (
	ExportFileName = "terraform-config.tf"
	ExportMIMEType = "text/yaml"
)

// Clipboard receives copied documents.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard returns the platform clipboard.
func SystemClipboard() Clipboard { return systemClipboard{} }

// Copy places doc on cb.
func Copy(cb Clipboard, doc string) error {
	if err := cb.WriteAll(doc); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// WriteDocument writes doc to dir/ExportFileName and returns the path.
func WriteDocument(dir, doc string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, ExportFileName)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", ExportFileName, err)
	}
	return path, nil
}
