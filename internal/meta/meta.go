// Package meta reads the metadata sidecar that sits next to a directory tree
// and writes its display-ready copy.
package meta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/zarSou9/tr-migrator/internal/layout"
	"github.com/zarSou9/tr-migrator/internal/richtext"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

// File names used next to the map.
const (
	FileName          = "meta.json"
	ConvertedFileName = "meta-converted.json"
	MapFileName       = "map.json"
)

// convertedKeys hold markdown that the site shows as HTML.
var convertedKeys = []string{"note", "coverRootDescription"}

// Meta is the parsed metadata sidecar. Keys other than the ones below are
// kept for Convert.
type Meta struct {
	RootDir              string `json:"rootDir"`
	BreakdownsIdentifier string `json:"breakdownsIdentifier"`

	doc *document
}

// Paths locates the map checkout and the source checkout.
type Paths struct {
	MapPath    string
	SourcePath string
}

// ResolvePaths returns the checkout locations used in production or in local
// test runs.
func ResolvePaths(production bool) Paths {
	if production {
		return Paths{MapPath: "map-repo", SourcePath: "source-repo"}
	}
	return Paths{MapPath: "test_data", SourcePath: "."}
}

// Load reads and validates the metadata file at path.
func Load(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	return Parse(data)
}

// Parse reads and validates metadata.
func Parse(data []byte) (*Meta, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	m := &Meta{
		RootDir:              doc.str("rootDir"),
		BreakdownsIdentifier: doc.str("breakdownsIdentifier"),
		doc:                  doc,
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	return m, nil
}

// Validate checks the fields the converter depends on.
func (m Meta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RootDir, validation.Required, validation.By(func(value any) error {
			dir, _ := value.(string)
			clean := filepath.ToSlash(filepath.Clean(dir))
			if filepath.IsAbs(dir) || clean == ".." || strings.HasPrefix(clean, "../") {
				return validation.NewError("meta.root_dir_outside", "rootDir must stay inside the map directory")
			}
			return nil
		})),
		validation.Field(&m.BreakdownsIdentifier, validation.By(func(value any) error {
			s, _ := value.(string)
			if err := layout.CheckSuffix(s); err != nil {
				return validation.NewError("meta.breakdowns_identifier_invalid", err.Error())
			}
			return nil
		})),
	)
}

// Layout returns the directory layout the metadata asks for.
func (m *Meta) Layout() layout.Layout {
	return layout.New(m.BreakdownsIdentifier)
}

// RootPath returns the tree root directory below mapPath.
func (m *Meta) RootPath(mapPath string) string {
	return filepath.Join(mapPath, m.RootDir)
}

// Convert returns the metadata with its markdown fields rendered to HTML,
// indented with two spaces.
func (m *Meta) Convert() ([]byte, error) {
	out := &document{keys: append([]string(nil), m.doc.keys...), values: make(map[string]json.RawMessage, len(m.doc.values))}
	for k, v := range m.doc.values {
		out.values[k] = v
	}

	for _, key := range convertedKeys {
		text := m.doc.str(key)
		if text == "" {
			continue
		}
		raw, err := tree.MarshalRaw(richtext.ToDisplay(text), "")
		if err != nil {
			return nil, err
		}
		out.set(key, raw)
	}
	return tree.MarshalRaw(out, "  ")
}

// WriteConverted writes Convert's output to dir/meta-converted.json.
func (m *Meta) WriteConverted(dir string) (string, error) {
	data, err := m.Convert()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ConvertedFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
