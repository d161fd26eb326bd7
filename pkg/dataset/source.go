package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/arcforge/pkg/errors"
)

// Source loads item records.
type Source interface {
	Load(ctx context.Context) ([]Item, error)
	// String describes the source for logs.
	String() string
}

// Open loads src and indexes the result.
func Open(ctx context.Context, src Source) (*Catalog, error) {
	items, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewCatalog(items)
}

// Supported file formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FileSource reads items from a dataset file. The format follows the
// extension (.toml, .json, .yaml/.yml) unless Format is set.
type FileSource struct {
	Path   string
	Format string
}

// String returns the file path.
func (s FileSource) String() string { return s.Path }

// Load reads and decodes the file.
func (s FileSource) Load(ctx context.Context) ([]Item, error) {
	format := s.Format
	if format == "" {
		format = FormatFromPath(s.Path)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "dataset %s", s.Path)
		}
		return nil, err
	}
	items, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "dataset %s", s.Path)
	}
	return items, nil
}

// FormatFromPath maps a file extension to a dataset format.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// document is the top-level layout shared by all file formats.
type document struct {
	Items []Item `toml:"items" json:"items" yaml:"items"`
}

// Decode parses dataset bytes. JSON input may also be a bare array of
// items.
func Decode(data []byte, format string) ([]Item, error) {
	var doc document
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, err
		}
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &doc.Items); err != nil {
				return nil, err
			}
			break
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported dataset format %q", format)
	}
	return doc.Items, nil
}
