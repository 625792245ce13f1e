package rules

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"ingredient-scout/scout/pkg/conflict"
)

// MaxFileSize bounds the size of a rules file.
const MaxFileSize = 1 << 20

const inlineSource = "<inline>"

// LoadCatalog reads and validates the rules file at path. The returned
// catalog has passed file and schema checks; semantic checks happen when it
// is compiled (see LoadEngine).
func LoadCatalog(path string) (*conflict.Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		case errors.Is(err, os.ErrPermission):
			return nil, &LoadError{FilePath: path, Message: "permission denied", Cause: err}
		default:
			return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
		}
	}

	if !info.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}

	if info.Size() > MaxFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}

	return parse(data, path)
}

// Parse decodes and validates an in-memory rules document.
func Parse(data []byte) (*conflict.Catalog, error) {
	return parse(data, inlineSource)
}

func parse(data []byte, source string) (*conflict.Catalog, error) {
	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: source, Message: "file is not valid UTF-8"}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &LoadError{FilePath: source, Message: "file is empty"}
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{FilePath: source, Message: "invalid YAML", Cause: err}
	}

	if err := validateDocument(doc); err != nil {
		return nil, &LoadError{FilePath: source, Message: "schema validation failed", Cause: err}
	}

	var cat conflict.Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, &LoadError{FilePath: source, Message: "failed to decode catalog", Cause: err}
	}

	normalize(&cat)
	return &cat, nil
}

// normalize lower-cases keywords and triggers and fills in a missing version.
func normalize(cat *conflict.Catalog) {
	if cat.Version == "" {
		cat.Version = conflict.DefaultCatalogVersion
	}
	for i, kw := range cat.Keywords {
		cat.Keywords[i] = strings.ToLower(kw)
	}
	for i := range cat.Families {
		for j, t := range cat.Families[i].Triggers {
			cat.Families[i].Triggers[j] = strings.ToLower(t)
		}
	}
}

// LoadEngine compiles the rules file at path into an engine. An empty path
// selects the built-in catalog.
func LoadEngine(path string) (*conflict.RuleEngine, error) {
	if path == "" {
		return conflict.Default(), nil
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}

	return compile(cat, path)
}

// ParseEngine compiles an in-memory rules document into an engine.
func ParseEngine(data []byte) (*conflict.RuleEngine, error) {
	cat, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return compile(cat, inlineSource)
}

func compile(cat *conflict.Catalog, source string) (*conflict.RuleEngine, error) {
	engine, err := conflict.NewRuleEngine(cat)
	if err != nil {
		return nil, &LoadError{FilePath: source, Message: "invalid catalog", Cause: err}
	}
	return engine, nil
}

// Marshal renders a catalog as a rules file.
func Marshal(cat *conflict.Catalog) ([]byte, error) {
	if cat == nil {
		return nil, errors.New("catalog is nil")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cat); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}
