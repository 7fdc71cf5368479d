package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadYAML reads and validates a YAML schema. Unknown keys are rejected.
func LoadYAML(r io.Reader) (*Schema, error) {
	var s Schema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// LoadTOML reads and validates a TOML schema. Unknown keys are rejected.
func LoadTOML(r io.Reader) (*Schema, error) {
	var s Schema
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("decode toml schema: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return nil, fmt.Errorf("decode toml schema: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

var (
	yamlExts = []string{".yaml", ".yml"}
	tomlExts = []string{".toml"}
)

// Load reads the schema at path, choosing the syntax by file extension.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(yamlExts, ext):
		return LoadYAML(f)
	case slices.Contains(tomlExts, ext):
		return LoadTOML(f)
	default:
		return nil, fmt.Errorf("schema %s: unsupported extension %q", path, ext)
	}
}

// WriteYAML writes s as YAML.
func (s *Schema) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode yaml schema: %w", err)
	}

	return enc.Close()
}

// WriteTOML writes s as TOML.
func (s *Schema) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode toml schema: %w", err)
	}

	return nil
}

// Save writes s to path, choosing the syntax by file extension.
func (s *Schema) Save(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	var write func(io.Writer) error
	switch {
	case slices.Contains(yamlExts, ext):
		write = s.WriteYAML
	case slices.Contains(tomlExts, ext):
		write = s.WriteTOML
	default:
		return fmt.Errorf("schema %s: unsupported extension %q", path, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
