package schema

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlSchema struct {
	Schema string               `yaml:"schema"`
	Fields map[string]yamlField `yaml:"fields"`
}

type yamlField struct {
	Kind       string `yaml:"kind"`
	MultiValue bool   `yaml:"multivalue,omitempty"`
	Nested     bool   `yaml:"nested,omitempty"`
}

// LoadYAML reads and decodes a YAML schema file.
func LoadYAML(path string) (*MapRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return DecodeYAML(data)
}

// DecodeYAML decodes a YAML schema. Unknown keys are rejected so typos like
// "multi_value" fail loudly instead of being ignored.
func DecodeYAML(data []byte) (*MapRegistry, error) {
	var doc yamlSchema
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if doc.Schema == "" {
		return nil, &SchemaError{Field: "schema", Message: "schema name is required"}
	}
	if len(doc.Fields) == 0 {
		return nil, &SchemaError{Field: "fields", Message: "at least one field is required"}
	}

	fields := make([]FieldDescriptor, 0, len(doc.Fields))
	for name, f := range doc.Fields {
		if f.Kind == "" {
			return nil, &SchemaError{
				Field:   fmt.Sprintf("fields.%s.kind", name),
				Message: "field kind is required",
			}
		}
		kind, err := ParseKind(f.Kind)
		if err != nil {
			return nil, &SchemaError{
				Field:   fmt.Sprintf("fields.%s.kind", name),
				Message: err.Error(),
			}
		}
		fields = append(fields, FieldDescriptor{
			Name:       name,
			Kind:       kind,
			MultiValue: f.MultiValue,
			Nested:     f.Nested,
		})
	}

	return NewMapRegistry(doc.Schema, fields...)
}
