package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// ValueKind is the declared kind of a field's values.
type ValueKind string

const (
	KindText    ValueKind = "text"
	KindNumeric ValueKind = "numeric"
	KindDate    ValueKind = "date"
	KindGeo     ValueKind = "geo"
)

// Kinds lists every supported value kind.
var Kinds = []ValueKind{KindText, KindNumeric, KindDate, KindGeo}

// ParseKind converts a kind name to a ValueKind.
// Names are case-insensitive; "number" and "datetime" are accepted aliases.
func ParseKind(s string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "string":
		return KindText, nil
	case "numeric", "number":
		return KindNumeric, nil
	case "date", "datetime":
		return KindDate, nil
	case "geo", "location":
		return KindGeo, nil
	default:
		return "", fmt.Errorf("unknown value kind %q: must be one of %v", s, Kinds)
	}
}

// Rangeable reports whether range literals make sense for the kind.
func (k ValueKind) Rangeable() bool {
	return k == KindNumeric || k == KindDate || k == KindGeo
}

// FieldDescriptor describes one field of a schema.
type FieldDescriptor struct {
	Name       string    `json:"name" yaml:"name"`
	Kind       ValueKind `json:"kind" yaml:"kind"`
	MultiValue bool      `json:"multivalue,omitempty" yaml:"multivalue,omitempty"`
	Nested     bool      `json:"nested,omitempty" yaml:"nested,omitempty"`
}

// Registry is the read-only field schema the resolver binds literals against.
type Registry interface {
	// Name identifies the schema (typically the collection or index name).
	Name() string

	// Type returns the declared value kind of a field.
	Type(field string) (ValueKind, error)

	// Field returns the full descriptor of a field.
	Field(field string) (FieldDescriptor, error)
}

// UnknownFieldError is returned when a registry does not declare a field.
// Suggestion holds the closest declared field name, if one is close enough.
type UnknownFieldError struct {
	Schema     string
	Field      string
	Suggestion string
}

func (e *UnknownFieldError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("schema %s: unknown field %q (did you mean %q?)", e.Schema, e.Field, e.Suggestion)
	}
	return fmt.Sprintf("schema %s: unknown field %q", e.Schema, e.Field)
}

// MapRegistry is an in-memory Registry. It is immutable after construction.
type MapRegistry struct {
	name   string
	fields map[string]FieldDescriptor
}

// NewMapRegistry builds a registry from descriptors.
// Duplicate names and invalid kinds are rejected.
func NewMapRegistry(name string, fields ...FieldDescriptor) (*MapRegistry, error) {
	r := &MapRegistry{
		name:   name,
		fields: make(map[string]FieldDescriptor, len(fields)),
	}
	for _, fd := range fields {
		if fd.Name == "" {
			return nil, fmt.Errorf("schema %s: field with empty name", name)
		}
		if _, err := ParseKind(string(fd.Kind)); err != nil {
			return nil, fmt.Errorf("schema %s: field %q: %w", name, fd.Name, err)
		}
		if _, dup := r.fields[fd.Name]; dup {
			return nil, fmt.Errorf("schema %s: duplicate field %q", name, fd.Name)
		}
		r.fields[fd.Name] = fd
	}
	return r, nil
}

// MustMapRegistry is NewMapRegistry that panics on error. Intended for tests
// and static schemas.
func MustMapRegistry(name string, fields ...FieldDescriptor) *MapRegistry {
	r, err := NewMapRegistry(name, fields...)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the schema name.
func (r *MapRegistry) Name() string {
	return r.name
}

// Type returns the declared kind of field.
func (r *MapRegistry) Type(field string) (ValueKind, error) {
	fd, err := r.Field(field)
	if err != nil {
		return "", err
	}
	return fd.Kind, nil
}

// Field returns the descriptor of field.
func (r *MapRegistry) Field(field string) (FieldDescriptor, error) {
	fd, ok := r.fields[field]
	if !ok {
		return FieldDescriptor{}, &UnknownFieldError{
			Schema:     r.name,
			Field:      field,
			Suggestion: r.suggest(field),
		}
	}
	return fd, nil
}

// Fields returns all descriptors sorted by name.
func (r *MapRegistry) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, 0, len(r.fields))
	for _, fd := range r.fields {
		out = append(out, fd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// suggest returns the declared field closest to field by edit distance, or ""
// when nothing is within half of the name's length.
func (r *MapRegistry) suggest(field string) string {
	best := ""
	bestDist := len(field)/2 + 1
	for _, fd := range r.Fields() {
		d := edlib.LevenshteinDistance(field, fd.Name)
		if d < bestDist {
			best, bestDist = fd.Name, d
		}
	}
	return best
}
