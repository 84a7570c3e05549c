package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// SchemaError represents a schema loading error with source position.
// Pos is only valid for CUE sources.
type SchemaError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *SchemaError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads a schema file, choosing the decoder by extension
// (.cue, .yaml or .yml).
func Load(path string) (*MapRegistry, error) {
	switch filepath.Ext(path) {
	case ".cue":
		return LoadCUE(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported schema file %s: expected .cue, .yaml or .yml", path)
	}
}

// LoadCUE reads and compiles a CUE schema file.
func LoadCUE(path string) (*MapRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return CompileCUE(data, path)
}

// CompileCUE compiles CUE source into a registry. filename is only used for
// error positions.
//
// The source must declare a schema name and a fields struct:
//
//	schema: "articles"
//	fields: {
//	    title: {kind: "text"}
//	    tags:  {kind: "text", multivalue: true}
//	}
func CompileCUE(src []byte, filename string) (*MapRegistry, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileSchema(v)
}

func compileSchema(v cue.Value) (*MapRegistry, error) {
	nameVal := v.LookupPath(cue.ParsePath("schema"))
	if !nameVal.Exists() {
		return nil, &SchemaError{
			Field:   "schema",
			Message: "schema name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &SchemaError{
			Field:   "fields",
			Message: "at least one field is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var fields []FieldDescriptor
	for iter.Next() {
		fd, err := compileField(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		fields = append(fields, fd)
	}
	if len(fields) == 0 {
		return nil, &SchemaError{
			Field:   "fields",
			Message: "at least one field is required",
			Pos:     fieldsVal.Pos(),
		}
	}

	return NewMapRegistry(name, fields...)
}

// compileField parses a single field entry: kind is required, multivalue and
// nested default to false.
func compileField(name string, v cue.Value) (FieldDescriptor, error) {
	fd := FieldDescriptor{Name: name}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return fd, &SchemaError{
			Field:   fmt.Sprintf("fields.%s.kind", name),
			Message: "field kind is required",
			Pos:     v.Pos(),
		}
	}
	kindStr, err := kindVal.String()
	if err != nil {
		return fd, formatCUEError(err)
	}
	kind, err := ParseKind(kindStr)
	if err != nil {
		return fd, &SchemaError{
			Field:   fmt.Sprintf("fields.%s.kind", name),
			Message: err.Error(),
			Pos:     kindVal.Pos(),
		}
	}
	fd.Kind = kind

	if mv := v.LookupPath(cue.ParsePath("multivalue")); mv.Exists() {
		if fd.MultiValue, err = mv.Bool(); err != nil {
			return fd, formatCUEError(err)
		}
	}
	if nv := v.LookupPath(cue.ParsePath("nested")); nv.Exists() {
		if fd.Nested, err = nv.Bool(); err != nil {
			return fd, formatCUEError(err)
		}
	}

	return fd, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &SchemaError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
