// Package schema answers one question for the rest of the pipeline: what
// value kind does field X have?
//
// A Registry is a read-only collaborator. The resolver asks it for the
// FieldDescriptor of every field a query names and dispatches on the
// descriptor's ValueKind; nothing in the pipeline inspects Go types at
// runtime to find out how a value should be bound.
//
// Registries can be built in memory (NewMapRegistry) or loaded from a CUE or
// YAML schema file:
//
//	schema: "articles"
//	fields: {
//	    title:   {kind: "text"}
//	    price:   {kind: "numeric"}
//	    created: {kind: "date"}
//	    tags:    {kind: "text", multivalue: true}
//	    location: {kind: "geo"}
//	    author:  {kind: "text", nested: true}
//	}
//
// Fields flagged nested live in a child document; filters on them are scoped
// to the nested document.
package schema
