// Package render turns filter trees into backend query fragments.
//
// Each backend implements Visitor for its output type and calls Walk, which
// dispatches on the closed set of filter kinds:
//
//	out, err := render.Walk[string](myVisitor, f)
//
// Adding a filter kind adds a method to Visitor, so every backend stops
// compiling until it handles the new kind. Backends that cannot express a
// kind return *UnsupportedFilterKindError; so does Walk when handed a node it
// does not know. Both are programming errors, never user input errors.
//
// The backends live in subpackages: lucene, sql, mongo, elastic, qdrant and
// weaviate.
package render
