// Package store provides a SQLite-backed document store that executes
// filters compiled by render/sql.
//
// The store backs query conformance scenarios: a collection is a table
// derived from a schema registry, documents are inserted as plain string
// fields converted per value kind, and Match returns the ids of the rows a
// filter selects.
//
// # Column mapping
//
//   - text: TEXT
//   - numeric: REAL
//   - date: TEXT in sql.TimeLayout, so lexical order is time order
//   - geo: two REAL columns, <field>_lat and <field>_lon
//
// Every field holds one value per document. Multi-value fields store a
// single value.
//
// # Deterministic Query Results
//
// Match results are ordered by id ASC COLLATE BINARY, so identical inputs
// give identical outputs on every run.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
