package query

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("query syntax error")

// SyntaxError reports malformed query text. Syntax errors abort the parse in
// both strict and lenient mode.
type SyntaxError struct {
	// Query is the normalised query text.
	Query string

	// Pos is the byte offset of Token in Query.
	Pos int

	// Token is the offending input snippet.
	Token string

	Msg string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("query syntax error at offset %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("query syntax error at offset %d: %s: %q", e.Pos, e.Msg, e.Token)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// BindingError reports a clause whose literals could not be bound to the
// schema. It aborts strict parses; lenient parses demote the clause to free
// text instead, unless the cause is a date-math syntax error.
type BindingError struct {
	// Clause is the verbatim source of the failing clause.
	Clause string
	Err    error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("clause %q: %v", e.Clause, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}
