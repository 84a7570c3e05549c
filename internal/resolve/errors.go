package resolve

import (
	"fmt"

	"github.com/roach88/filterql/internal/schema"
)

// UnsupportedRangeError is returned when a literal cannot be applied to a
// field of the declared kind: a range on a text field, a prefix on a number,
// or a value that does not convert to the field's kind.
type UnsupportedRangeError struct {
	Field   string
	Kind    schema.ValueKind
	Literal string
	Reason  string
}

func (e *UnsupportedRangeError) Error() string {
	return fmt.Sprintf("field %q (%s): %s: %s", e.Field, e.Kind, e.Reason, e.Literal)
}

// MissingFieldError is returned when a term that names no field has to be
// bound, e.g. the bare "go" in `title:rust OR go`.
type MissingFieldError struct {
	Term string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("term %q is not bound to a field", e.Term)
}
