package datemath

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("date math syntax error")

// SyntaxError reports a malformed date-math expression. Token is the
// offending substring.
type SyntaxError struct {
	Expr  string
	Token string
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("date math %q: %s", e.Expr, e.Msg)
	}
	return fmt.Sprintf("date math %q: %s: %q", e.Expr, e.Msg, e.Token)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
