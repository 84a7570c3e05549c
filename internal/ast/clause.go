package ast

import "strings"

// BoolOp is a boolean connective.
type BoolOp int

const (
	OpAnd BoolOp = iota + 1
	OpOr
	OpNot
)

func (o BoolOp) String() string {
	switch o {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	default:
		return "?"
	}
}

// Clause is one node of a parsed query.
type Clause struct {
	// Negated is set by a leading "-" or NOT on a term.
	Negated bool

	// Field is the field the clause binds, "" for free-text terms and groups.
	Field string

	// Body is the clause payload.
	Body Body

	// Source is the verbatim query text the clause was parsed from.
	Source string
}

// Body is the payload of a Clause.
//
// This is a sealed interface - only types in this package implement it.
type Body interface {
	body()
}

// SimpleTerm is a single literal, bound to the clause's field.
type SimpleTerm struct {
	Literal Literal
}

func (*SimpleTerm) body() {}

// ComplexTerm is a parenthesised group.
type ComplexTerm struct {
	Clause *Clause
}

func (*ComplexTerm) body() {}

// BinaryClause joins two clauses with OpAnd or OpOr.
type BinaryClause struct {
	Op    BoolOp
	Left  *Clause
	Right *Clause
}

func (*BinaryClause) body() {}

// UnaryClause applies OpNot to a clause.
type UnaryClause struct {
	Op     BoolOp
	Clause *Clause
}

func (*UnaryClause) body() {}

// Fieldless reports whether no term in the clause tree names a field.
// Fieldless clauses are free text.
func (c *Clause) Fieldless() bool {
	if c == nil {
		return true
	}
	switch b := c.Body.(type) {
	case *SimpleTerm:
		return c.Field == ""
	case *ComplexTerm:
		return b.Clause.Fieldless()
	case *BinaryClause:
		return b.Left.Fieldless() && b.Right.Fieldless()
	case *UnaryClause:
		return b.Clause.Fieldless()
	default:
		return true
	}
}

// String renders the clause in query syntax.
func (c *Clause) String() string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	if c.Negated {
		b.WriteByte('-')
	}
	if c.Field != "" {
		b.WriteString(c.Field)
		b.WriteByte(':')
	}
	switch body := c.Body.(type) {
	case *SimpleTerm:
		b.WriteString(body.Literal.String())
	case *ComplexTerm:
		b.WriteString("(" + body.Clause.String() + ")")
	case *BinaryClause:
		b.WriteString(body.Left.String() + " " + body.Op.String() + " " + body.Right.String())
	case *UnaryClause:
		b.WriteString("NOT " + body.Clause.String())
	}
	return b.String()
}
