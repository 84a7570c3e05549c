package ast

import (
	"strconv"
	"strings"

	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/filter"
)

// Unbounded marks an open range bound.
const Unbounded = "*"

// Literal is the value side of a field clause.
//
// This is a sealed interface - only types in this package implement it.
type Literal interface {
	// String renders the literal in query syntax.
	String() string

	literal()
}

// BooleanLeaf is a single term or phrase.
type BooleanLeaf struct {
	// Value is the unescaped text, without a trailing wildcard.
	Value string

	// Quoted is set for "phrases".
	Quoted bool

	// Wildcard is set when the term ended in an unescaped '*'. A bare '*'
	// is a Wildcard leaf with an empty Value.
	Wildcard bool
}

func (*BooleanLeaf) literal() {}

func (l *BooleanLeaf) String() string {
	if l.Quoted {
		return strconv.Quote(l.Value)
	}
	s := escapeTerm(l.Value)
	if l.Wildcard {
		s += "*"
	}
	return s
}

// BinaryBooleanLiteral joins two literals with OpAnd or OpOr.
type BinaryBooleanLiteral struct {
	Op    BoolOp
	Left  Literal
	Right Literal
}

func (*BinaryBooleanLiteral) literal() {}

func (l *BinaryBooleanLiteral) String() string {
	return "(" + l.Left.String() + " " + l.Op.String() + " " + l.Right.String() + ")"
}

// UnaryBooleanLiteral applies OpNot to a literal.
type UnaryBooleanLiteral struct {
	Op      BoolOp
	Operand Literal
}

func (*UnaryBooleanLiteral) literal() {}

func (l *UnaryBooleanLiteral) String() string {
	return "NOT " + l.Operand.String()
}

// TermsLiteral is a value group of plain alternatives: tags:(a OR b c).
type TermsLiteral struct {
	Values []*BooleanLeaf
}

func (*TermsLiteral) literal() {}

func (l *TermsLiteral) String() string {
	parts := make([]string, len(l.Values))
	for i, v := range l.Values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// RangeLiteral is an inclusive range with raw bound text. Unbounded ("*")
// leaves a side open.
type RangeLiteral struct {
	From string
	To   string
}

func (*RangeLiteral) literal() {}

func (l *RangeLiteral) String() string {
	return "[" + l.From + " TO " + l.To + "]"
}

// NumericRangeLiteral is a RangeLiteral bound to a numeric field. Nil bounds
// are open.
type NumericRangeLiteral struct {
	From *float64
	To   *float64
}

func (*NumericRangeLiteral) literal() {}

func (l *NumericRangeLiteral) String() string {
	bound := func(f *float64) string {
		if f == nil {
			return Unbounded
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	}
	return "[" + bound(l.From) + " TO " + bound(l.To) + "]"
}

// DateRangeLiteral is a RangeLiteral bound to a date field. Nil bounds are
// open.
type DateRangeLiteral struct {
	From *datemath.Expression
	To   *datemath.Expression
}

func (*DateRangeLiteral) literal() {}

func (l *DateRangeLiteral) String() string {
	bound := func(e *datemath.Expression) string {
		if e == nil {
			return Unbounded
		}
		return e.String()
	}
	return "[" + bound(l.From) + " TO " + bound(l.To) + "]"
}

// GeoRangeLiteral is a RangeLiteral bound to a geo field: the south-west and
// north-east corners of a bounding box.
type GeoRangeLiteral struct {
	Min filter.Point
	Max filter.Point
}

func (*GeoRangeLiteral) literal() {}

func (l *GeoRangeLiteral) String() string {
	return "[" + l.Min.String() + " TO " + l.Max.String() + "]"
}

// reservedTermChars must be escaped inside an unquoted term.
const reservedTermChars = `\()": *`

func escapeTerm(s string) string {
	if !strings.ContainsAny(s, reservedTermChars+"\t\n") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(reservedTermChars+"\t\n", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
