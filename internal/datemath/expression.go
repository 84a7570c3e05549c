package datemath

import (
	"strconv"
	"strings"
	"time"
)

// Op is one add or subtract operation of an expression.
type Op struct {
	Sub      bool
	Quantity int
	Unit     TimeUnit
}

// String renders the operation canonically, e.g. "+1DAY" or "-14DAYS".
func (o Op) String() string {
	var b strings.Builder
	if o.Sub {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(o.Quantity))
	if o.Quantity == 1 {
		b.WriteString(o.Unit.String())
	} else {
		b.WriteString(o.Unit.Plural())
	}
	return b.String()
}

// signed returns the quantity with the operation's sign applied.
func (o Op) signed() int {
	if o.Sub {
		return -o.Quantity
	}
	return o.Quantity
}

// Expression is a parsed date-math expression. It is immutable: every method
// that changes it returns a copy.
type Expression struct {
	relative bool
	root     time.Time
	rounding TimeUnit
	ops      []Op
	now      time.Time
}

// Now returns an expression rooted at NOW with now as its captured reference.
func Now(now time.Time) *Expression {
	return &Expression{relative: true, now: now.UTC()}
}

// At returns an expression rooted at a fixed instant.
func At(t time.Time) *Expression {
	return &Expression{root: t.UTC()}
}

// IsRelative reports whether the expression is rooted at NOW.
func (e *Expression) IsRelative() bool {
	return e.relative
}

// Root returns the fixed root instant, or the captured now for NOW-rooted
// expressions.
func (e *Expression) Root() time.Time {
	if e.relative {
		return e.now
	}
	return e.root
}

// Rounding returns the rounding unit, UnitNone when absent.
func (e *Expression) Rounding() TimeUnit {
	return e.rounding
}

// Ops returns a copy of the operations in declaration order.
func (e *Expression) Ops() []Op {
	out := make([]Op, len(e.ops))
	copy(out, e.ops)
	return out
}

// CapturedNow returns the now reference the expression evaluates against.
func (e *Expression) CapturedNow() time.Time {
	return e.now
}

// RoundTo returns a copy rounded down to unit.
func (e *Expression) RoundTo(unit TimeUnit) *Expression {
	c := e.clone()
	c.rounding = unit
	return c
}

// Plus returns a copy with an added "+n unit" operation.
func (e *Expression) Plus(n int, unit TimeUnit) *Expression {
	c := e.clone()
	c.ops = append(c.ops, Op{Quantity: n, Unit: unit})
	return c
}

// Minus returns a copy with an added "-n unit" operation.
func (e *Expression) Minus(n int, unit TimeUnit) *Expression {
	c := e.clone()
	c.ops = append(c.ops, Op{Sub: true, Quantity: n, Unit: unit})
	return c
}

// WithNow returns a copy bound to another now reference.
func (e *Expression) WithNow(now time.Time) *Expression {
	c := e.clone()
	c.now = now.UTC()
	return c
}

// Time evaluates the expression: root, then rounding, then every operation
// in order.
func (e *Expression) Time() time.Time {
	t := e.Root()
	if e.rounding != UnitNone {
		t = e.rounding.Truncate(t)
	}
	for _, op := range e.ops {
		t = op.Unit.AddTo(t, op.signed())
	}
	return t.UTC()
}

// String returns the canonical form of the expression.
func (e *Expression) String() string {
	var b strings.Builder
	if e.relative {
		b.WriteString("NOW")
	} else {
		b.WriteString(e.root.Format(time.RFC3339Nano))
	}
	if e.rounding != UnitNone {
		b.WriteByte('/')
		b.WriteString(e.rounding.String())
	}
	for _, op := range e.ops {
		b.WriteString(op.String())
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler with the canonical form.
func (e *Expression) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Expression) clone() *Expression {
	c := *e
	c.ops = e.Ops()
	return &c
}
