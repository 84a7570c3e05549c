package filter

import (
	"strconv"
	"time"

	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/schema"
)

// Value is a sealed interface for the payloads leaf filters compare against.
// Only Text, Number, Date and Point implement it.
type Value interface {
	// ValueKind returns the schema kind the value belongs to.
	ValueKind() schema.ValueKind

	// String renders the value in filter notation: quoted text, plain
	// numbers, canonical date math and "lat,lon" points.
	String() string

	filterValue() // Sealed - only these types implement it
}

// Text is a string value.
type Text string

func (Text) filterValue() {}

// ValueKind returns schema.KindText.
func (Text) ValueKind() schema.ValueKind { return schema.KindText }

func (t Text) String() string { return strconv.Quote(string(t)) }

// Number is a numeric value.
type Number float64

func (Number) filterValue() {}

// ValueKind returns schema.KindNumeric.
func (Number) ValueKind() schema.ValueKind { return schema.KindNumeric }

func (n Number) String() string { return formatFloat(float64(n)) }

// Date is a date-math expression. Relative expressions keep their captured
// now; use WithNow to rebind a whole tree.
type Date struct {
	expr *datemath.Expression
}

func (Date) filterValue() {}

// NewDate wraps a parsed expression.
func NewDate(expr *datemath.Expression) Date {
	return Date{expr: expr}
}

// DateAt returns a Date rooted at a fixed instant.
func DateAt(t time.Time) Date {
	return Date{expr: datemath.At(t)}
}

// ValueKind returns schema.KindDate.
func (Date) ValueKind() schema.ValueKind { return schema.KindDate }

// Expr returns the underlying expression.
func (d Date) Expr() *datemath.Expression { return d.expr }

// Time evaluates the expression against its captured now.
func (d Date) Time() time.Time {
	if d.expr == nil {
		return time.Time{}
	}
	return d.expr.Time()
}

// IsRelative reports whether the date is rooted at NOW.
func (d Date) IsRelative() bool {
	return d.expr != nil && d.expr.IsRelative()
}

func (d Date) String() string {
	if d.expr == nil {
		return ""
	}
	return d.expr.String()
}

func (d Date) withNow(now time.Time) Date {
	if d.expr == nil {
		return d
	}
	return Date{expr: d.expr.WithNow(now)}
}

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

func (Point) filterValue() {}

// ValueKind returns schema.KindGeo.
func (Point) ValueKind() schema.ValueKind { return schema.KindGeo }

func (p Point) String() string {
	return formatFloat(p.Lat) + "," + formatFloat(p.Lon)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
