package resolve

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/filterql/internal/ast"
	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/schema"
)

// Resolver binds AST literals to field kinds and produces filter leaves.
// It is immutable after construction and safe for concurrent use.
type Resolver struct {
	registry schema.Registry
	dates    *datemath.Parser
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDateParser sets the date-math parser used for date values and range
// bounds. Defaults to a parser reading the system clock.
func WithDateParser(p *datemath.Parser) Option {
	return func(r *Resolver) {
		if p != nil {
			r.dates = p
		}
	}
}

// New creates a Resolver over registry.
func New(registry schema.Registry, opts ...Option) *Resolver {
	r := &Resolver{registry: registry, dates: datemath.NewParser()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the schema the resolver binds against.
func (r *Resolver) Registry() schema.Registry {
	return r.registry
}

// ResolveClause binds every term of c and combines the results.
//
// Terms without a field fail with *MissingFieldError, unknown fields with
// *schema.UnknownFieldError. Date-math failures wrap datemath.ErrSyntax.
func (r *Resolver) ResolveClause(c *ast.Clause) (filter.Filter, error) {
	if c == nil {
		return nil, nil
	}

	var (
		f   filter.Filter
		err error
	)
	switch b := c.Body.(type) {
	case *ast.SimpleTerm:
		if c.Field == "" {
			return nil, &MissingFieldError{Term: b.Literal.String()}
		}
		fd, ferr := r.registry.Field(c.Field)
		if ferr != nil {
			return nil, ferr
		}
		f, err = r.ToFilter(b.Literal, fd)
	case *ast.ComplexTerm:
		f, err = r.ResolveClause(b.Clause)
	case *ast.BinaryClause:
		f, err = r.resolveBinary(b.Op, b.Left, b.Right)
	case *ast.UnaryClause:
		f, err = r.ResolveClause(b.Clause)
		f = filter.Not(f)
	default:
		return nil, fmt.Errorf("unsupported clause body: %T", c.Body)
	}
	if err != nil {
		return nil, err
	}
	if c.Negated {
		f = filter.Not(f)
	}
	return f, nil
}

func (r *Resolver) resolveBinary(op ast.BoolOp, left, right *ast.Clause) (filter.Filter, error) {
	l, err := r.ResolveClause(left)
	if err != nil {
		return nil, err
	}
	rt, err := r.ResolveClause(right)
	if err != nil {
		return nil, err
	}
	return combine(op, l, rt)
}

// ToFilter binds lit to the field described by fd. Leaves of nested fields
// get filter.ScopeNested, all others filter.ScopeParent.
func (r *Resolver) ToFilter(lit ast.Literal, fd schema.FieldDescriptor) (filter.Filter, error) {
	f, err := r.toFilter(lit, fd)
	if err != nil {
		return nil, err
	}
	scope := filter.ScopeParent
	if fd.Nested {
		scope = filter.ScopeNested
	}
	return filter.WithScope(f, scope), nil
}

func (r *Resolver) toFilter(lit ast.Literal, fd schema.FieldDescriptor) (filter.Filter, error) {
	switch l := lit.(type) {
	case *ast.BooleanLeaf:
		return r.leaf(l, fd)

	case *ast.TermsLiteral:
		return r.terms(l, fd)

	case *ast.BinaryBooleanLiteral:
		left, err := r.toFilter(l.Left, fd)
		if err != nil {
			return nil, err
		}
		right, err := r.toFilter(l.Right, fd)
		if err != nil {
			return nil, err
		}
		return combine(l.Op, left, right)

	case *ast.UnaryBooleanLiteral:
		operand, err := r.toFilter(l.Operand, fd)
		if err != nil {
			return nil, err
		}
		return filter.Not(operand), nil

	case *ast.RangeLiteral:
		spec, err := r.Specialize(l, fd)
		if err != nil {
			return nil, err
		}
		return r.toFilter(spec, fd)

	case *ast.NumericRangeLiteral:
		if fd.Kind != schema.KindNumeric {
			return nil, unsupported(fd, lit, "numeric range")
		}
		return rangeFilter(fd.Name, numberOrNil(l.From), numberOrNil(l.To), false), nil

	case *ast.DateRangeLiteral:
		if fd.Kind != schema.KindDate {
			return nil, unsupported(fd, lit, "date range")
		}
		return rangeFilter(fd.Name, dateOrNil(l.From), dateOrNil(l.To), true), nil

	case *ast.GeoRangeLiteral:
		if fd.Kind != schema.KindGeo {
			return nil, unsupported(fd, lit, "bounding box")
		}
		return filter.NewWithinBBox(fd.Name, l.Min, l.Max), nil

	default:
		return nil, fmt.Errorf("unsupported literal: %T", lit)
	}
}

// Specialize converts a raw range into the typed range literal of the field's
// kind. Ranges on text fields fail with *UnsupportedRangeError.
func (r *Resolver) Specialize(l *ast.RangeLiteral, fd schema.FieldDescriptor) (ast.Literal, error) {
	switch fd.Kind {
	case schema.KindNumeric:
		from, err := parseNumberBound(l.From)
		if err != nil {
			return nil, unsupported(fd, l, "range bound is not a number")
		}
		to, err := parseNumberBound(l.To)
		if err != nil {
			return nil, unsupported(fd, l, "range bound is not a number")
		}
		return &ast.NumericRangeLiteral{From: from, To: to}, nil

	case schema.KindDate:
		from, err := r.parseDateBound(l.From)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		to, err := r.parseDateBound(l.To)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		return &ast.DateRangeLiteral{From: from, To: to}, nil

	case schema.KindGeo:
		if l.From == ast.Unbounded || l.To == ast.Unbounded {
			return nil, unsupported(fd, l, "bounding box needs both corners")
		}
		sw, err := parsePoint(l.From)
		if err != nil {
			return nil, unsupported(fd, l, err.Error())
		}
		ne, err := parsePoint(l.To)
		if err != nil {
			return nil, unsupported(fd, l, err.Error())
		}
		return &ast.GeoRangeLiteral{Min: sw, Max: ne}, nil

	default:
		return nil, unsupported(fd, l, "range on non-rangeable field")
	}
}

// leaf binds a single term: "*" matches any value, "foo*" is a prefix match
// on text fields, anything else is an equality on the converted value.
func (r *Resolver) leaf(l *ast.BooleanLeaf, fd schema.FieldDescriptor) (filter.Filter, error) {
	if l.Wildcard && l.Value == "" {
		return filter.NewNotEmpty(fd.Name), nil
	}
	if l.Wildcard {
		if fd.Kind != schema.KindText {
			return nil, unsupported(fd, l, "prefix match requires a text field")
		}
		return filter.NewPrefix(fd.Name, l.Value), nil
	}
	if fd.Kind == schema.KindGeo {
		center, radius, err := parseCircle(l.Value)
		if err != nil {
			return nil, unsupported(fd, l, err.Error())
		}
		return filter.NewWithinCircle(fd.Name, center, radius), nil
	}
	v, err := r.value(l, fd)
	if err != nil {
		return nil, err
	}
	return filter.NewEq(fd.Name, v), nil
}

// terms binds a value group. A single value is a plain leaf; plain values
// become one Terms filter; groups with wildcards or geo values become an OR
// of leaves.
func (r *Resolver) terms(l *ast.TermsLiteral, fd schema.FieldDescriptor) (filter.Filter, error) {
	if len(l.Values) == 1 {
		return r.leaf(l.Values[0], fd)
	}

	plain := fd.Kind != schema.KindGeo
	for _, v := range l.Values {
		if v.Wildcard {
			plain = false
		}
	}

	if !plain {
		children := make([]filter.Filter, 0, len(l.Values))
		for _, v := range l.Values {
			f, err := r.leaf(v, fd)
			if err != nil {
				return nil, err
			}
			children = append(children, f)
		}
		return filter.Or(children...), nil
	}

	values := make([]filter.Value, 0, len(l.Values))
	for _, v := range l.Values {
		converted, err := r.value(v, fd)
		if err != nil {
			return nil, err
		}
		values = append(values, converted)
	}
	return filter.NewTerms(fd.Name, values...), nil
}

// value converts a term to the field's kind.
func (r *Resolver) value(l *ast.BooleanLeaf, fd schema.FieldDescriptor) (filter.Value, error) {
	switch fd.Kind {
	case schema.KindText:
		return filter.Text(l.Value), nil
	case schema.KindNumeric:
		n, err := strconv.ParseFloat(strings.TrimSpace(l.Value), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, unsupported(fd, l, "not a number")
		}
		return filter.Number(n), nil
	case schema.KindDate:
		e, err := r.dates.ParseMath(l.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		return filter.NewDate(e), nil
	default:
		return nil, unsupported(fd, l, "value not supported for field kind")
	}
}

func (r *Resolver) parseDateBound(s string) (*datemath.Expression, error) {
	if s == ast.Unbounded {
		return nil, nil
	}
	return r.dates.ParseMath(s)
}

func combine(op ast.BoolOp, left, right filter.Filter) (filter.Filter, error) {
	switch op {
	case ast.OpAnd:
		return filter.And(left, right), nil
	case ast.OpOr:
		return filter.Or(left, right), nil
	default:
		return nil, fmt.Errorf("unsupported boolean operator: %s", op)
	}
}

// rangeFilter picks Between, the lower-bound or upper-bound leaf, or NotEmpty
// for a range open on both sides. Date bounds use After/Before, numeric
// bounds GreaterThan/LesserThan.
func rangeFilter(field string, from, to filter.Value, dates bool) filter.Filter {
	switch {
	case from != nil && to != nil:
		return filter.NewBetween(field, from, to)
	case from != nil && dates:
		return filter.NewAfter(field, from)
	case from != nil:
		return filter.NewGreaterThan(field, from)
	case to != nil && dates:
		return filter.NewBefore(field, to)
	case to != nil:
		return filter.NewLesserThan(field, to)
	default:
		return filter.NewNotEmpty(field)
	}
}

func numberOrNil(f *float64) filter.Value {
	if f == nil {
		return nil
	}
	return filter.Number(*f)
}

func dateOrNil(e *datemath.Expression) filter.Value {
	if e == nil {
		return nil
	}
	return filter.NewDate(e)
}

func parseNumberBound(s string) (*float64, error) {
	if s == ast.Unbounded {
		return nil, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &n, nil
}

// parsePoint parses "lat,lon" in decimal degrees.
func parsePoint(s string) (filter.Point, error) {
	latText, lonText, ok := strings.Cut(s, ",")
	if !ok {
		return filter.Point{}, fmt.Errorf("point %q must be lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil || lat < -90 || lat > 90 {
		return filter.Point{}, fmt.Errorf("invalid latitude in %q", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil || lon < -180 || lon > 180 {
		return filter.Point{}, fmt.Errorf("invalid longitude in %q", s)
	}
	return filter.Point{Lat: lat, Lon: lon}, nil
}

// parseCircle parses "lat,lon~radius" with the radius in kilometres and an
// optional "km" suffix.
func parseCircle(s string) (filter.Point, float64, error) {
	pointText, radiusText, ok := strings.Cut(s, "~")
	if !ok {
		return filter.Point{}, 0, fmt.Errorf("geo value %q must be lat,lon~radius", s)
	}
	center, err := parsePoint(pointText)
	if err != nil {
		return filter.Point{}, 0, err
	}
	radius, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(radiusText), "km"), 64)
	if err != nil || radius <= 0 || math.IsInf(radius, 0) {
		return filter.Point{}, 0, fmt.Errorf("invalid radius in %q", s)
	}
	return center, radius, nil
}

func unsupported(fd schema.FieldDescriptor, lit ast.Literal, reason string) *UnsupportedRangeError {
	return &UnsupportedRangeError{Field: fd.Name, Kind: fd.Kind, Literal: lit.String(), Reason: reason}
}
