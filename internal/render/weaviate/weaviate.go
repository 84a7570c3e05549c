// Package weaviate renders filter trees as Weaviate where filters.
//
// Weaviate where filters have no NOT operator, so negations are pushed down
// to the leaves: not(gt(price, 10)) becomes LessThan and not(and(a, b))
// becomes Or(not a, not b). Negated prefix and geo filters, and bounding
// boxes in general, cannot be expressed.
package weaviate

import (
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render"
)

const backend = "weaviate"

// Render returns the where filter for f, nil for a nil filter.
func Render(f filter.Filter) (*filters.WhereBuilder, error) {
	if f == nil {
		return nil, nil
	}
	return render.Walk[*filters.WhereBuilder](visitor{}, f)
}

// Build renders f and builds the API model sent to Weaviate.
func Build(f filter.Filter) (*models.WhereFilter, error) {
	b, err := Render(f)
	if err != nil || b == nil {
		return nil, err
	}
	return b.Build(), nil
}

// visitor renders the subtree, negated when negated is set.
type visitor struct {
	negated bool
}

func (v visitor) VisitEq(f *filter.Eq) (*filters.WhereBuilder, error) {
	return v.compare(f, f.Field, filters.Equal, filters.NotEqual, f.Value)
}

func (v visitor) VisitPrefix(f *filter.Prefix) (*filters.WhereBuilder, error) {
	if v.negated {
		return nil, render.Unsupported(backend, f, "negated prefix match")
	}
	return where(f.Field, filters.Like).WithValueText(f.Prefix + "*"), nil
}

func (v visitor) VisitTerms(f *filter.Terms) (*filters.WhereBuilder, error) {
	operands := make([]*filters.WhereBuilder, 0, len(f.Values))
	for _, val := range f.Values {
		b, err := v.compare(f, f.Field, filters.Equal, filters.NotEqual, val)
		if err != nil {
			return nil, err
		}
		operands = append(operands, b)
	}
	if len(operands) == 1 {
		return operands[0], nil
	}
	return v.combine(false, operands), nil
}

func (v visitor) VisitBetween(f *filter.Between) (*filters.WhereBuilder, error) {
	from, err := v.compare(f, f.Field, filters.GreaterThanEqual, filters.LessThan, f.From)
	if err != nil {
		return nil, err
	}
	to, err := v.compare(f, f.Field, filters.LessThanEqual, filters.GreaterThan, f.To)
	if err != nil {
		return nil, err
	}
	return v.combine(true, []*filters.WhereBuilder{from, to}), nil
}

func (v visitor) VisitBefore(f *filter.Before) (*filters.WhereBuilder, error) {
	return v.compare(f, f.Field, filters.LessThanEqual, filters.GreaterThan, f.Value)
}

func (v visitor) VisitAfter(f *filter.After) (*filters.WhereBuilder, error) {
	return v.compare(f, f.Field, filters.GreaterThanEqual, filters.LessThan, f.Value)
}

func (v visitor) VisitGreaterThan(f *filter.GreaterThan) (*filters.WhereBuilder, error) {
	return v.compare(f, f.Field, filters.GreaterThanEqual, filters.LessThan, f.Value)
}

func (v visitor) VisitLesserThan(f *filter.LesserThan) (*filters.WhereBuilder, error) {
	return v.compare(f, f.Field, filters.LessThanEqual, filters.GreaterThan, f.Value)
}

func (v visitor) VisitNotEmpty(f *filter.NotEmpty) (*filters.WhereBuilder, error) {
	return where(f.Field, filters.IsNull).WithValueBoolean(v.negated), nil
}

func (visitor) VisitWithinBBox(f *filter.WithinBBox) (*filters.WhereBuilder, error) {
	return nil, render.Unsupported(backend, f, "only radius geo filters exist")
}

func (v visitor) VisitWithinCircle(f *filter.WithinCircle) (*filters.WhereBuilder, error) {
	if v.negated {
		return nil, render.Unsupported(backend, f, "negated geo range")
	}
	return where(f.Field, filters.WithinGeoRange).WithValueGeoRange(&filters.GeoCoordinatesParameter{
		Latitude:    float32(f.Center.Lat),
		Longitude:   float32(f.Center.Lon),
		MaxDistance: float32(f.RadiusKm * 1000),
	}), nil
}

func (v visitor) VisitAnd(f *filter.Conjunction) (*filters.WhereBuilder, error) {
	operands, err := render.WalkAll[*filters.WhereBuilder](v, f.Children())
	if err != nil {
		return nil, err
	}
	return v.combine(true, operands), nil
}

func (v visitor) VisitOr(f *filter.Disjunction) (*filters.WhereBuilder, error) {
	operands, err := render.WalkAll[*filters.WhereBuilder](v, f.Children())
	if err != nil {
		return nil, err
	}
	return v.combine(false, operands), nil
}

func (v visitor) VisitNot(f *filter.Negation) (*filters.WhereBuilder, error) {
	return render.Walk[*filters.WhereBuilder](visitor{negated: !v.negated}, f.Child())
}

// combine joins operands with And (all) or Or, swapped under negation.
func (v visitor) combine(all bool, operands []*filters.WhereBuilder) *filters.WhereBuilder {
	op := filters.Or
	if all != v.negated {
		op = filters.And
	}
	return filters.Where().WithOperator(op).WithOperands(operands)
}

func (v visitor) compare(f filter.Filter, field string, op, negatedOp filters.WhereOperator, val filter.Value) (*filters.WhereBuilder, error) {
	if v.negated {
		op = negatedOp
	}
	b := where(field, op)
	switch x := val.(type) {
	case filter.Text:
		return b.WithValueText(string(x)), nil
	case filter.Number:
		return b.WithValueNumber(float64(x)), nil
	case filter.Date:
		return b.WithValueDate(x.Time().UTC()), nil
	default:
		return nil, render.Unsupported(backend, f, "value kind "+string(val.ValueKind()))
	}
}

func where(field string, op filters.WhereOperator) *filters.WhereBuilder {
	return filters.Where().WithPath([]string{field}).WithOperator(op)
}
