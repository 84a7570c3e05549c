// Package mongo renders filter trees as MongoDB query documents.
package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render"
)

// earthRadiusKm converts kilometres to the radians $centerSphere expects.
const earthRadiusKm = 6378.1

// Render returns the query document for f. A nil filter matches every
// document.
//
// Dates become BSON datetimes, geo fields are legacy [lon, lat] pairs, and
// nested-scope leaves on dotted fields use $elemMatch on the parent path.
func Render(f filter.Filter) (bson.D, error) {
	if f == nil {
		return bson.D{}, nil
	}
	return render.Walk[bson.D](visitor{}, f)
}

type visitor struct{}

func (visitor) VisitEq(f *filter.Eq) (bson.D, error) {
	return field(f, f.Field, value(f.Value)), nil
}

func (visitor) VisitPrefix(f *filter.Prefix) (bson.D, error) {
	return field(f, f.Field, bson.D{{Key: "$regex", Value: "^" + regexp.QuoteMeta(f.Prefix)}}), nil
}

func (visitor) VisitTerms(f *filter.Terms) (bson.D, error) {
	values := make(bson.A, len(f.Values))
	for i, v := range f.Values {
		values[i] = value(v)
	}
	return field(f, f.Field, bson.D{{Key: "$in", Value: values}}), nil
}

func (visitor) VisitBetween(f *filter.Between) (bson.D, error) {
	return field(f, f.Field, bson.D{
		{Key: "$gte", Value: value(f.From)},
		{Key: "$lte", Value: value(f.To)},
	}), nil
}

func (visitor) VisitBefore(f *filter.Before) (bson.D, error) {
	return field(f, f.Field, bson.D{{Key: "$lte", Value: value(f.Value)}}), nil
}

func (visitor) VisitAfter(f *filter.After) (bson.D, error) {
	return field(f, f.Field, bson.D{{Key: "$gte", Value: value(f.Value)}}), nil
}

func (visitor) VisitGreaterThan(f *filter.GreaterThan) (bson.D, error) {
	return field(f, f.Field, bson.D{{Key: "$gte", Value: value(f.Value)}}), nil
}

func (visitor) VisitLesserThan(f *filter.LesserThan) (bson.D, error) {
	return field(f, f.Field, bson.D{{Key: "$lte", Value: value(f.Value)}}), nil
}

func (visitor) VisitNotEmpty(f *filter.NotEmpty) (bson.D, error) {
	return field(f, f.Field, bson.D{
		{Key: "$exists", Value: true},
		{Key: "$ne", Value: nil},
	}), nil
}

func (visitor) VisitWithinBBox(f *filter.WithinBBox) (bson.D, error) {
	return field(f, f.Field, bson.D{{Key: "$geoWithin", Value: bson.D{
		{Key: "$box", Value: bson.A{lonLat(f.Min), lonLat(f.Max)}},
	}}}), nil
}

func (visitor) VisitWithinCircle(f *filter.WithinCircle) (bson.D, error) {
	return field(f, f.Field, bson.D{{Key: "$geoWithin", Value: bson.D{
		{Key: "$centerSphere", Value: bson.A{lonLat(f.Center), f.RadiusKm / earthRadiusKm}},
	}}}), nil
}

func (v visitor) VisitAnd(f *filter.Conjunction) (bson.D, error) {
	return v.group("$and", f.Children())
}

func (v visitor) VisitOr(f *filter.Disjunction) (bson.D, error) {
	return v.group("$or", f.Children())
}

func (v visitor) VisitNot(f *filter.Negation) (bson.D, error) {
	return v.group("$nor", []filter.Filter{f.Child()})
}

func (v visitor) group(op string, children []filter.Filter) (bson.D, error) {
	docs, err := render.WalkAll[bson.D](v, children)
	if err != nil {
		return nil, err
	}
	arr := make(bson.A, len(docs))
	for i, d := range docs {
		arr[i] = d
	}
	return bson.D{{Key: op, Value: arr}}, nil
}

// field builds {name: cond}, or {path: {$elemMatch: {rel: cond}}} for
// nested-scope leaves.
func field(f filter.Filter, name string, cond any) bson.D {
	if f.Scope() == filter.ScopeNested {
		if path, rel, ok := render.NestedPath(name); ok {
			return bson.D{{Key: path, Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: rel, Value: cond}}}}}}
		}
	}
	return bson.D{{Key: name, Value: cond}}
}

func value(v filter.Value) any {
	if p, ok := v.(filter.Point); ok {
		return lonLat(p)
	}
	return render.Native(v)
}

func lonLat(p filter.Point) bson.A {
	return bson.A{p.Lon, p.Lat}
}
