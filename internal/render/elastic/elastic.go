// Package elastic renders filter trees as Elasticsearch query DSL.
package elastic

import (
	"strconv"
	"strings"
	"time"

	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render"
)

// Query is one node of the query DSL, ready for encoding/json.
type Query = map[string]any

var units = map[datemath.TimeUnit]string{
	datemath.Year:   "y",
	datemath.Month:  "M",
	datemath.Day:    "d",
	datemath.Hour:   "h",
	datemath.Minute: "m",
	datemath.Second: "s",
}

// Render returns the DSL query for f in filter context. A nil filter
// renders as match_all.
func Render(f filter.Filter) (Query, error) {
	if f == nil {
		return Query{"match_all": Query{}}, nil
	}
	return render.Walk[Query](visitor{}, f)
}

// DateMath converts an expression to Elasticsearch date math: "now/d-14d"
// or "2015-01-01T00:00:00Z||+1M". Expressions using milliseconds, which
// Elasticsearch date math lacks, are evaluated to a fixed instant.
func DateMath(e *datemath.Expression) string {
	var b strings.Builder
	if e.IsRelative() {
		b.WriteString("now")
	} else {
		b.WriteString(e.Root().UTC().Format(time.RFC3339Nano))
		if e.Rounding() == datemath.UnitNone && len(e.Ops()) == 0 {
			return b.String()
		}
		b.WriteString("||")
	}

	if e.Rounding() != datemath.UnitNone {
		u, ok := units[e.Rounding()]
		if !ok {
			return e.Time().UTC().Format(time.RFC3339Nano)
		}
		b.WriteString("/" + u)
	}
	for _, op := range e.Ops() {
		u, ok := units[op.Unit]
		if !ok {
			return e.Time().UTC().Format(time.RFC3339Nano)
		}
		if op.Sub {
			b.WriteByte('-')
		} else {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(op.Quantity) + u)
	}
	return b.String()
}

type visitor struct{}

func (visitor) VisitEq(f *filter.Eq) (Query, error) {
	return leaf(f, "term", Query{f.Field: value(f.Value)}), nil
}

func (visitor) VisitPrefix(f *filter.Prefix) (Query, error) {
	return leaf(f, "prefix", Query{f.Field: f.Prefix}), nil
}

func (visitor) VisitTerms(f *filter.Terms) (Query, error) {
	values := make([]any, len(f.Values))
	for i, v := range f.Values {
		values[i] = value(v)
	}
	return leaf(f, "terms", Query{f.Field: values}), nil
}

func (visitor) VisitBetween(f *filter.Between) (Query, error) {
	return rangeQuery(f, f.Field, Query{"gte": value(f.From), "lte": value(f.To)}), nil
}

func (visitor) VisitBefore(f *filter.Before) (Query, error) {
	return rangeQuery(f, f.Field, Query{"lte": value(f.Value)}), nil
}

func (visitor) VisitAfter(f *filter.After) (Query, error) {
	return rangeQuery(f, f.Field, Query{"gte": value(f.Value)}), nil
}

func (visitor) VisitGreaterThan(f *filter.GreaterThan) (Query, error) {
	return rangeQuery(f, f.Field, Query{"gte": value(f.Value)}), nil
}

func (visitor) VisitLesserThan(f *filter.LesserThan) (Query, error) {
	return rangeQuery(f, f.Field, Query{"lte": value(f.Value)}), nil
}

func (visitor) VisitNotEmpty(f *filter.NotEmpty) (Query, error) {
	return leaf(f, "exists", Query{"field": f.Field}), nil
}

func (visitor) VisitWithinBBox(f *filter.WithinBBox) (Query, error) {
	return leaf(f, "geo_bounding_box", Query{f.Field: Query{
		"top_left":     point(filter.Point{Lat: f.Max.Lat, Lon: f.Min.Lon}),
		"bottom_right": point(filter.Point{Lat: f.Min.Lat, Lon: f.Max.Lon}),
	}}), nil
}

func (visitor) VisitWithinCircle(f *filter.WithinCircle) (Query, error) {
	return leaf(f, "geo_distance", Query{
		"distance": strconv.FormatFloat(f.RadiusKm, 'f', -1, 64) + "km",
		f.Field:    point(f.Center),
	}), nil
}

func (v visitor) VisitAnd(f *filter.Conjunction) (Query, error) {
	children, err := render.WalkAll[Query](v, f.Children())
	if err != nil {
		return nil, err
	}
	return Query{"bool": Query{"filter": children}}, nil
}

func (v visitor) VisitOr(f *filter.Disjunction) (Query, error) {
	children, err := render.WalkAll[Query](v, f.Children())
	if err != nil {
		return nil, err
	}
	return Query{"bool": Query{"should": children, "minimum_should_match": 1}}, nil
}

func (v visitor) VisitNot(f *filter.Negation) (Query, error) {
	child, err := render.Walk[Query](v, f.Child())
	if err != nil {
		return nil, err
	}
	return Query{"bool": Query{"must_not": []Query{child}}}, nil
}

func rangeQuery(f filter.Filter, field string, bounds Query) Query {
	return leaf(f, "range", Query{field: bounds})
}

// leaf builds {kind: body}, wrapped in a nested query for nested-scope
// leaves.
func leaf(f filter.Filter, kind string, body Query) Query {
	q := Query{kind: body}
	if f.Scope() != filter.ScopeNested {
		return q
	}
	path, _, _ := render.NestedPath(filter.Field(f))
	return Query{"nested": Query{"path": path, "query": q}}
}

func value(v filter.Value) any {
	switch val := v.(type) {
	case filter.Date:
		return DateMath(val.Expr())
	case filter.Point:
		return point(val)
	default:
		return render.Native(v)
	}
}

func point(p filter.Point) Query {
	return Query{"lat": p.Lat, "lon": p.Lon}
}
