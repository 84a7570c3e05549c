// Package qdrant renders filter trees as Qdrant payload filters.
package qdrant

import (
	qd "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render"
)

const backend = "qdrant"

// Render returns the payload filter for f. A nil filter yields an empty
// filter, which matches every point.
//
// Text equality uses keyword matches, numeric and date comparisons use
// range conditions, and nested-scope leaves on dotted fields become nested
// conditions on the parent path. Prefix matches are not supported.
func Render(f filter.Filter) (*qd.Filter, error) {
	if f == nil {
		return &qd.Filter{}, nil
	}

	v := visitor{}
	switch n := f.(type) {
	case *filter.Conjunction:
		conds, err := render.WalkAll[*qd.Condition](v, n.Children())
		if err != nil {
			return nil, err
		}
		return &qd.Filter{Must: conds}, nil
	case *filter.Disjunction:
		conds, err := render.WalkAll[*qd.Condition](v, n.Children())
		if err != nil {
			return nil, err
		}
		return &qd.Filter{Should: conds}, nil
	case *filter.Negation:
		cond, err := render.Walk[*qd.Condition](v, n.Child())
		if err != nil {
			return nil, err
		}
		return &qd.Filter{MustNot: []*qd.Condition{cond}}, nil
	}

	cond, err := render.Walk[*qd.Condition](v, f)
	if err != nil {
		return nil, err
	}
	return &qd.Filter{Must: []*qd.Condition{cond}}, nil
}

type visitor struct{}

func (visitor) VisitEq(f *filter.Eq) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		if t, ok := f.Value.(filter.Text); ok {
			return qd.NewMatch(key, string(t)), nil
		}
		return between(f, key, f.Value, f.Value)
	})
}

func (visitor) VisitPrefix(f *filter.Prefix) (*qd.Condition, error) {
	return nil, render.Unsupported(backend, f, "keyword indexes have no prefix match")
}

func (visitor) VisitTerms(f *filter.Terms) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		keywords := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			t, ok := v.(filter.Text)
			if !ok {
				return alternatives(f, key, f.Values)
			}
			keywords = append(keywords, string(t))
		}
		return qd.NewMatchKeywords(key, keywords...), nil
	})
}

func (visitor) VisitBetween(f *filter.Between) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		return between(f, key, f.From, f.To)
	})
}

func (visitor) VisitBefore(f *filter.Before) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		return between(f, key, nil, f.Value)
	})
}

func (visitor) VisitAfter(f *filter.After) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		return between(f, key, f.Value, nil)
	})
}

func (visitor) VisitGreaterThan(f *filter.GreaterThan) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		return between(f, key, f.Value, nil)
	})
}

func (visitor) VisitLesserThan(f *filter.LesserThan) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		return between(f, key, nil, f.Value)
	})
}

func (visitor) VisitNotEmpty(f *filter.NotEmpty) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		return qd.NewFilterAsCondition(&qd.Filter{
			MustNot: []*qd.Condition{qd.NewIsEmpty(key)},
		}), nil
	})
}

func (visitor) VisitWithinBBox(f *filter.WithinBBox) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		return qd.NewGeoBoundingBox(key, f.Max.Lat, f.Min.Lon, f.Min.Lat, f.Max.Lon), nil
	})
}

func (visitor) VisitWithinCircle(f *filter.WithinCircle) (*qd.Condition, error) {
	return scoped(f, f.Field, func(key string) (*qd.Condition, error) {
		return qd.NewGeoRadius(key, f.Center.Lat, f.Center.Lon, float32(f.RadiusKm*1000)), nil
	})
}

func (v visitor) VisitAnd(f *filter.Conjunction) (*qd.Condition, error) {
	conds, err := render.WalkAll[*qd.Condition](v, f.Children())
	if err != nil {
		return nil, err
	}
	return qd.NewFilterAsCondition(&qd.Filter{Must: conds}), nil
}

func (v visitor) VisitOr(f *filter.Disjunction) (*qd.Condition, error) {
	conds, err := render.WalkAll[*qd.Condition](v, f.Children())
	if err != nil {
		return nil, err
	}
	return qd.NewFilterAsCondition(&qd.Filter{Should: conds}), nil
}

func (v visitor) VisitNot(f *filter.Negation) (*qd.Condition, error) {
	cond, err := render.Walk[*qd.Condition](v, f.Child())
	if err != nil {
		return nil, err
	}
	return qd.NewFilterAsCondition(&qd.Filter{MustNot: []*qd.Condition{cond}}), nil
}

// scoped builds a leaf condition, as a nested condition on the parent path
// when the leaf is nested and its field is dotted.
func scoped(f filter.Filter, field string, build func(key string) (*qd.Condition, error)) (*qd.Condition, error) {
	path, rel, ok := render.NestedPath(field)
	if f.Scope() != filter.ScopeNested || !ok {
		return build(field)
	}
	cond, err := build(rel)
	if err != nil {
		return nil, err
	}
	return qd.NewNestedFilter(path, &qd.Filter{Must: []*qd.Condition{cond}}), nil
}

// between builds an inclusive range; nil bounds are open.
func between(f filter.Filter, key string, from, to filter.Value) (*qd.Condition, error) {
	kind := from
	if kind == nil {
		kind = to
	}
	switch kind.(type) {
	case filter.Number:
		r := &qd.Range{}
		if n, ok := from.(filter.Number); ok {
			r.Gte = proto.Float64(float64(n))
		}
		if n, ok := to.(filter.Number); ok {
			r.Lte = proto.Float64(float64(n))
		}
		return qd.NewRange(key, r), nil
	case filter.Date:
		r := &qd.DatetimeRange{}
		if t, ok := render.Time(from); ok {
			r.Gte = timestamppb.New(t)
		}
		if t, ok := render.Time(to); ok {
			r.Lte = timestamppb.New(t)
		}
		return qd.NewDatetimeRange(key, r), nil
	default:
		return nil, render.Unsupported(backend, f, "ranges need numeric or date values")
	}
}

// alternatives matches any of values with one condition per value.
func alternatives(f filter.Filter, key string, values []filter.Value) (*qd.Condition, error) {
	conds := make([]*qd.Condition, 0, len(values))
	for _, v := range values {
		cond, err := between(f, key, v, v)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return qd.NewFilterAsCondition(&qd.Filter{Should: conds}), nil
}
