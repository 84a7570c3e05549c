package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/filterql/internal/filter"
)

// Visitor renders each concrete filter kind to T.
type Visitor[T any] interface {
	VisitEq(f *filter.Eq) (T, error)
	VisitPrefix(f *filter.Prefix) (T, error)
	VisitTerms(f *filter.Terms) (T, error)
	VisitBetween(f *filter.Between) (T, error)
	VisitBefore(f *filter.Before) (T, error)
	VisitAfter(f *filter.After) (T, error)
	VisitGreaterThan(f *filter.GreaterThan) (T, error)
	VisitLesserThan(f *filter.LesserThan) (T, error)
	VisitNotEmpty(f *filter.NotEmpty) (T, error)
	VisitWithinBBox(f *filter.WithinBBox) (T, error)
	VisitWithinCircle(f *filter.WithinCircle) (T, error)
	VisitAnd(f *filter.Conjunction) (T, error)
	VisitOr(f *filter.Disjunction) (T, error)
	VisitNot(f *filter.Negation) (T, error)
}

// UnsupportedFilterKindError reports a filter node a backend has no mapping
// for.
type UnsupportedFilterKindError struct {
	Backend string
	Kind    filter.Kind
	Node    string
	Reason  string
}

func (e *UnsupportedFilterKindError) Error() string {
	msg := fmt.Sprintf("%s: unsupported filter kind %s in %s", e.Backend, e.Kind, e.Node)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unsupported builds an UnsupportedFilterKindError for f.
func Unsupported(backend string, f filter.Filter, reason string) *UnsupportedFilterKindError {
	e := &UnsupportedFilterKindError{Backend: backend, Reason: reason}
	if f != nil {
		e.Kind = f.Kind()
		e.Node = f.String()
	}
	return e
}

// Walk dispatches f to the matching Visitor method.
func Walk[T any](v Visitor[T], f filter.Filter) (T, error) {
	switch n := f.(type) {
	case *filter.Eq:
		return v.VisitEq(n)
	case *filter.Prefix:
		return v.VisitPrefix(n)
	case *filter.Terms:
		return v.VisitTerms(n)
	case *filter.Between:
		return v.VisitBetween(n)
	case *filter.Before:
		return v.VisitBefore(n)
	case *filter.After:
		return v.VisitAfter(n)
	case *filter.GreaterThan:
		return v.VisitGreaterThan(n)
	case *filter.LesserThan:
		return v.VisitLesserThan(n)
	case *filter.NotEmpty:
		return v.VisitNotEmpty(n)
	case *filter.WithinBBox:
		return v.VisitWithinBBox(n)
	case *filter.WithinCircle:
		return v.VisitWithinCircle(n)
	case *filter.Conjunction:
		return v.VisitAnd(n)
	case *filter.Disjunction:
		return v.VisitOr(n)
	case *filter.Negation:
		return v.VisitNot(n)
	default:
		var zero T
		e := &UnsupportedFilterKindError{Backend: "render", Node: fmt.Sprintf("%T", f)}
		if f != nil {
			e.Kind = f.Kind()
		} else {
			e.Reason = "nil filter"
		}
		return zero, e
	}
}

// WalkAll renders every filter in order and stops at the first error.
func WalkAll[T any](v Visitor[T], filters []filter.Filter) ([]T, error) {
	out := make([]T, 0, len(filters))
	for _, f := range filters {
		r, err := Walk(v, f)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// NestedPath splits a nested field into the path of the nested document and
// the field relative to it: "author.name" gives ("author", "name", true).
// A field without a dot is its own path and ok is false.
func NestedPath(field string) (path, rel string, ok bool) {
	i := strings.LastIndexByte(field, '.')
	if i <= 0 || i == len(field)-1 {
		return field, field, false
	}
	return field[:i], field[i+1:], true
}

// Native converts a leaf value to a plain Go value: string, float64,
// time.Time (UTC) or [2]float64{lat, lon}.
func Native(v filter.Value) any {
	switch val := v.(type) {
	case filter.Text:
		return string(val)
	case filter.Number:
		return float64(val)
	case filter.Date:
		return val.Time().UTC()
	case filter.Point:
		return [2]float64{val.Lat, val.Lon}
	default:
		return nil
	}
}

// Time returns the instant of a date value; ok is false for other kinds.
func Time(v filter.Value) (time.Time, bool) {
	d, ok := v.(filter.Date)
	if !ok {
		return time.Time{}, false
	}
	return d.Time().UTC(), true
}
