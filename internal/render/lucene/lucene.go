// Package lucene renders filter trees as Solr/Lucene standard query strings.
package lucene

import (
	"strconv"
	"strings"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render"
)

const backend = "lucene"

// reserved are the characters escaped with a backslash in field names and
// values.
const reserved = `\+-=&|!(){}[]^"~*?:/<>`

// Escape backslash-escapes reserved characters and whitespace.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(reserved, r) || r == ' ' || r == '\t' || r == '\n' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Renderer renders filters to query strings. The zero value is ready to use.
type Renderer struct {
	parentFilter string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithParentFilter wraps nested-scope leaves in a block-join parent query
// whose "which" clause is q, e.g. "content_type:parent".
func WithParentFilter(q string) Option {
	return func(r *Renderer) {
		r.parentFilter = q
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the query string for f. A nil filter matches everything.
func (r *Renderer) Render(f filter.Filter) (string, error) {
	if f == nil {
		return "*:*", nil
	}
	return render.Walk[string](visitor{r}, f)
}

type visitor struct {
	r *Renderer
}

func (v visitor) VisitEq(f *filter.Eq) (string, error) {
	return v.leaf(f, f.Field, value(f.Value)), nil
}

func (v visitor) VisitPrefix(f *filter.Prefix) (string, error) {
	return v.leaf(f, f.Field, Escape(f.Prefix)+"*"), nil
}

func (v visitor) VisitTerms(f *filter.Terms) (string, error) {
	parts := make([]string, len(f.Values))
	for i, val := range f.Values {
		parts[i] = value(val)
	}
	return v.leaf(f, f.Field, "("+strings.Join(parts, " OR ")+")"), nil
}

func (v visitor) VisitBetween(f *filter.Between) (string, error) {
	return v.leaf(f, f.Field, span(value(f.From), value(f.To))), nil
}

func (v visitor) VisitBefore(f *filter.Before) (string, error) {
	return v.leaf(f, f.Field, span("*", value(f.Value))), nil
}

func (v visitor) VisitAfter(f *filter.After) (string, error) {
	return v.leaf(f, f.Field, span(value(f.Value), "*")), nil
}

func (v visitor) VisitGreaterThan(f *filter.GreaterThan) (string, error) {
	return v.leaf(f, f.Field, span(value(f.Value), "*")), nil
}

func (v visitor) VisitLesserThan(f *filter.LesserThan) (string, error) {
	return v.leaf(f, f.Field, span("*", value(f.Value))), nil
}

func (v visitor) VisitNotEmpty(f *filter.NotEmpty) (string, error) {
	return v.leaf(f, f.Field, span("*", "*")), nil
}

func (v visitor) VisitWithinBBox(f *filter.WithinBBox) (string, error) {
	return v.leaf(f, f.Field, span(value(f.Min), value(f.Max))), nil
}

func (v visitor) VisitWithinCircle(f *filter.WithinCircle) (string, error) {
	geofilt := "{!geofilt sfield=" + f.Field + " pt=" + f.Center.String() + " d=" + formatFloat(f.RadiusKm) + "}"
	return v.scoped(f, "_query_:"+quote(geofilt)), nil
}

func (v visitor) VisitAnd(f *filter.Conjunction) (string, error) {
	return v.group(" AND ", f.Children())
}

func (v visitor) VisitOr(f *filter.Disjunction) (string, error) {
	return v.group(" OR ", f.Children())
}

// VisitNot anchors the negation on all documents so it also works inside
// nested boolean clauses.
func (v visitor) VisitNot(f *filter.Negation) (string, error) {
	inner, err := render.Walk[string](v, f.Child())
	if err != nil {
		return "", err
	}
	return "(*:* -" + inner + ")", nil
}

func (v visitor) group(sep string, children []filter.Filter) (string, error) {
	parts, err := render.WalkAll[string](v, children)
	if err != nil {
		return "", err
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (v visitor) leaf(f filter.Filter, field, val string) string {
	return v.scoped(f, Escape(field)+":"+val)
}

// scoped wraps nested-scope leaves in a block-join parent query.
func (v visitor) scoped(f filter.Filter, q string) string {
	if f.Scope() != filter.ScopeNested || v.r.parentFilter == "" {
		return q
	}
	return "_query_:" + quote("{!parent which="+quote(v.r.parentFilter)+"}"+q)
}

func span(from, to string) string {
	return "[" + from + " TO " + to + "]"
}

func value(v filter.Value) string {
	if t, ok := v.(filter.Text); ok {
		return Escape(string(t))
	}
	return Escape(v.String())
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
