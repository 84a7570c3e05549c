// Package sql compiles filter trees to parameterised SQLite WHERE clauses.
//
// Values are never interpolated: every value becomes a ? placeholder and is
// returned in the params slice, in placeholder order.
package sql

import (
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render"
)

const backend = "sql"

// TimeLayout is the text form of date parameters. The fixed-width
// fraction keeps stored dates in lexical order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Compiler compiles filters to SQL fragments. Nested scope is ignored: every
// field maps to a column of the same table.
type Compiler struct {
	geoColumns func(field string) (lat, lon string)
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithGeoColumns sets how a geo field maps to its latitude and longitude
// columns. Defaults to <field>_lat and <field>_lon.
func WithGeoColumns(fn func(field string) (lat, lon string)) Option {
	return func(c *Compiler) {
		if fn != nil {
			c.geoColumns = fn
		}
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		geoColumns: func(field string) (string, string) {
			return field + "_lat", field + "_lon"
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Where compiles f to a boolean SQL expression and its parameters. A nil
// filter compiles to "1 = 1".
func (c *Compiler) Where(f filter.Filter) (string, []any, error) {
	if f == nil {
		return "1 = 1", nil, nil
	}
	frag, err := render.Walk[fragment](visitor{c}, f)
	if err != nil {
		return "", nil, err
	}
	return frag.sql, frag.params, nil
}

// Select compiles a full query over table. Rows are always ordered by id so
// results are deterministic.
func (c *Compiler) Select(table string, columns []string, f filter.Filter) (string, []any, error) {
	where, params, err := c.Where(f)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}

	cols := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = Ident(col)
		}
		cols = strings.Join(quoted, ", ")
	}

	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s ASC COLLATE BINARY",
		cols, Ident(table), where, Ident("id"))
	return sql, params, nil
}

// Ident quotes an identifier.
func Ident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// EscapeLike escapes LIKE wildcards for use with ESCAPE '\'.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type fragment struct {
	sql    string
	params []any
}

type visitor struct {
	c *Compiler
}

func (visitor) VisitEq(f *filter.Eq) (fragment, error) {
	return compare(f.Field, "=", f.Value), nil
}

func (visitor) VisitPrefix(f *filter.Prefix) (fragment, error) {
	return fragment{
		sql:    Ident(f.Field) + ` LIKE ? ESCAPE '\'`,
		params: []any{EscapeLike(f.Prefix) + "%"},
	}, nil
}

func (visitor) VisitTerms(f *filter.Terms) (fragment, error) {
	marks := make([]string, len(f.Values))
	params := make([]any, len(f.Values))
	for i, v := range f.Values {
		marks[i] = "?"
		params[i] = param(v)
	}
	return fragment{
		sql:    fmt.Sprintf("%s IN (%s)", Ident(f.Field), strings.Join(marks, ", ")),
		params: params,
	}, nil
}

func (visitor) VisitBetween(f *filter.Between) (fragment, error) {
	return fragment{
		sql:    Ident(f.Field) + " BETWEEN ? AND ?",
		params: []any{param(f.From), param(f.To)},
	}, nil
}

func (visitor) VisitBefore(f *filter.Before) (fragment, error) {
	return compare(f.Field, "<=", f.Value), nil
}

func (visitor) VisitAfter(f *filter.After) (fragment, error) {
	return compare(f.Field, ">=", f.Value), nil
}

func (visitor) VisitGreaterThan(f *filter.GreaterThan) (fragment, error) {
	return compare(f.Field, ">=", f.Value), nil
}

func (visitor) VisitLesserThan(f *filter.LesserThan) (fragment, error) {
	return compare(f.Field, "<=", f.Value), nil
}

func (visitor) VisitNotEmpty(f *filter.NotEmpty) (fragment, error) {
	return fragment{sql: Ident(f.Field) + " IS NOT NULL"}, nil
}

func (v visitor) VisitWithinBBox(f *filter.WithinBBox) (fragment, error) {
	lat, lon := v.c.geoColumns(f.Field)
	return fragment{
		sql:    fmt.Sprintf("(%s BETWEEN ? AND ? AND %s BETWEEN ? AND ?)", Ident(lat), Ident(lon)),
		params: []any{f.Min.Lat, f.Max.Lat, f.Min.Lon, f.Max.Lon},
	}, nil
}

func (visitor) VisitWithinCircle(f *filter.WithinCircle) (fragment, error) {
	return fragment{}, render.Unsupported(backend, f, "SQLite has no distance function")
}

func (v visitor) VisitAnd(f *filter.Conjunction) (fragment, error) {
	return v.group(" AND ", f.Children())
}

func (v visitor) VisitOr(f *filter.Disjunction) (fragment, error) {
	return v.group(" OR ", f.Children())
}

func (v visitor) VisitNot(f *filter.Negation) (fragment, error) {
	inner, err := render.Walk[fragment](v, f.Child())
	if err != nil {
		return fragment{}, err
	}
	return fragment{sql: "NOT (" + inner.sql + ")", params: inner.params}, nil
}

func (v visitor) group(sep string, children []filter.Filter) (fragment, error) {
	frags, err := render.WalkAll[fragment](v, children)
	if err != nil {
		return fragment{}, err
	}
	parts := make([]string, len(frags))
	var params []any
	for i, frag := range frags {
		parts[i] = frag.sql
		params = append(params, frag.params...)
	}
	return fragment{sql: "(" + strings.Join(parts, sep) + ")", params: params}, nil
}

func compare(field, op string, v filter.Value) fragment {
	return fragment{
		sql:    fmt.Sprintf("%s %s ?", Ident(field), op),
		params: []any{param(v)},
	}
}

// param converts a value to a driver argument. Dates become TimeLayout text.
func param(v filter.Value) any {
	if t, ok := render.Time(v); ok {
		return t.Format(TimeLayout)
	}
	return render.Native(v)
}
