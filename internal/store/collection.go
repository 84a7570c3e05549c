package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/filter"
	sqlr "github.com/roach88/filterql/internal/render/sql"
	"github.com/roach88/filterql/internal/schema"
)

// Document is a fixture row: an id and field values in their query-literal
// form ("12.5", "NOW-1DAY", "40.7,-74.0").
type Document struct {
	ID     string            `yaml:"id" json:"id"`
	Fields map[string]string `yaml:"fields" json:"fields"`
}

// Collection is a table created from a schema registry.
type Collection struct {
	db       *sql.DB
	registry *schema.MapRegistry
	dates    *datemath.Parser
	compiler *sqlr.Compiler
}

// CollectionOption configures a Collection.
type CollectionOption func(*Collection)

// WithDateParser sets the parser date fields are read with. Pin its clock
// to make NOW-relative document dates reproducible.
func WithDateParser(p *datemath.Parser) CollectionOption {
	return func(c *Collection) {
		if p != nil {
			c.dates = p
		}
	}
}

// CreateCollection creates the table for registry and records it in the
// catalog. The table is named after the registry.
func (s *Store) CreateCollection(ctx context.Context, registry *schema.MapRegistry, opts ...CollectionOption) (*Collection, error) {
	c := &Collection{
		db:       s.db,
		registry: registry,
		dates:    datemath.NewParser(),
		compiler: sqlr.NewCompiler(),
	}
	for _, opt := range opts {
		opt(c)
	}

	catalog, err := describeFields(registry.Fields())
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "INSERT INTO collections (name, fields) VALUES (?, ?)", registry.Name(), catalog); err != nil {
		return nil, fmt.Errorf("register collection %s: %w", registry.Name(), err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(registry)); err != nil {
		return nil, fmt.Errorf("create collection %s: %w", registry.Name(), err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

// Collections returns the names of all created collections, sorted.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM collections ORDER BY name ASC COLLATE BINARY")
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Name returns the table name.
func (c *Collection) Name() string {
	return c.registry.Name()
}

// Insert converts doc's fields per declared kind and inserts the row.
// Fields the registry does not declare are rejected.
func (c *Collection) Insert(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return errors.New("document without id")
	}

	names := make([]string, 0, len(doc.Fields))
	for name := range doc.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := []string{sqlr.Ident("id")}
	args := []any{doc.ID}
	for _, name := range names {
		fd, err := c.registry.Field(name)
		if err != nil {
			return fmt.Errorf("document %s: %w", doc.ID, err)
		}
		fieldCols, fieldArgs, err := c.convert(fd, doc.Fields[name])
		if err != nil {
			return fmt.Errorf("document %s: field %s: %w", doc.ID, name, err)
		}
		for _, col := range fieldCols {
			cols = append(cols, sqlr.Ident(col))
		}
		args = append(args, fieldArgs...)
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sqlr.Ident(c.Name()), strings.Join(cols, ", "), marks)
	if _, err := c.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert document %s: %w", doc.ID, err)
	}
	return nil
}

// Match returns the ids of the documents f selects, ordered by id. A nil
// filter matches every document.
func (c *Collection) Match(ctx context.Context, f filter.Filter) ([]string, error) {
	query, params, err := c.compiler.Select(c.Name(), []string{"id"}, f)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", c.Name(), err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (c *Collection) convert(fd schema.FieldDescriptor, raw string) ([]string, []any, error) {
	switch fd.Kind {
	case schema.KindText:
		return []string{fd.Name}, []any{raw}, nil
	case schema.KindNumeric:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("malformed number %q", raw)
		}
		return []string{fd.Name}, []any{n}, nil
	case schema.KindDate:
		e, err := c.dates.ParseMath(raw)
		if err != nil {
			return nil, nil, err
		}
		return []string{fd.Name}, []any{e.Time().Format(sqlr.TimeLayout)}, nil
	case schema.KindGeo:
		lat, lon, err := parseLatLon(raw)
		if err != nil {
			return nil, nil, err
		}
		return []string{fd.Name + "_lat", fd.Name + "_lon"}, []any{lat, lon}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported kind %q", fd.Kind)
	}
}

func createTableSQL(registry *schema.MapRegistry) string {
	defs := []string{sqlr.Ident("id") + " TEXT PRIMARY KEY"}
	for _, fd := range registry.Fields() {
		switch fd.Kind {
		case schema.KindNumeric:
			defs = append(defs, sqlr.Ident(fd.Name)+" REAL")
		case schema.KindGeo:
			defs = append(defs, sqlr.Ident(fd.Name+"_lat")+" REAL", sqlr.Ident(fd.Name+"_lon")+" REAL")
		default:
			defs = append(defs, sqlr.Ident(fd.Name)+" TEXT")
		}
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", sqlr.Ident(registry.Name()), strings.Join(defs, ",\n    "))
}

// describeFields renders the catalog entry of a registry as canonical JSON.
func describeFields(fields []schema.FieldDescriptor) (string, error) {
	list := make([]any, len(fields))
	for i, fd := range fields {
		list[i] = map[string]any{
			"name":       fd.Name,
			"kind":       string(fd.Kind),
			"multivalue": fd.MultiValue,
			"nested":     fd.Nested,
		}
	}
	data, err := filter.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	return string(data), nil
}

func parseLatLon(s string) (float64, float64, error) {
	latText, lonText, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("malformed point %q: want lat,lon", s)
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("malformed point %q: want lat,lon", s)
	}
	return lat, lon, nil
}
