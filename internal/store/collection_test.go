package store

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/testutil"
)

func openArticles(t *testing.T) (*Store, *Collection) {
	t.Helper()

	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	dates := datemath.NewParser(datemath.WithClock(testutil.NewFixedClock(testutil.DefaultNow)))
	c, err := s.CreateCollection(context.Background(), testutil.Articles(), WithDateParser(dates))
	if err != nil {
		t.Fatalf("CreateCollection() failed: %v", err)
	}

	docs := []Document{
		{ID: "a1", Fields: map[string]string{"title": "go", "price": "5", "created": "2015-01-10", "location": "40.5,-73.5", "tags": "a"}},
		{ID: "a2", Fields: map[string]string{"title": "rust", "price": "12", "created": "NOW-1DAY", "location": "10,10", "tags": "b"}},
		{ID: "a3", Fields: map[string]string{"title": "gopher"}},
	}
	for _, doc := range docs {
		if err := c.Insert(context.Background(), doc); err != nil {
			t.Fatalf("Insert(%s) failed: %v", doc.ID, err)
		}
	}
	return s, c
}

func TestCreateCollection_Columns(t *testing.T) {
	s, _ := openArticles(t)

	columns := getTableColumns(t, s.db, "articles")
	want := []string{"id", "title", "price", "created", "tags", "location_lat", "location_lon", "author"}
	for _, col := range want {
		if !contains(columns, col) {
			t.Errorf("articles table missing column %q", col)
		}
	}
	if contains(columns, "location") {
		t.Error("geo field should be split into _lat and _lon columns")
	}
}

func TestCreateCollection_Catalog(t *testing.T) {
	s, _ := openArticles(t)

	names, err := s.Collections(context.Background())
	if err != nil {
		t.Fatalf("Collections() failed: %v", err)
	}
	if !slices.Equal(names, []string{"articles"}) {
		t.Errorf("Collections() = %v, want [articles]", names)
	}

	var fields string
	if err := s.db.QueryRow("SELECT fields FROM collections WHERE name = 'articles'").Scan(&fields); err != nil {
		t.Fatalf("query catalog: %v", err)
	}
	want := `[{"kind":"text","multivalue":false,"name":"author","nested":true},` +
		`{"kind":"date","multivalue":false,"name":"created","nested":false},` +
		`{"kind":"geo","multivalue":false,"name":"location","nested":false},` +
		`{"kind":"numeric","multivalue":false,"name":"price","nested":false},` +
		`{"kind":"text","multivalue":true,"name":"tags","nested":false},` +
		`{"kind":"text","multivalue":false,"name":"title","nested":false}]`
	if fields != want {
		t.Errorf("catalog fields = %s, want %s", fields, want)
	}
}

func TestCreateCollection_Duplicate(t *testing.T) {
	s, _ := openArticles(t)

	if _, err := s.CreateCollection(context.Background(), testutil.Articles()); err == nil {
		t.Error("expected error creating a collection twice, got nil")
	}
}

func TestMatch(t *testing.T) {
	_, c := openArticles(t)

	tests := []struct {
		name string
		f    filter.Filter
		want []string
	}{
		{"nil matches all", nil, []string{"a1", "a2", "a3"}},
		{"eq", filter.NewEq("title", filter.Text("go")), []string{"a1"}},
		{"prefix", filter.NewPrefix("title", "go"), []string{"a1", "a3"}},
		{"terms", filter.NewTerms("tags", filter.Text("a"), filter.Text("b")), []string{"a1", "a2"}},
		{"gt", filter.NewGreaterThan("price", filter.Number(10)), []string{"a2"}},
		{"between", filter.NewBetween("price", filter.Number(5), filter.Number(12)), []string{"a1", "a2"}},
		{"not empty", filter.NewNotEmpty("price"), []string{"a1", "a2"}},
		{"after", filter.NewAfter("created", filter.DateAt(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))), []string{"a2"}},
		{"before", filter.NewBefore("created", filter.DateAt(time.Date(2015, 1, 10, 0, 0, 0, 0, time.UTC))), []string{"a1"}},
		{"bbox", filter.NewWithinBBox("location", filter.Point{Lat: 40, Lon: -74}, filter.Point{Lat: 41, Lon: -73}), []string{"a1"}},
		{"not", filter.Not(filter.NewEq("title", filter.Text("go"))), []string{"a2", "a3"}},
		{"or", filter.Or(filter.NewEq("title", filter.Text("go")), filter.NewEq("title", filter.Text("rust"))), []string{"a1", "a2"}},
		{"no match", filter.NewEq("title", filter.Text("zig")), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Match(context.Background(), tt.f)
			if err != nil {
				t.Fatalf("Match() failed: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatch_UnsupportedKind(t *testing.T) {
	_, c := openArticles(t)

	_, err := c.Match(context.Background(), filter.NewWithinCircle("location", filter.Point{Lat: 1, Lon: 1}, 5))
	var kindErr *render.UnsupportedFilterKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("Match() error = %v, want *render.UnsupportedFilterKindError", err)
	}
}

func TestInsert_Rejects(t *testing.T) {
	_, c := openArticles(t)

	tests := []struct {
		name string
		doc  Document
	}{
		{"missing id", Document{Fields: map[string]string{"title": "x"}}},
		{"duplicate id", Document{ID: "a1"}},
		{"unknown field", Document{ID: "b1", Fields: map[string]string{"titel": "x"}}},
		{"bad number", Document{ID: "b2", Fields: map[string]string{"price": "cheap"}}},
		{"bad date", Document{ID: "b3", Fields: map[string]string{"created": "yesterday"}}},
		{"bad point", Document{ID: "b4", Fields: map[string]string{"location": "40.5"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Insert(context.Background(), tt.doc); err == nil {
				t.Error("Insert() succeeded, want error")
			}
		})
	}
}

func TestInsert_UnknownFieldSuggests(t *testing.T) {
	_, c := openArticles(t)

	err := c.Insert(context.Background(), Document{ID: "b1", Fields: map[string]string{"titel": "x"}})
	var unknown *schema.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("Insert() error = %v, want *schema.UnknownFieldError", err)
	}
	if unknown.Suggestion != "title" {
		t.Errorf("Suggestion = %q, want %q", unknown.Suggestion, "title")
	}
}
