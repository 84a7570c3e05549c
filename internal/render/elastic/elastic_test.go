package elastic

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/testutil"
)

func TestDateMath(t *testing.T) {
	p := datemath.NewParser(datemath.WithClock(testutil.NewFixedClock(testutil.DefaultNow)))

	tests := []struct {
		expr string
		want string
	}{
		{"NOW", "now"},
		{"NOW/DAY-14DAYS", "now/d-14d"},
		{"NOW+1MONTH-2HOURS", "now+1M-2h"},
		{"NOW/YEAR", "now/y"},
		{"2015-01-01T00:00:00Z", "2015-01-01T00:00:00Z"},
		{"2015-01-01T00:00:00Z/DAY+1MONTH", "2015-01-01T00:00:00Z||/d+1M"},
		{"NOW+1MILLISECOND", "2024-03-15T10:30:45.001Z"},
		{"NOW/MILLI", "2024-03-15T10:30:45Z"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := p.ParseMath(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, DateMath(e))
		})
	}
}

func TestRender_Leaves(t *testing.T) {
	tests := []struct {
		name string
		f    filter.Filter
		want Query
	}{
		{"eq", filter.NewEq("title", filter.Text("go")), Query{"term": Query{"title": "go"}}},
		{"prefix", filter.NewPrefix("title", "ru"), Query{"prefix": Query{"title": "ru"}}},
		{"terms", filter.NewTerms("tags", filter.Text("a"), filter.Text("b")),
			Query{"terms": Query{"tags": []any{"a", "b"}}}},
		{"lt", filter.NewLesserThan("price", filter.Number(10)),
			Query{"range": Query{"price": Query{"lte": 10.0}}}},
		{"not empty", filter.NewNotEmpty("title"), Query{"exists": Query{"field": "title"}}},
		{"bbox", filter.NewWithinBBox("location", filter.Point{Lat: 40, Lon: -74}, filter.Point{Lat: 41, Lon: -73}),
			Query{"geo_bounding_box": Query{"location": Query{
				"top_left":     Query{"lat": 41.0, "lon": -74.0},
				"bottom_right": Query{"lat": 40.0, "lon": -73.0},
			}}}},
		{"circle", filter.NewWithinCircle("location", filter.Point{Lat: 48.85, Lon: 2.35}, 5),
			Query{"geo_distance": Query{"distance": "5km", "location": Query{"lat": 48.85, "lon": 2.35}}}},
		{"nested dotted", filter.WithScope(filter.NewEq("author.name", filter.Text("ann")), filter.ScopeNested),
			Query{"nested": Query{"path": "author", "query": Query{"term": Query{"author.name": "ann"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Nil(t *testing.T) {
	got, err := Render(nil)
	require.NoError(t, err)
	assert.Equal(t, Query{"match_all": Query{}}, got)
}

func TestRender_Golden(t *testing.T) {
	lastTwoWeeks, err := datemath.ParseMath("NOW/DAY-14DAYS")
	require.NoError(t, err)

	f := filter.And(
		filter.NewEq("title", filter.Text("go")),
		filter.NewBetween("price", filter.Number(5), filter.Number(10)),
		filter.NewAfter("created", filter.NewDate(lastTwoWeeks)),
		filter.Or(
			filter.NewPrefix("title", "ru"),
			filter.NewTerms("tags", filter.Text("a"), filter.Text("b")),
		),
		filter.Not(filter.NewNotEmpty("location")),
		filter.WithScope(filter.NewEq("author", filter.Text("ann")), filter.ScopeNested),
	)

	q, err := Render(f)
	require.NoError(t, err)
	out, err := json.MarshalIndent(q, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "articles", out)
}
