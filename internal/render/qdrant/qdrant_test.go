package qdrant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render"
)

func TestRender_KeywordMatch(t *testing.T) {
	got, err := Render(filter.NewEq("title", filter.Text("go")))
	require.NoError(t, err)
	require.Len(t, got.GetMust(), 1)

	field := got.GetMust()[0].GetField()
	assert.Equal(t, "title", field.GetKey())
	assert.Equal(t, "go", field.GetMatch().GetKeyword())
}

func TestRender_NumericRanges(t *testing.T) {
	tests := []struct {
		name string
		f    filter.Filter
		gte  *float64
		lte  *float64
	}{
		{"between", filter.NewBetween("price", filter.Number(5), filter.Number(6.7)), ptr(5), ptr(6.7)},
		{"gt", filter.NewGreaterThan("price", filter.Number(10)), ptr(10), nil},
		{"lt", filter.NewLesserThan("price", filter.Number(10)), nil, ptr(10)},
		{"eq", filter.NewEq("price", filter.Number(3)), ptr(3), ptr(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.f)
			require.NoError(t, err)
			require.Len(t, got.GetMust(), 1)

			r := got.GetMust()[0].GetField().GetRange()
			require.NotNil(t, r)
			assert.Equal(t, tt.gte, r.Gte)
			assert.Equal(t, tt.lte, r.Lte)
		})
	}
}

func TestRender_DatetimeRange(t *testing.T) {
	from := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := Render(filter.NewAfter("created", filter.DateAt(from)))
	require.NoError(t, err)

	r := got.GetMust()[0].GetField().GetDatetimeRange()
	require.NotNil(t, r)
	assert.True(t, r.GetGte().AsTime().Equal(from))
	assert.Nil(t, r.GetLte())
}

func TestRender_Terms(t *testing.T) {
	got, err := Render(filter.NewTerms("tags", filter.Text("a"), filter.Text("b")))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.GetMust()[0].GetField().GetMatch().GetKeywords().GetStrings())

	got, err = Render(filter.NewTerms("price", filter.Number(1), filter.Number(2)))
	require.NoError(t, err)
	assert.Len(t, got.GetMust()[0].GetFilter().GetShould(), 2)
}

func TestRender_Geo(t *testing.T) {
	got, err := Render(filter.NewWithinCircle("location", filter.Point{Lat: 48.85, Lon: 2.35}, 5))
	require.NoError(t, err)

	radius := got.GetMust()[0].GetField().GetGeoRadius()
	require.NotNil(t, radius)
	assert.Equal(t, float32(5000), radius.GetRadius())
	assert.Equal(t, 48.85, radius.GetCenter().GetLat())
	assert.Equal(t, 2.35, radius.GetCenter().GetLon())

	got, err = Render(filter.NewWithinBBox("location", filter.Point{Lat: 40, Lon: -74}, filter.Point{Lat: 41, Lon: -73}))
	require.NoError(t, err)

	box := got.GetMust()[0].GetField().GetGeoBoundingBox()
	require.NotNil(t, box)
	assert.Equal(t, 41.0, box.GetTopLeft().GetLat())
	assert.Equal(t, -74.0, box.GetTopLeft().GetLon())
	assert.Equal(t, 40.0, box.GetBottomRight().GetLat())
	assert.Equal(t, -73.0, box.GetBottomRight().GetLon())
}

func TestRender_Combinators(t *testing.T) {
	f := filter.Or(
		filter.NewEq("title", filter.Text("go")),
		filter.And(filter.NewEq("title", filter.Text("rust")), filter.Not(filter.NewNotEmpty("tags"))),
	)

	got, err := Render(f)
	require.NoError(t, err)
	require.Len(t, got.GetShould(), 2)

	inner := got.GetShould()[1].GetFilter()
	require.Len(t, inner.GetMust(), 2)

	negated := inner.GetMust()[1].GetFilter().GetMustNot()
	require.Len(t, negated, 1)
	notEmpty := negated[0].GetFilter().GetMustNot()
	require.Len(t, notEmpty, 1)
	assert.Equal(t, "tags", notEmpty[0].GetIsEmpty().GetKey())
}

func TestRender_TopLevelNot(t *testing.T) {
	got, err := Render(filter.Not(filter.NewEq("title", filter.Text("go"))))
	require.NoError(t, err)
	require.Len(t, got.GetMustNot(), 1)
	assert.Empty(t, got.GetMust())
}

func TestRender_NestedScope(t *testing.T) {
	f := filter.WithScope(filter.NewEq("author.name", filter.Text("ann")), filter.ScopeNested)

	got, err := Render(f)
	require.NoError(t, err)

	nested := got.GetMust()[0].GetNested()
	require.NotNil(t, nested)
	assert.Equal(t, "author", nested.GetKey())
	assert.Equal(t, "name", nested.GetFilter().GetMust()[0].GetField().GetKey())
}

func TestRender_PrefixUnsupported(t *testing.T) {
	_, err := Render(filter.And(filter.NewEq("title", filter.Text("go")), filter.NewPrefix("title", "ru")))

	var kindErr *render.UnsupportedFilterKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, filter.KindPrefix, kindErr.Kind)
}

func TestRender_Nil(t *testing.T) {
	got, err := Render(nil)
	require.NoError(t, err)
	assert.Empty(t, got.GetMust())
	assert.Empty(t, got.GetShould())
}

func ptr(f float64) *float64 {
	return &f
}
