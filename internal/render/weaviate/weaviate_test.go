package weaviate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render"
)

func operators(w *models.WhereFilter) []string {
	ops := make([]string, len(w.Operands))
	for i, o := range w.Operands {
		ops[i] = o.Operator
	}
	return ops
}

func TestBuild_Leaves(t *testing.T) {
	tests := []struct {
		name string
		f    filter.Filter
		op   string
	}{
		{"eq", filter.NewEq("title", filter.Text("go")), "Equal"},
		{"prefix", filter.NewPrefix("title", "ru"), "Like"},
		{"gt", filter.NewGreaterThan("price", filter.Number(10)), "GreaterThanEqual"},
		{"lt", filter.NewLesserThan("price", filter.Number(10)), "LessThanEqual"},
		{"not empty", filter.NewNotEmpty("title"), "IsNull"},
		{"circle", filter.NewWithinCircle("location", filter.Point{Lat: 1, Lon: 2}, 3), "WithinGeoRange"},
		{"not eq", filter.Not(filter.NewEq("title", filter.Text("go"))), "NotEqual"},
		{"not gt", filter.Not(filter.NewGreaterThan("price", filter.Number(10))), "LessThan"},
		{"not lt", filter.Not(filter.NewLesserThan("price", filter.Number(10))), "GreaterThan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Build(tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.op, w.Operator)
			assert.Len(t, w.Path, 1)
		})
	}
}

func TestBuild_Values(t *testing.T) {
	w, err := Build(filter.NewEq("title", filter.Text("go")))
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, w.Path)

	w, err = Build(filter.NewPrefix("title", "ru"))
	require.NoError(t, err)
	require.NotNil(t, w.ValueText)
	assert.Equal(t, "ru*", *w.ValueText)

	w, err = Build(filter.NewEq("price", filter.Number(6.7)))
	require.NoError(t, err)
	require.NotNil(t, w.ValueNumber)
	assert.Equal(t, 6.7, *w.ValueNumber)

	w, err = Build(filter.Not(filter.NewNotEmpty("title")))
	require.NoError(t, err)
	require.NotNil(t, w.ValueBoolean)
	assert.True(t, *w.ValueBoolean)
}

func TestBuild_PushesNegationDown(t *testing.T) {
	tests := []struct {
		name     string
		f        filter.Filter
		op       string
		operands []string
	}{
		{"between", filter.NewBetween("price", filter.Number(5), filter.Number(10)),
			"And", []string{"GreaterThanEqual", "LessThanEqual"}},
		{"not between", filter.Not(filter.NewBetween("price", filter.Number(5), filter.Number(10))),
			"Or", []string{"LessThan", "GreaterThan"}},
		{"terms", filter.NewTerms("tags", filter.Text("a"), filter.Text("b")),
			"Or", []string{"Equal", "Equal"}},
		{"not terms", filter.Not(filter.NewTerms("tags", filter.Text("a"), filter.Text("b"))),
			"And", []string{"NotEqual", "NotEqual"}},
		{"not and", filter.Not(filter.And(filter.NewEq("title", filter.Text("go")), filter.NewNotEmpty("tags"))),
			"Or", []string{"NotEqual", "IsNull"}},
		{"not or", filter.Not(filter.Or(filter.NewEq("title", filter.Text("go")), filter.NewEq("title", filter.Text("rust")))),
			"And", []string{"NotEqual", "NotEqual"}},
		{"double negation", filter.Not(filter.Or(filter.NewEq("title", filter.Text("go")), filter.Not(filter.NewEq("title", filter.Text("rust"))))),
			"And", []string{"NotEqual", "Equal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Build(tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.op, w.Operator)
			assert.Equal(t, tt.operands, operators(w))
		})
	}
}

func TestBuild_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		f    filter.Filter
		kind filter.Kind
	}{
		{"bbox", filter.NewWithinBBox("location", filter.Point{Lat: 0, Lon: 0}, filter.Point{Lat: 1, Lon: 1}), filter.KindWithinBBox},
		{"negated prefix", filter.Not(filter.NewPrefix("title", "ru")), filter.KindPrefix},
		{"negated circle", filter.Not(filter.NewWithinCircle("location", filter.Point{Lat: 0, Lon: 0}, 1)), filter.KindWithinCircle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.f)
			var kindErr *render.UnsupportedFilterKindError
			require.ErrorAs(t, err, &kindErr)
			assert.Equal(t, tt.kind, kindErr.Kind)
			assert.Equal(t, "weaviate", kindErr.Backend)
		})
	}
}

func TestBuild_Nil(t *testing.T) {
	w, err := Build(nil)
	require.NoError(t, err)
	assert.Nil(t, w)
}
