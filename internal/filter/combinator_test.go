package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	titleGo    = NewEq("title", Text("go"))
	titleRust  = NewEq("title", Text("rust"))
	priceAbove = NewGreaterThan("price", Number(10))
)

func TestAnd_Flattens(t *testing.T) {
	f := And(titleGo, And(titleRust, priceAbove))

	c, ok := f.(*Conjunction)
	require.True(t, ok)
	assert.Equal(t, []Filter{titleGo, titleRust, priceAbove}, c.Children())
}

func TestAnd_NormalizesSameFieldSiblings(t *testing.T) {
	f := And(And(NewEq("a", Text("1")), NewEq("b", Text("2"))), NewEq("b", Text("3")))

	c, ok := f.(*Conjunction)
	require.True(t, ok)
	assert.Len(t, c.Children(), 3)
	assert.Equal(t, `and(eq(a, "1"), eq(b, "2"), eq(b, "3"))`, c.String())
}

func TestAnd_DedupesKeepingFirstPosition(t *testing.T) {
	f := And(titleGo, priceAbove, NewEq("title", Text("go")))

	c, ok := f.(*Conjunction)
	require.True(t, ok)
	assert.Equal(t, []Filter{titleGo, priceAbove}, c.Children())
}

func TestAnd_Collapses(t *testing.T) {
	assert.Nil(t, And())
	assert.Nil(t, And(nil, nil))
	assert.Same(t, titleGo, And(titleGo))
	assert.Same(t, titleGo, And(titleGo, nil, NewEq("title", Text("go"))))
}

func TestOr_FlattensOnlyDisjunctions(t *testing.T) {
	inner := And(titleGo, priceAbove)
	f := Or(titleRust, Or(titleGo, inner))

	d, ok := f.(*Disjunction)
	require.True(t, ok)
	children := d.Children()
	require.Len(t, children, 3)
	assert.Same(t, titleRust, children[0])
	assert.Same(t, titleGo, children[1])
	assert.Equal(t, KindAnd, children[2].Kind())
}

func TestOr_Collapses(t *testing.T) {
	assert.Nil(t, Or())
	assert.Same(t, titleGo, Or(titleGo, titleGo))
}

func TestChildrenReturnsCopy(t *testing.T) {
	c := And(titleGo, titleRust).(*Conjunction)

	children := c.Children()
	children[0] = priceAbove

	assert.Same(t, titleGo, c.Children()[0])
}

func TestNot(t *testing.T) {
	assert.Nil(t, Not(nil))

	n := Not(titleGo)
	require.IsType(t, &Negation{}, n)
	assert.Same(t, titleGo, n.(*Negation).Child())

	assert.Same(t, titleGo, Not(Not(titleGo)))
}

func TestScopePropagation(t *testing.T) {
	nestedA := WithScope(NewEq("author", Text("ann")), ScopeNested)
	nestedB := WithScope(NewPrefix("author", "bo"), ScopeNested)

	tests := []struct {
		name string
		f    Filter
		want Scope
	}{
		{"constructor leaf", titleGo, ScopeParent},
		{"literal leaf", &Eq{Field: "title", Value: Text("go")}, ScopeNone},
		{"and of parents", And(titleGo, priceAbove), ScopeParent},
		{"or of nested", Or(nestedA, nestedB), ScopeNested},
		{"mixed", And(titleGo, nestedA), ScopeNone},
		{"not keeps child", Not(nestedA), ScopeNested},
		{"not of mixed", Not(Or(titleGo, nestedA)), ScopeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Scope())
		})
	}
}

func TestString(t *testing.T) {
	f := And(
		titleGo,
		Or(NewTerms("tags", Text("a"), Text("b")), Not(NewNotEmpty("author"))),
		NewBetween("price", Number(5), Number(10.5)),
		NewWithinCircle("location", Point{Lat: 48.85, Lon: 2.35}, 5),
	)

	assert.Equal(t,
		`and(eq(title, "go"), or(terms(tags, "a", "b"), not(notEmpty(author))), `+
			`between(price, 5, 10.5), circle(location, 48.85,2.35, 5km))`,
		f.String())
}

func TestField(t *testing.T) {
	assert.Equal(t, "title", Field(titleGo))
	assert.Equal(t, "location", Field(NewWithinBBox("location", Point{}, Point{Lat: 1, Lon: 1})))
	assert.Equal(t, "", Field(And(titleGo, priceAbove)))
}
