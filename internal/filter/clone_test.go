package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/datemath"
)

func TestClone_Independent(t *testing.T) {
	orig := NewTerms("tags", Text("a"), Text("b"))
	tree := And(orig, priceAbove)

	cloned := Clone(tree)
	require.True(t, Equal(tree, cloned))

	terms := cloned.(*Conjunction).Children()[0].(*Terms)
	assert.NotSame(t, orig, terms)
	terms.Values[0] = Text("z")

	assert.Equal(t, Text("a"), orig.Values[0])
}

func TestClone_Nil(t *testing.T) {
	assert.Nil(t, Clone(nil))
}

func TestClone_PreservesScope(t *testing.T) {
	nested := WithScope(NewEq("author", Text("ann")), ScopeNested)
	cloned := Clone(Not(nested))

	assert.Equal(t, ScopeNested, cloned.Scope())
}

func TestWithNow(t *testing.T) {
	parsedAt := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	later := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	from := NewDate(datemath.Now(parsedAt).RoundTo(datemath.Day).Minus(7, datemath.Day))
	to := NewDate(datemath.Now(parsedAt).RoundTo(datemath.Day))
	fixed := DateAt(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))

	tree := Or(NewBetween("created", from, to), NewBefore("created", fixed))
	rebound := WithNow(tree, later)

	children := rebound.(*Disjunction).Children()
	between := children[0].(*Between)
	assert.Equal(t, time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC), between.From.(Date).Time())
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), between.To.(Date).Time())
	assert.Equal(t, fixed.Time(), children[1].(*Before).Value.(Date).Time())

	orig := tree.(*Disjunction).Children()[0].(*Between)
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), orig.From.(Date).Time())

	assert.True(t, Equal(tree, rebound))
}

func TestWithScope(t *testing.T) {
	tree := And(NewEq("author", Text("ann")), Not(NewPrefix("author", "bo")))

	nested := WithScope(tree, ScopeNested)
	assert.Equal(t, ScopeNested, nested.Scope())
	for _, c := range nested.(*Conjunction).Children() {
		assert.Equal(t, ScopeNested, c.Scope())
	}

	assert.Equal(t, ScopeParent, tree.Scope())
}

func TestWithScope_MergesNewDuplicates(t *testing.T) {
	a := NewEq("author", Text("ann"))
	b := WithScope(NewEq("author", Text("ann")), ScopeNested)

	tree := Or(a, b)
	require.Equal(t, KindOr, tree.Kind())

	assert.Equal(t, KindEq, WithScope(tree, ScopeParent).Kind())
}
