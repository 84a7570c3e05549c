package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/datemath"
)

func TestCanonical_Leaf(t *testing.T) {
	got, err := Canonical(NewEq("title", Text("go")))
	require.NoError(t, err)
	assert.Equal(t,
		`{"field":"title","kind":"eq","scope":"parent","value":{"type":"text","value":"go"}}`,
		string(got))
}

func TestCanonical_Combinator(t *testing.T) {
	got, err := Canonical(Not(NewNotEmpty("tags")))
	require.NoError(t, err)
	assert.Equal(t,
		`{"child":{"field":"tags","kind":"notEmpty","scope":"parent"},"kind":"not","scope":"parent"}`,
		string(got))
}

func TestCanonical_NilFails(t *testing.T) {
	_, err := Canonical(nil)
	require.Error(t, err)
}

func TestKey_Deterministic(t *testing.T) {
	f := And(NewEq("title", Text("go")), NewBetween("price", Number(1), Number(2)))

	k1 := Key(f)
	k2 := Key(Clone(f))

	assert.Len(t, k1, 64)
	assert.Equal(t, k1, k2)
	assert.Equal(t, "", Key(nil))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Filter
		want bool
	}{
		{"same leaf", NewEq("title", Text("go")), NewEq("title", Text("go")), true},
		{"different value", NewEq("title", Text("go")), NewEq("title", Text("Go")), false},
		{"different field", NewEq("title", Text("go")), NewEq("body", Text("go")), false},
		{"text vs number", NewEq("n", Text("5")), NewEq("n", Number(5)), false},
		{"different scope", NewEq("a", Text("x")), WithScope(NewEq("a", Text("x")), ScopeNested), false},
		{"nfc normalised", NewEq("name", Text("e\u0301")), NewEq("name", Text("\u00e9")), true},
		{"and order matters", And(titleGo, priceAbove), And(priceAbove, titleGo), false},
		{"both nil", nil, nil, true},
		{"nil vs leaf", nil, titleGo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestKey_RelativeDatesIgnoreNow(t *testing.T) {
	a := datemath.Now(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).RoundTo(datemath.Day)
	b := datemath.Now(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)).RoundTo(datemath.Day)

	assert.True(t, Equal(NewAfter("created", NewDate(a)), NewAfter("created", NewDate(b))))
}

func TestKey_DomainSeparated(t *testing.T) {
	canonical, err := Canonical(titleGo)
	require.NoError(t, err)

	assert.Equal(t, hashWithDomain(DomainFilter, canonical), Key(titleGo))
	assert.NotEqual(t, hashWithDomain("other/v1", canonical), Key(titleGo))
}

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"no html escaping", "<a&b>", `"<a&b>"`},
		{"control chars", "a\nb\u0001", `"a\nb\u0001"`},
		{"line separator kept", "a\u2028b", "\"a\u2028b\""},
		{"quote and backslash", `"\`, `"\"\\"`},
		{"sorted keys", map[string]any{"b": true, "a": false}, `{"a":false,"b":true}`},
		{"array", []any{"x", true}, `["x",true]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	for _, in := range []any{nil, 1.5, 3, map[string]any{"a": nil}} {
		_, err := MarshalCanonical(in)
		assert.Error(t, err, "%v", in)
	}
}

func TestCompareKeysRFC8785(t *testing.T) {
	// U+1F600 sorts after U+FB01 in UTF-8 but before it in UTF-16.
	assert.Equal(t, -1, compareKeysRFC8785("\U0001F600", "\uFB01"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "ab"))
	assert.Equal(t, 0, compareKeysRFC8785("same", "same"))
}
