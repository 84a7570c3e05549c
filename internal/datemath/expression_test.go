package datemath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpression_Builders(t *testing.T) {
	e := Now(refNow).RoundTo(Day).Minus(14, Day)

	assert.True(t, e.IsRelative())
	assert.Equal(t, "NOW/DAY-14DAYS", e.String())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), e.Time())

	abs := At(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)).Plus(1, Month)
	assert.False(t, abs.IsRelative())
	assert.Equal(t, "2015-01-01T00:00:00Z+1MONTH", abs.String())
}

func TestExpression_BuildersDoNotMutate(t *testing.T) {
	base := Now(refNow)
	derived := base.Plus(1, Day)

	assert.Equal(t, "NOW", base.String())
	assert.Equal(t, "NOW+1DAY", derived.String())
	assert.Empty(t, base.Ops())
}

func TestExpression_OpsReturnsCopy(t *testing.T) {
	e := Now(refNow).Plus(1, Day)

	ops := e.Ops()
	ops[0].Quantity = 99

	assert.Equal(t, "NOW+1DAY", e.String())
}

func TestExpression_WithNow(t *testing.T) {
	p, _ := newTestParser()
	e, err := p.ParseMath("NOW/DAY+1DAY")
	require.NoError(t, err)

	later := time.Date(2030, 12, 31, 23, 0, 0, 0, time.UTC)
	rebound := e.WithNow(later)

	assert.Equal(t, time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC), rebound.Time())
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), e.Time())
	assert.Equal(t, e.String(), rebound.String())
}

func TestExpression_WithNowIgnoredForAbsoluteRoot(t *testing.T) {
	p, _ := newTestParser()
	e, err := p.ParseMath("2015-01-01T00:00:00Z+1DAY")
	require.NoError(t, err)

	assert.Equal(t, e.Time(), e.WithNow(time.Now()).Time())
}

func TestExpression_MarshalText(t *testing.T) {
	b, err := Now(refNow).RoundTo(Month).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "NOW/MONTH", string(b))
}

func TestTimeUnit_Truncate(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 45, 123_456_789, time.UTC)

	tests := []struct {
		unit TimeUnit
		want time.Time
	}{
		{Year, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Month, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Day, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{Hour, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		{Minute, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{Second, time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)},
		{Millisecond, time.Date(2024, 3, 15, 10, 30, 45, 123_000_000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.unit.Truncate(ts))
		})
	}
}

func TestParseUnit(t *testing.T) {
	for tok, want := range map[string]TimeUnit{
		"YEAR": Year, "YEARS": Year,
		"MONTH": Month, "MONTHS": Month,
		"DAY": Day, "DAYS": Day, "DATE": Day,
		"HOUR": Hour, "HOURS": Hour,
		"MINUTE": Minute, "MINUTES": Minute,
		"SECOND": Second, "SECONDS": Second,
		"MILLI": Millisecond, "MILLIS": Millisecond,
		"MILLISECOND": Millisecond, "MILLISECONDS": Millisecond,
	} {
		got, ok := ParseUnit(tok)
		assert.True(t, ok, tok)
		assert.Equal(t, want, got, tok)
	}

	for _, tok := range []string{"", "day", "WEEK", "WEEKS", "D"} {
		_, ok := ParseUnit(tok)
		assert.False(t, ok, tok)
	}
}
