package datemath

import "time"

// TimeUnit is a calendar or clock unit used for rounding and arithmetic.
type TimeUnit int

const (
	UnitNone TimeUnit = iota
	Year
	Month
	Day
	Hour
	Minute
	Second
	Millisecond
)

// ParseUnit maps a unit token to its TimeUnit. Tokens are case-sensitive.
func ParseUnit(tok string) (TimeUnit, bool) {
	switch tok {
	case "YEAR", "YEARS":
		return Year, true
	case "MONTH", "MONTHS":
		return Month, true
	case "DAY", "DAYS", "DATE":
		return Day, true
	case "HOUR", "HOURS":
		return Hour, true
	case "MINUTE", "MINUTES":
		return Minute, true
	case "SECOND", "SECONDS":
		return Second, true
	case "MILLI", "MILLIS", "MILLISECOND", "MILLISECONDS":
		return Millisecond, true
	default:
		return UnitNone, false
	}
}

// String returns the canonical singular token.
func (u TimeUnit) String() string {
	switch u {
	case Year:
		return "YEAR"
	case Month:
		return "MONTH"
	case Day:
		return "DAY"
	case Hour:
		return "HOUR"
	case Minute:
		return "MINUTE"
	case Second:
		return "SECOND"
	case Millisecond:
		return "MILLISECOND"
	default:
		return ""
	}
}

// Plural returns the canonical plural token.
func (u TimeUnit) Plural() string {
	if u == UnitNone {
		return ""
	}
	return u.String() + "S"
}

// Estimate returns the nominal length of one unit. Calendar units use the
// average Gregorian year of 365.2425 days.
func (u TimeUnit) Estimate() time.Duration {
	switch u {
	case Year:
		return 31556952 * time.Second
	case Month:
		return 2629746 * time.Second
	case Day:
		return 24 * time.Hour
	case Hour:
		return time.Hour
	case Minute:
		return time.Minute
	case Second:
		return time.Second
	case Millisecond:
		return time.Millisecond
	default:
		return 0
	}
}

// Truncate rounds t down to the start of the unit in UTC.
func (u TimeUnit) Truncate(t time.Time) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch u {
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case Hour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, time.UTC)
	case Minute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.UTC)
	case Second:
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	case Millisecond:
		return t.Truncate(time.Millisecond)
	default:
		return t
	}
}

// AddTo adds n units to t. Year, month and day use calendar arithmetic.
func (u TimeUnit) AddTo(t time.Time, n int) time.Time {
	switch u {
	case Year:
		return t.AddDate(n, 0, 0)
	case Month:
		return t.AddDate(0, n, 0)
	case Day:
		return t.AddDate(0, 0, n)
	default:
		return t.Add(time.Duration(n) * u.Estimate())
	}
}
