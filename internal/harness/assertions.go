package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Check names.
const (
	CheckError   = "error"
	CheckFilter  = "filter"
	CheckText    = "text"
	CheckMatches = "matches"
	CheckRender  = "render"
)

// AssertionError is a failed expectation of one case.
type AssertionError struct {
	Case     int
	Query    string
	Check    string // Check name, with the backend for render checks
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "case %d %q: %s\n", e.Case, e.Query, e.Check)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// checkCase compares an observed outcome with the case's expectations and
// returns every mismatch.
func checkCase(index int, c Case, got CaseResult) []*AssertionError {
	fail := func(check, expected, actual string) *AssertionError {
		return &AssertionError{Case: index, Query: c.Query, Check: check, Expected: expected, Actual: actual}
	}

	e := c.Expect
	if e.Error != "" {
		if got.Error == "" {
			return []*AssertionError{fail(CheckError, "error containing "+quote(e.Error), "no error")}
		}
		if !strings.Contains(got.Error, e.Error) {
			return []*AssertionError{fail(CheckError, "error containing "+quote(e.Error), quote(got.Error))}
		}
		return nil
	}
	if got.Error != "" {
		return []*AssertionError{fail(CheckError, "no error", quote(got.Error))}
	}

	var failures []*AssertionError
	if e.Filter != nil && *e.Filter != got.Filter {
		failures = append(failures, fail(CheckFilter, quote(*e.Filter), quote(got.Filter)))
	}
	if e.Text != nil && *e.Text != got.Text {
		failures = append(failures, fail(CheckText, quote(*e.Text), quote(got.Text)))
	}
	if e.Matches != nil {
		switch {
		case got.MatchError != "":
			failures = append(failures, fail(CheckMatches, formatIDs(e.Matches), got.MatchError))
		case !slices.Equal(sortedIDs(e.Matches), got.Matches):
			failures = append(failures, fail(CheckMatches, formatIDs(e.Matches), formatIDs(got.Matches)))
		}
	}

	names := make([]string, 0, len(e.Render))
	for name := range e.Render {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if want, actual := e.Render[name], got.Rendered[name]; want != actual {
			failures = append(failures, fail(CheckRender+" "+name, quote(want), quote(actual)))
		}
	}

	return failures
}

// sortedIDs orders ids the way the store returns them.
func sortedIDs(ids []string) []string {
	out := slices.Clone(ids)
	sort.Strings(out)
	return out
}

func formatIDs(ids []string) string {
	return "[" + strings.Join(ids, ", ") + "]"
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
