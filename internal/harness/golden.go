package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/filterql/internal/filter"
)

// Snapshot is the golden form of a scenario run: every case outcome,
// without the pass/fail verdict.
type Snapshot struct {
	ScenarioName string
	Cases        []CaseResult
}

// toCanonicalMap converts a Snapshot to the shapes filter.MarshalCanonical
// accepts: strings, bools, lists and maps.
func (s *Snapshot) toCanonicalMap() map[string]any {
	cases := make([]any, len(s.Cases))
	for i, c := range s.Cases {
		m := map[string]any{
			"query":  c.Query,
			"strict": c.Strict,
		}
		if c.Error != "" {
			m["error"] = c.Error
			cases[i] = m
			continue
		}
		m["filter"] = c.Filter
		m["text"] = c.Text
		if c.Matches != nil {
			ids := make([]any, len(c.Matches))
			for j, id := range c.Matches {
				ids[j] = id
			}
			m["matches"] = ids
		}
		if c.MatchError != "" {
			m["match_error"] = c.MatchError
		}
		if len(c.Rendered) > 0 {
			rendered := make(map[string]any, len(c.Rendered))
			for name, out := range c.Rendered {
				rendered[name] = out
			}
			m["rendered"] = rendered
		}
		cases[i] = m
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"cases":         cases,
	}
}

// RunWithGolden executes a scenario and compares its case outcomes against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also assert on Pass. The golden
// comparison fails the test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{ScenarioName: scenarioName, Cases: result.Cases}
	data, err := filter.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
