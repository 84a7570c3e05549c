package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/query"
	"github.com/roach88/filterql/internal/store"
)

const articlesSchema = "testdata/schemas/articles.yaml"

func ptr(s string) *string { return &s }

func TestScenarios(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "failures:\n%v", result.Errors)
		})
	}
}

func TestRun_WithoutDocuments(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_documents",
		Description: "Parsing only",
		Schema:      articlesSchema,
		Cases: []Case{
			{Query: "title:go", Expect: Expect{Filter: ptr(`eq(title, "go")`)}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "%v", result.Errors)
	require.Len(t, result.Cases, 1)
	assert.Nil(t, result.Cases[0].Matches)
	assert.Empty(t, result.Cases[0].MatchError)
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "Every expectation is wrong",
		Schema:      articlesSchema,
		Documents: []store.Document{
			{ID: "a1", Fields: map[string]string{"title": "go"}},
		},
		Cases: []Case{
			{Query: "title:go", Expect: Expect{
				Filter:  ptr(`eq(title, "rust")`),
				Text:    ptr("extra"),
				Matches: []string{},
				Render:  map[string]string{"lucene": "title:rust"},
			}},
			{Query: "title:go", Expect: Expect{Error: "boom"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], `case 0 "title:go": filter`)
	assert.Contains(t, result.Errors[1], "text")
	assert.Contains(t, result.Errors[2], "Expected: []")
	assert.Contains(t, result.Errors[2], "Actual: [a1]")
	assert.Contains(t, result.Errors[3], "render lucene")
	assert.Contains(t, result.Errors[4], "Actual: no error")
}

func TestRun_PinnedNow(t *testing.T) {
	scenario := &Scenario{
		Name:        "pinned_now",
		Description: "NOW resolves against the scenario's reference instant",
		Schema:      articlesSchema,
		Now:         "2020-01-01T00:00:00Z",
		Documents: []store.Document{
			{ID: "old", Fields: map[string]string{"created": "NOW-1YEAR"}},
			{ID: "recent", Fields: map[string]string{"created": "NOW-1DAY"}},
		},
		Cases: []Case{
			{Query: "created:[2019-12-01 TO *]", Expect: Expect{
				Filter:  ptr("after(created, 2019-12-01T00:00:00Z)"),
				Matches: []string{"recent"},
			}},
			{Query: "created:[NOW-1MONTH TO *]", Expect: Expect{Matches: []string{"recent"}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "%v", result.Errors)
}

func TestRun_UnsupportedMatchIsReported(t *testing.T) {
	scenario := &Scenario{
		Name:        "circle",
		Description: "Circles cannot run on SQLite",
		Schema:      articlesSchema,
		Documents:   []store.Document{{ID: "a1", Fields: map[string]string{"location": "1,1"}}},
		Cases: []Case{
			{Query: "location:1,1~5km", Expect: Expect{Matches: []string{"a1"}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Cases[0].MatchError, "unsupported filter kind circle")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "SQLite has no distance function")
}

func TestRun_BadDocumentFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_document",
		Description: "Documents must match the schema",
		Schema:      articlesSchema,
		Documents:   []store.Document{{ID: "a1", Fields: map[string]string{"price": "cheap"}}},
		Cases:       []Case{{Query: "price:1", Expect: Expect{Matches: []string{}}}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load documents")
}

func TestRun_MissingSchemaFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "missing_schema",
		Description: "Schema must load",
		Schema:      "testdata/schemas/nope.yaml",
		Cases:       []Case{{Query: "title:go", Expect: Expect{Text: ptr("")}}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestRun_LogsCases(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	scenario := &Scenario{
		Name:        "logged",
		Description: "Debug logging",
		Schema:      articlesSchema,
		Cases:       []Case{{Query: "titel:go", Expect: Expect{Text: ptr("titel:go")}}},
	}

	_, err := Run(scenario, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "demoting clause to free text")
	assert.Contains(t, buf.String(), "case completed")
	assert.Contains(t, buf.String(), "scenario=logged")
}

func TestRun_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := query.NewMetrics(reg)

	scenario := &Scenario{
		Name:        "metered",
		Description: "Parse metrics",
		Schema:      articlesSchema,
		Cases: []Case{
			{Query: "title:go", Expect: Expect{Text: ptr("")}},
			{Query: `title:"go`, Expect: Expect{Error: "unterminated"}},
		},
	}

	_, err := Run(scenario, WithMetrics(m))
	require.NoError(t, err)

	count, err := promtest.GatherAndCount(reg, "filterql_query_parses_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
