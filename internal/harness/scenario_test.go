package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes body next to a copy of the articles schema and
// returns the scenario path.
func writeScenario(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	schema, err := os.ReadFile(articlesSchema)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "articles.yaml"), schema, 0o644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
name: basic
description: "A basic scenario"
schema: articles.yaml
now: "2024-01-01T00:00:00Z"
documents:
  - id: a1
    fields: { title: go }
cases:
  - query: "title:go"
    expect:
      filter: 'eq(title, "go")'
      matches: [a1]
  - query: "x"
    strict: true
    expect:
      text: ""
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "articles.yaml"), s.Schema)
	assert.Equal(t, "2024-01-01T00:00:00Z", s.Now)
	require.Len(t, s.Documents, 1)
	assert.Equal(t, "go", s.Documents[0].Fields["title"])
	require.Len(t, s.Cases, 2)
	require.NotNil(t, s.Cases[0].Expect.Filter)
	assert.Equal(t, `eq(title, "go")`, *s.Cases[0].Expect.Filter)
	assert.Equal(t, []string{"a1"}, s.Cases[0].Expect.Matches)
	assert.Nil(t, s.Cases[0].Expect.Text)
	assert.True(t, s.Cases[1].Strict)
	require.NotNil(t, s.Cases[1].Expect.Text)
	assert.Empty(t, *s.Cases[1].Expect.Text)
}

func TestLoadScenario_EmptyMatchesIsChecked(t *testing.T) {
	path := writeScenario(t, `
name: empty_matches
description: "matches: [] means no document"
schema: articles.yaml
documents:
  - id: a1
    fields: { title: go }
cases:
  - query: "title:rust"
    expect:
      matches: []
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.NotNil(t, s.Cases[0].Expect.Matches)
	assert.Empty(t, s.Cases[0].Expect.Matches)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown field",
			body:    "name: x\ndescription: d\nschema: articles.yaml\ncase: []\n",
			wantErr: "field case not found",
		},
		{
			name:    "missing name",
			body:    "description: d\nschema: articles.yaml\ncases: [{query: a, expect: {text: a}}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			body:    "name: x\nschema: articles.yaml\ncases: [{query: a, expect: {text: a}}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing schema",
			body:    "name: x\ndescription: d\ncases: [{query: a, expect: {text: a}}]\n",
			wantErr: "schema is required",
		},
		{
			name:    "schema not found",
			body:    "name: x\ndescription: d\nschema: nope.cue\ncases: [{query: a, expect: {text: a}}]\n",
			wantErr: "schema file not found",
		},
		{
			name:    "bad now",
			body:    "name: x\ndescription: d\nschema: articles.yaml\nnow: yesterday\ncases: [{query: a, expect: {text: a}}]\n",
			wantErr: "now:",
		},
		{
			name:    "no cases",
			body:    "name: x\ndescription: d\nschema: articles.yaml\n",
			wantErr: "cases list is required",
		},
		{
			name:    "empty expect",
			body:    "name: x\ndescription: d\nschema: articles.yaml\ncases: [{query: a}]\n",
			wantErr: "cases[0]: expect needs at least one",
		},
		{
			name:    "error with other checks",
			body:    "name: x\ndescription: d\nschema: articles.yaml\ncases: [{query: a, expect: {error: e, text: a}}]\n",
			wantErr: "error cannot be combined",
		},
		{
			name:    "matches without documents",
			body:    "name: x\ndescription: d\nschema: articles.yaml\ncases: [{query: a, expect: {matches: [a1]}}]\n",
			wantErr: "matches requires documents",
		},
		{
			name:    "unknown backend",
			body:    "name: x\ndescription: d\nschema: articles.yaml\ncases: [{query: a, expect: {render: {solr: a}}}]\n",
			wantErr: `unknown backend "solr"`,
		},
		{
			name:    "document without id",
			body:    "name: x\ndescription: d\nschema: articles.yaml\ndocuments: [{fields: {title: a}}]\ncases: [{query: a, expect: {text: a}}]\n",
			wantErr: "documents[0]: id is required",
		},
		{
			name:    "duplicate document",
			body:    "name: x\ndescription: d\nschema: articles.yaml\ndocuments: [{id: a}, {id: a}]\ncases: [{query: a, expect: {text: a}}]\n",
			wantErr: `documents[1]: duplicate id "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadDir(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)
	assert.Equal(t, "articles", scenarios[0].Name)
}

func TestLoadDir_Empty(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDir(dir)
	var notFound *ScenarioNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, dir, notFound.Dir)
}
