package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/filterql/internal/backend"
	"github.com/roach88/filterql/internal/store"
)

// Scenario defines a query conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the path of the CUE or YAML field schema.
	// Relative paths are resolved against the scenario file location.
	Schema string `yaml:"schema"`

	// Now is the RFC 3339 reference instant for date math. Defaults to
	// testutil.DefaultNow.
	Now string `yaml:"now,omitempty"`

	// ParentFilter is passed to the Lucene renderer for nested-scope leaves.
	ParentFilter string `yaml:"parent_filter,omitempty"`

	// Documents are inserted into a collection named after the schema
	// before any case runs.
	Documents []store.Document `yaml:"documents,omitempty"`

	// Cases are the queries to parse, in order.
	Cases []Case `yaml:"cases"`
}

// Case is one query and what parsing it must produce.
type Case struct {
	Query  string `yaml:"query"`
	Strict bool   `yaml:"strict,omitempty"`
	Expect Expect `yaml:"expect"`
}

// Expect lists the checks of a case. Nil fields are not checked.
type Expect struct {
	Filter  *string           `yaml:"filter,omitempty"`
	Text    *string           `yaml:"text,omitempty"`
	Error   string            `yaml:"error,omitempty"`
	Matches []string          `yaml:"matches,omitempty"`
	Render  map[string]string `yaml:"render,omitempty"`
}

// ScenarioNotFoundError is returned when a scenario directory holds no
// scenario files.
type ScenarioNotFoundError struct {
	Dir string
}

func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("no scenario files (*.yaml, *.yml) in %s", e.Dir)
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "case:" vs "cases:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the schema path relative to the scenario BEFORE validation.
	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
// Subdirectories are not searched.
func LoadDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("list scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, &ScenarioNotFoundError{Dir: dir}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// reference returns the parsed Now, or the zero time when unset.
func (s *Scenario) reference() (time.Time, error) {
	if s.Now == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("now: %w", err)
	}
	return t, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", s.Schema)
	}

	if _, err := s.reference(); err != nil {
		return err
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Documents))
	for i, doc := range s.Documents {
		if doc.ID == "" {
			return fmt.Errorf("documents[%d]: id is required", i)
		}
		if seen[doc.ID] {
			return fmt.Errorf("documents[%d]: duplicate id %q", i, doc.ID)
		}
		seen[doc.ID] = true
	}

	for i, c := range s.Cases {
		if err := validateCase(i, &c, len(s.Documents) > 0); err != nil {
			return err
		}
	}

	return nil
}

// validateCase validates the expectations of a single case.
func validateCase(index int, c *Case, hasDocuments bool) error {
	e := c.Expect
	if e.Error != "" {
		if e.Filter != nil || e.Text != nil || e.Matches != nil || e.Render != nil {
			return fmt.Errorf("cases[%d]: error cannot be combined with other expectations", index)
		}
		return nil
	}

	if e.Filter == nil && e.Text == nil && e.Matches == nil && len(e.Render) == 0 {
		return fmt.Errorf("cases[%d]: expect needs at least one of filter, text, error, matches, render", index)
	}

	if e.Matches != nil && !hasDocuments {
		return fmt.Errorf("cases[%d]: matches requires documents", index)
	}

	for name := range e.Render {
		if !slices.Contains(backend.Names(), name) {
			return fmt.Errorf("cases[%d]: %w", index, &backend.UnknownBackendError{Name: name})
		}
	}

	return nil
}
