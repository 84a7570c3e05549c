package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/roach88/filterql/internal/backend"
	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/query"
	"github.com/roach88/filterql/internal/render"
	"github.com/roach88/filterql/internal/resolve"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/store"
	"github.com/roach88/filterql/internal/testutil"
)

// Harness executes the cases of one scenario.
type Harness struct {
	store      *store.Store
	collection *store.Collection
	lenient    *query.Parser
	strict     *query.Parser
	render     backend.Options
	logger     *slog.Logger
}

// Option configures a scenario run.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	metrics *query.Metrics
}

// WithLogger sets the logger for case progress and demoted clauses.
// Defaults to discarding.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records parse outcomes of every case.
func WithMetrics(m *query.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Load the schema and pin the clock
// 2. Create the collection and insert the documents
// 3. Parse every case, match and render its filter
// 4. Check each case against its expectations
//
// An error is returned only when the scenario cannot run at all. Failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := &config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}

	now, err := scenario.reference()
	if err != nil {
		return nil, err
	}
	dates := datemath.NewParser(datemath.WithClock(testutil.NewFixedClock(now)))

	registry, err := schema.Load(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	resolver := resolve.New(registry, resolve.WithDateParser(dates))
	h := &Harness{
		store:   st,
		lenient: query.NewParser(resolver, query.WithLogger(cfg.logger), query.WithMetrics(cfg.metrics)),
		strict:  query.NewParser(resolver, query.WithStrict(true), query.WithLogger(cfg.logger), query.WithMetrics(cfg.metrics)),
		render:  backend.Options{ParentFilter: scenario.ParentFilter},
		logger:  cfg.logger,
	}

	ctx := context.Background()

	if len(scenario.Documents) > 0 {
		if err := h.load(ctx, registry, dates, scenario.Documents); err != nil {
			return nil, fmt.Errorf("failed to load documents: %w", err)
		}
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		got, err := h.runCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		result.Cases = append(result.Cases, got)

		for _, failure := range checkCase(i, c, got) {
			result.AddError(failure.Error())
		}

		h.logger.Debug("case completed",
			"scenario", scenario.Name,
			"case", i,
			"query", c.Query,
			"filter", got.Filter,
		)
	}

	return result, nil
}

// load creates the collection and inserts every document.
func (h *Harness) load(ctx context.Context, registry *schema.MapRegistry, dates *datemath.Parser, docs []store.Document) error {
	coll, err := h.store.CreateCollection(ctx, registry, store.WithDateParser(dates))
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := coll.Insert(ctx, doc); err != nil {
			return err
		}
	}
	h.collection = coll
	return nil
}

// runCase parses one case and records what it produced. Parse errors are
// part of the outcome; only store failures are returned.
func (h *Harness) runCase(ctx context.Context, c Case) (CaseResult, error) {
	got := CaseResult{Query: c.Query, Strict: c.Strict}

	p := h.lenient
	if c.Strict {
		p = h.strict
	}

	q, err := p.Parse(c.Query)
	if err != nil {
		got.Error = err.Error()
		return got, nil
	}

	f := q.Filter()
	if f != nil {
		got.Filter = f.String()
	}
	got.Text = q.Text

	if h.collection != nil {
		ids, err := h.collection.Match(ctx, f)
		var kindErr *render.UnsupportedFilterKindError
		switch {
		case err == nil:
			got.Matches = ids
		case errors.As(err, &kindErr):
			got.MatchError = err.Error()
		default:
			return got, err
		}
	}

	if len(c.Expect.Render) > 0 {
		names := make([]string, 0, len(c.Expect.Render))
		for name := range c.Expect.Render {
			names = append(names, name)
		}
		sort.Strings(names)

		got.Rendered = make(map[string]string, len(names))
		for _, name := range names {
			out, err := backend.Render(name, f, h.render)
			if err != nil {
				out = err.Error()
			}
			got.Rendered[name] = out
		}
	}

	return got, nil
}
