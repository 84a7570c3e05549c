package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/filterql/internal/backend"
	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/query"
	"github.com/roach88/filterql/internal/resolve"
	"github.com/roach88/filterql/internal/schema"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Schema       string
	Strict       bool
	Now          string
	Backend      string
	ParentFilter string
}

// ParseResult is the payload of a successful parse.
type ParseResult struct {
	Filter   string   `json:"filter"`
	Key      string   `json:"key,omitempty"`
	Text     string   `json:"text"`
	Clauses  []string `json:"clauses"`
	Backend  string   `json:"backend,omitempty"`
	Rendered string   `json:"rendered,omitempty"`
}

func (r ParseResult) String() string {
	var b strings.Builder
	f := r.Filter
	if f == "" {
		f = "(none)"
	}
	fmt.Fprintf(&b, "filter: %s\n", f)
	fmt.Fprintf(&b, "text:   %q", r.Text)
	if r.Backend != "" {
		fmt.Fprintf(&b, "\n%s:\n%s", r.Backend, r.Rendered)
	}
	return b.String()
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a query into a filter",
		Long: `Parse a Lucene-style query against a field schema.

Prints the combined filter and the residual free text. With --backend, also
renders the filter for that backend.

Exit codes:
  0 - Query parsed
  1 - Syntax, binding or render error
  2 - Command error (missing or invalid schema, bad flags)

Examples:
  filterql parse --schema articles.cue 'title:go price:[* TO 10]'
  filterql parse --schema articles.cue --strict --backend sql 'created:[NOW-7DAYS TO *]'
  filterql parse --schema articles.cue --now 2024-03-15T10:30:45Z --format json 'rust'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", rootOpts.Env.Schema, "field schema file (.cue, .yaml) [$"+EnvSchema+"]")
	cmd.Flags().BoolVar(&opts.Strict, "strict", rootOpts.Env.Strict, "fail on clauses that do not bind [$"+EnvStrict+"]")
	cmd.Flags().StringVar(&opts.Now, "now", "", "reference instant for NOW (RFC 3339, default: current time)")
	cmd.Flags().StringVar(&opts.Backend, "backend", rootOpts.Env.Backend, "render for backend ("+strings.Join(backend.Names(), "|")+") [$"+EnvBackend+"]")
	cmd.Flags().StringVar(&opts.ParentFilter, "parent-filter", "", "Lucene parent query for nested fields")

	return cmd
}

func runParse(opts *ParseOptions, text string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.Logger().With("trace_id", out.TraceID)

	if opts.Schema == "" {
		return out.Fail(ExitCommandError, ErrCodeUsage, fmt.Errorf("schema is required (--schema or $%s)", EnvSchema))
	}
	registry, err := schema.Load(opts.Schema)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeSchema, err)
	}

	dates, err := dateParser(opts.Now)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeUsage, err)
	}

	p := query.NewParser(
		resolve.New(registry, resolve.WithDateParser(dates)),
		query.WithStrict(opts.Strict),
		query.WithLogger(logger),
	)

	q, err := p.Parse(text)
	if err != nil {
		return out.Fail(ExitFailure, parseErrorCode(err), err)
	}

	result := ParseResult{Text: q.Text, Clauses: []string{}}
	for _, c := range q.Clauses {
		result.Clauses = append(result.Clauses, c.Source)
	}
	f := q.Filter()
	if f != nil {
		result.Filter = f.String()
		result.Key = filter.Key(f)
	}

	if opts.Backend != "" {
		rendered, err := backend.Render(opts.Backend, f, backend.Options{ParentFilter: opts.ParentFilter})
		var unknown *backend.UnknownBackendError
		if errors.As(err, &unknown) {
			return out.Fail(ExitCommandError, ErrCodeUsage, err)
		}
		if err != nil {
			return out.Fail(ExitFailure, ErrCodeRender, err)
		}
		result.Backend = opts.Backend
		result.Rendered = rendered
	}

	logger.Info("query parsed",
		"schema", registry.Name(),
		"strict", opts.Strict,
		"clauses", len(result.Clauses),
		"backend", opts.Backend,
	)
	return out.Success(result)
}

// dateParser returns a date-math parser reading the system clock, or pinned
// to now when set.
func dateParser(now string) (*datemath.Parser, error) {
	if now == "" {
		return datemath.NewParser(), nil
	}
	t, err := time.Parse(time.RFC3339, now)
	if err != nil {
		return nil, fmt.Errorf("invalid --now: %w", err)
	}
	return datemath.NewParser(datemath.WithClock(datemath.ClockFunc(func() time.Time { return t }))), nil
}

func parseErrorCode(err error) string {
	var bindErr *query.BindingError
	switch {
	case errors.Is(err, query.ErrSyntax):
		return ErrCodeSyntax
	case errors.Is(err, datemath.ErrSyntax):
		return ErrCodeDateMath
	case errors.As(err, &bindErr):
		return ErrCodeBinding
	default:
		return ErrCodeGeneric
	}
}
