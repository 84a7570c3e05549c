package query

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/filterql/internal/ast"
	"github.com/roach88/filterql/internal/datemath"
	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/resolve"
)

// Query is the result of parsing a text query.
type Query struct {
	// Clauses are the field clauses that bound successfully, in order.
	Clauses []*ast.Clause

	// Filters holds the filter of each entry in Clauses.
	Filters []filter.Filter

	// Text is the residual free text: field-less terms and, in lenient
	// mode, the source of demoted clauses, joined by single spaces.
	Text string
}

// Filter returns the conjunction of all clause filters, nil when the query
// has none.
func (q *Query) Filter() filter.Filter {
	return filter.And(q.Filters...)
}

// Parser parses text queries and binds their clauses through a resolver.
// Its configuration is fixed at construction, so a Parser is safe for
// concurrent use.
type Parser struct {
	resolver *resolve.Resolver
	strict   bool
	logger   *slog.Logger
	metrics  *Metrics
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrict makes binding failures abort the parse instead of demoting the
// failing clause to free text.
func WithStrict(strict bool) Option {
	return func(p *Parser) {
		p.strict = strict
	}
}

// WithLogger sets the logger used to report demoted clauses at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records parse outcomes.
func WithMetrics(m *Metrics) Option {
	return func(p *Parser) {
		p.metrics = m
	}
}

// NewParser creates a lenient Parser binding through resolver.
func NewParser(resolver *resolve.Resolver, opts ...Option) *Parser {
	p := &Parser{
		resolver: resolver,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Strict reports whether the parser runs in strict mode.
func (p *Parser) Strict() bool {
	return p.strict
}

// Parse parses text into bound clauses and residual free text.
//
// The text is NFC-normalised first. Syntax errors (*SyntaxError) always
// abort. A clause that fails to bind aborts with *BindingError in strict
// mode; in lenient mode its source is appended to Query.Text, except for
// date-math syntax errors, which abort in both modes.
func (p *Parser) Parse(text string) (*Query, error) {
	started := time.Now()
	src := norm.NFC.String(text)

	toks, err := NewLexer(src).Tokenize()
	if err != nil {
		p.metrics.parse(ResultSyntaxError, time.Since(started))
		return nil, err
	}
	clauses, err := parseClauses(src, toks)
	if err != nil {
		p.metrics.parse(ResultSyntaxError, time.Since(started))
		return nil, err
	}

	q := &Query{}
	var residual []string
	for _, c := range clauses {
		if c.Fieldless() {
			residual = append(residual, c.Source)
			continue
		}

		f, err := p.resolver.ResolveClause(c)
		if err != nil {
			if p.strict || errors.Is(err, datemath.ErrSyntax) {
				p.metrics.clause(OutcomeRejected)
				p.metrics.parse(ResultBindingError, time.Since(started))
				return nil, &BindingError{Clause: c.Source, Err: err}
			}
			p.logger.Debug("demoting clause to free text",
				"clause", c.Source,
				"error", err,
			)
			p.metrics.clause(OutcomeDemoted)
			residual = append(residual, c.Source)
			continue
		}

		p.metrics.clause(OutcomeBound)
		q.Clauses = append(q.Clauses, c)
		q.Filters = append(q.Filters, f)
	}
	q.Text = strings.Join(residual, " ")

	p.metrics.parse(ResultOK, time.Since(started))
	return q, nil
}
