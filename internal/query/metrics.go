package query

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Clause outcomes recorded by Metrics.
const (
	OutcomeBound    = "bound"
	OutcomeDemoted  = "demoted"
	OutcomeRejected = "rejected"
)

// Parse results recorded by Metrics.
const (
	ResultOK           = "ok"
	ResultSyntaxError  = "syntax_error"
	ResultBindingError = "binding_error"
)

// Metrics exposes Prometheus counters for parse outcomes. A nil *Metrics
// records nothing.
//
//	filterql_query_parses_total{result="ok"}          12
//	filterql_query_clauses_total{outcome="demoted"}    3
//	filterql_query_parse_duration_seconds_bucket{le="0.001"} 12
type Metrics struct {
	parses   *prometheus.CounterVec
	clauses  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "filterql",
			Subsystem: "query",
			Name:      "parses_total",
			Help:      "Query parses by result.",
		}, []string{"result"}),
		clauses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "filterql",
			Subsystem: "query",
			Name:      "clauses_total",
			Help:      "Field clauses by binding outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "filterql",
			Subsystem: "query",
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing and binding a query.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.parses, m.clauses, m.duration)
	}
	return m
}

func (m *Metrics) parse(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.parses.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) clause(outcome string) {
	if m == nil {
		return
	}
	m.clauses.WithLabelValues(outcome).Inc()
}
