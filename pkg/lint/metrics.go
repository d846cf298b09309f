package lint

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records rule activity on a private Prometheus registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// findingsTotal counts findings by rule and severity.
	findingsTotal *prometheus.CounterVec

	// setupErrorsTotal counts rules that could not run (errors, panics, timeouts).
	setupErrorsTotal *prometheus.CounterVec

	// ruleDuration tracks how long each rule takes, in seconds.
	ruleDuration *prometheus.HistogramVec

	// documentsTotal counts validated documents by outcome ("pass" or "fail").
	documentsTotal *prometheus.CounterVec
}

// NewMetrics creates metrics backed by a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		findingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modcheck_findings_total",
			Help: "The total number of findings emitted, by rule and severity",
		}, []string{"rule", "severity"}),
		setupErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modcheck_rule_setup_errors_total",
			Help: "The total number of rule runs that failed before producing findings",
		}, []string{"rule"}),
		ruleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "modcheck_rule_duration_seconds",
			Help:    "Time spent running a single rule",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"rule"}),
		documentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modcheck_documents_total",
			Help: "The total number of documents validated, by outcome",
		}, []string{"outcome"}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteToTextfile writes all metrics in the text exposition format,
// suitable for the node_exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeRule(ruleID string, elapsed time.Duration, findings []Finding, setupFailed bool) {
	if m == nil {
		return
	}
	m.ruleDuration.WithLabelValues(ruleID).Observe(elapsed.Seconds())
	if setupFailed {
		m.setupErrorsTotal.WithLabelValues(ruleID).Inc()
	}
	for _, f := range findings {
		m.findingsTotal.WithLabelValues(ruleID, f.Severity.String()).Inc()
	}
}

// ObserveReport records the outcome of a finished report.
func (m *Metrics) ObserveReport(r *Report) {
	if m == nil || r == nil {
		return
	}
	outcome := "pass"
	if r.Failed() {
		outcome = "fail"
	}
	m.documentsTotal.WithLabelValues(outcome).Inc()
}
