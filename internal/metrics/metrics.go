// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recompute outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeUnchanged   = "unchanged"
	OutcomeError       = "error"
	OutcomeHistoryOnly = "history"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	recomputes        *prometheus.CounterVec
	recomputeDuration prometheus.Histogram
	planSize          prometheus.Histogram
	rateLookups       *prometheus.CounterVec
	conversionErrors  *prometheus.CounterVec
	rpcs              *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		recomputes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settleup",
			Name:      "recomputes_total",
			Help:      "Debt view recomputations by view and outcome.",
		}, []string{"view", "outcome"}),
		recomputeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "settleup",
			Name:      "recompute_duration_seconds",
			Help:      "Time spent recomputing a debt view.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		planSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "settleup",
			Name:      "settlement_plan_transfers",
			Help:      "Number of transfers in computed settlement plans.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		rateLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settleup",
			Name:      "rate_lookups_total",
			Help:      "Exchange rate lookups by cache result.",
		}, []string{"cache"}),
		conversionErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settleup",
			Name:      "conversion_errors_total",
			Help:      "Failed currency conversions by currency pair.",
		}, []string{"from", "to"}),
		rpcs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settleup",
			Name:      "rpc_requests_total",
			Help:      "Connect RPCs by procedure and code.",
		}, []string{"procedure", "code"}),
	}
}

// Recompute records one recomputation.
func (m *Metrics) Recompute(view, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.recomputes.WithLabelValues(view, outcome).Inc()
	m.recomputeDuration.Observe(took.Seconds())
}

// PlanSize records the size of a computed plan.
func (m *Metrics) PlanSize(transfers int) {
	if m == nil {
		return
	}
	m.planSize.Observe(float64(transfers))
}

// RateLookup implements currency.Observer.
func (m *Metrics) RateLookup(cached bool) {
	if m == nil {
		return
	}
	result := "miss"
	if cached {
		result = "hit"
	}
	m.rateLookups.WithLabelValues(result).Inc()
}

// ConversionFailed implements currency.Observer.
func (m *Metrics) ConversionFailed(from, to string) {
	if m == nil {
		return
	}
	m.conversionErrors.WithLabelValues(from, to).Inc()
}

// RPC records one Connect call.
func (m *Metrics) RPC(procedure, code string) {
	if m == nil {
		return
	}
	m.rpcs.WithLabelValues(procedure, code).Inc()
}
