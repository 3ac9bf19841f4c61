// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for SplitMate.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// --- RPC ---
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	// --- Balances ---
	BalanceComputations  *prometheus.CounterVec
	SuggestionsGenerated prometheus.Histogram
	RoundingResidual     prometheus.Gauge

	// --- Idempotency ---
	IdempotentReplays *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RPCRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitmate_rpc_requests_total",
			Help: "RPC requests handled, by procedure and result code",
		}, []string{"procedure", "code"}),

		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "splitmate_rpc_duration_seconds",
			Help:    "RPC handling latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure"}),

		BalanceComputations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitmate_balance_computations_total",
			Help: "Group balance computations, by result (ok, invalid_input, error)",
		}, []string{"result"}),

		SuggestionsGenerated: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitmate_settlement_suggestions",
			Help:    "Number of settlement suggestions produced per computation",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),

		RoundingResidual: factory.NewGauge(prometheus.GaugeOpts{
			Name: "splitmate_rounding_residual",
			Help: "Largest balance left after applying the last computed suggestions",
		}),

		IdempotentReplays: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitmate_idempotent_replays_total",
			Help: "Create requests answered from an earlier Idempotency-Key claim",
		}, []string{"scope"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRPC records one handled RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(procedure, code).Inc()
	m.RPCDuration.WithLabelValues(procedure).Observe(seconds)
}

// ObserveBalance records the outcome of one balance computation.
// suggestions and residual are only recorded when result is "ok".
func (m *Metrics) ObserveBalance(result string, suggestions int, residual float64) {
	if m == nil {
		return
	}
	m.BalanceComputations.WithLabelValues(result).Inc()
	if result == "ok" {
		m.SuggestionsGenerated.Observe(float64(suggestions))
		m.RoundingResidual.Set(residual)
	}
}

// ObserveReplay records a create answered from an idempotency claim.
func (m *Metrics) ObserveReplay(scope string) {
	if m == nil {
		return
	}
	m.IdempotentReplays.WithLabelValues(scope).Inc()
}
