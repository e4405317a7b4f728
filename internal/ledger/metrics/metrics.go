package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ledger service.
type Metrics struct {
	// Registration outcomes by status code
	Registrations *prometheus.CounterVec

	// Chain appends
	LedgerAppends prometheus.Counter

	// Cross-sign attempts by peer outcome
	CrossSigns *prometheus.CounterVec

	// Full registration pipeline latency
	RegisterLatency prometheus.Histogram
}

// New creates a new Metrics instance with all ledger service metrics
// registered on the default registry.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerd_registrations_total",
			Help: "Total client registration requests by response status",
		}, []string{"status"}),

		LedgerAppends: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerd_ledger_appends_total",
			Help: "Total entries appended to the hash chain",
		}),

		CrossSigns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerd_cross_signs_total",
			Help: "Total cross-sign attempts by outcome",
		}, []string{"outcome"}), // outcome: "ok", "error"

		RegisterLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerd_register_duration_seconds",
			Help:    "Duration of the full registration pipeline",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementRegistration records a registration outcome.
func (m *Metrics) IncrementRegistration(status string) {
	if m != nil {
		m.Registrations.WithLabelValues(status).Inc()
	}
}

// IncrementAppend records a chain append.
func (m *Metrics) IncrementAppend() {
	if m != nil {
		m.LedgerAppends.Inc()
	}
}

// IncrementCrossSign records a cross-sign attempt outcome.
func (m *Metrics) IncrementCrossSign(outcome string) {
	if m != nil {
		m.CrossSigns.WithLabelValues(outcome).Inc()
	}
}

// ObserveRegisterLatency records the pipeline duration.
func (m *Metrics) ObserveRegisterLatency(d time.Duration) {
	if m != nil {
		m.RegisterLatency.Observe(d.Seconds())
	}
}
