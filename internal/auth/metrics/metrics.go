package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the auth server collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Grants issued by /login
	GrantsIssued prometheus.Counter

	// Login failures by reason: invalid_credentials, invalid_config, store
	LoginFailures *prometheus.CounterVec

	// Code exchanges by result: ok, invalid_grant, error
	Exchanges *prometheus.CounterVec

	// Bearer resolutions by result and source (cache, store)
	Resolutions *prometheus.CounterVec

	// Rows removed by the housekeeping sweep, by table
	HousekeepingDeleted *prometheus.CounterVec

	// Latency of the code exchange transaction
	ExchangeLatency prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		GrantsIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "auth_grants_issued_total",
			Help: "Authorization codes issued after a successful login",
		}),

		LoginFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_failures_total",
			Help: "Failed logins by reason",
		}, []string{"reason"}),

		Exchanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_code_exchanges_total",
			Help: "Authorization code exchanges by result",
		}, []string{"result"}),

		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_session_resolutions_total",
			Help: "Bearer session resolutions by result and source",
		}, []string{"result", "source"}),

		HousekeepingDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_housekeeping_deleted_total",
			Help: "Expired rows removed by housekeeping",
		}, []string{"table"}),

		ExchangeLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "auth_code_exchange_duration_seconds",
			Help:    "Duration of the code exchange including signing and persistence",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) GrantIssued() {
	if m != nil {
		m.GrantsIssued.Inc()
	}
}

func (m *Metrics) LoginFailed(reason string) {
	if m != nil {
		m.LoginFailures.WithLabelValues(reason).Inc()
	}
}

// Exchanged records one exchange outcome and its duration.
func (m *Metrics) Exchanged(result string, d time.Duration) {
	if m != nil {
		m.Exchanges.WithLabelValues(result).Inc()
		m.ExchangeLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) Resolved(result, source string) {
	if m != nil {
		m.Resolutions.WithLabelValues(result, source).Inc()
	}
}

func (m *Metrics) Swept(table string, n int64) {
	if m != nil && n > 0 {
		m.HousekeepingDeleted.WithLabelValues(table).Add(float64(n))
	}
}
