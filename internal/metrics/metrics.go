package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bankgate"

// Metrics holds all Prometheus metrics for bankgate.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	GuardDecisions  *prometheus.CounterVec
	Logins          *prometheus.CounterVec
	Logouts         prometheus.Counter
	GatewayDuration *prometheus.HistogramVec
	GatewayErrors   *prometheus.CounterVec
	AuditDrops      prometheus.Counter
}

// New creates and registers all metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		GuardDecisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guard_decisions_total",
				Help:      "Route guard decisions by guard and result",
			},
			[]string{"guard", "result"}, // result=rendered/redirected
		),
		Logins: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Login attempts by result",
			},
			[]string{"result"}, // result=success/failure
		),
		Logouts: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logouts_total",
				Help:      "Sessions cleared by logout",
			},
		),
		GatewayDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Banking API call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		GatewayErrors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_errors_total",
				Help:      "Banking API calls that returned an error",
			},
			[]string{"op"},
		),
		AuditDrops: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_drops_total",
				Help:      "Audit events dropped due to backpressure",
			},
		),
	}
}

// ObserveGuard counts one guard decision.
func (m *Metrics) ObserveGuard(guard, result string) {
	if m == nil {
		return
	}
	m.GuardDecisions.WithLabelValues(guard, result).Inc()
}

// ObserveLogin counts one login attempt.
func (m *Metrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.Logins.WithLabelValues(result).Inc()
}

// ObserveLogout counts one cleared session.
func (m *Metrics) ObserveLogout() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}

// ObserveGatewayCall records the duration and outcome of one banking API call.
func (m *Metrics) ObserveGatewayCall(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.GatewayDuration.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		m.GatewayErrors.WithLabelValues(op).Inc()
	}
}

// ObserveAuditDrop counts one dropped audit event.
func (m *Metrics) ObserveAuditDrop() {
	if m == nil {
		return
	}
	m.AuditDrops.Inc()
}
