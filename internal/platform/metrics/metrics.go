package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	Registrations            *prometheus.CounterVec
	Logins                   *prometheus.CounterVec
	CertificationTransitions *prometheus.CounterVec
	OrphanedDocuments        prometheus.Counter
	OrphansReconciled        prometheus.Counter
	OrphansAbandoned         prometheus.Counter
	AuditDropped             prometheus.Counter
	RequestDuration          *prometheus.HistogramVec
	RevocationCheckDuration  *prometheus.HistogramVec
	RateLimited              *prometheus.CounterVec
	RateLimitDegraded        prometheus.Gauge
}

// New creates and registers all metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "medid_registrations_total",
			Help: "Completed registrations by role",
		}, []string{"role"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "medid_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		CertificationTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "medid_certification_transitions_total",
			Help: "Certification request writes by resulting status",
		}, []string{"status"}),
		OrphanedDocuments: f.NewCounter(prometheus.CounterOpts{
			Name: "medid_orphaned_documents_total",
			Help: "Uploaded documents whose transaction failed",
		}),
		OrphansReconciled: f.NewCounter(prometheus.CounterOpts{
			Name: "medid_orphaned_documents_reconciled_total",
			Help: "Orphaned documents deleted by the reconciler",
		}),
		OrphansAbandoned: f.NewCounter(prometheus.CounterOpts{
			Name: "medid_orphaned_documents_abandoned_total",
			Help: "Orphaned documents the reconciler gave up on",
		}),
		AuditDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "medid_audit_events_dropped_total",
			Help: "Audit events dropped because the buffer was full",
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medid_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		RevocationCheckDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medid_token_revocation_check_duration_ms",
			Help:    "Latency of token revocation checks in milliseconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}, []string{"backend"}),
		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "medid_rate_limited_total",
			Help: "Requests rejected by a rate limit or login lockout, by scope",
		}, []string{"scope"}),
		RateLimitDegraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "medid_rate_limit_degraded",
			Help: "1 while the shared rate limit store is bypassed for the in-process fallback",
		}),
	}
}

func (m *Metrics) IncRegistration(role string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(role).Inc()
}

func (m *Metrics) IncLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCertificationTransition(status string) {
	if m == nil {
		return
	}
	m.CertificationTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncOrphanedDocument() {
	if m == nil {
		return
	}
	m.OrphanedDocuments.Inc()
}

func (m *Metrics) AddOrphansReconciled(n int) {
	if m == nil {
		return
	}
	m.OrphansReconciled.Add(float64(n))
}

func (m *Metrics) AddOrphansAbandoned(n int) {
	if m == nil {
		return
	}
	m.OrphansAbandoned.Add(float64(n))
}

func (m *Metrics) IncAuditDropped() {
	if m == nil {
		return
	}
	m.AuditDropped.Inc()
}

func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) ObserveRevocationCheck(backend string, d time.Duration) {
	if m == nil {
		return
	}
	m.RevocationCheckDuration.WithLabelValues(backend).Observe(float64(d.Microseconds()) / 1000.0)
}

func (m *Metrics) IncRateLimited(scope string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(scope).Inc()
}

func (m *Metrics) SetRateLimitDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.RateLimitDegraded.Set(1)
		return
	}
	m.RateLimitDegraded.Set(0)
}
