// Package metrics holds the Prometheus collectors for incidents, SOS
// notifications, store health and HTTP traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricIncidentsCreated     = "rakshak_incidents_created_total"
	MetricNotificationsTotal   = "rakshak_sos_notifications_total"
	MetricSOSDispatches        = "rakshak_sos_dispatches_total"
	MetricStoreUp              = "rakshak_store_up"
	MetricRateLimitBlocked     = "rakshak_rate_limit_blocked_total"
	MetricHTTPRequestsTotal    = "http_requests_total"
	MetricHTTPRequestDuration  = "http_request_duration_seconds"
	MetricRateLimitRedisErrors = "rakshak_rate_limit_redis_errors_total"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics is safe for concurrent use. A nil *Metrics is valid and
// records nothing, which keeps tests free of registry plumbing.
type Metrics struct {
	incidentsCreated     *prometheus.CounterVec
	notifications        *prometheus.CounterVec
	sosDispatches        *prometheus.CounterVec
	storeUp              prometheus.Gauge
	rateLimitBlocked     *prometheus.CounterVec
	rateLimitRedisErrors prometheus.Counter
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
}

// New creates the collectors without registering them.
func New() *Metrics {
	return &Metrics{
		incidentsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricIncidentsCreated,
				Help: "Incidents created by category and kind",
			},
			[]string{"category", "kind"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricNotificationsTotal,
				Help: "SOS notification attempts by channel and result",
			},
			[]string{"channel", "result"},
		),
		sosDispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSOSDispatches,
				Help: "SOS fan-outs started, labelled by whether any contact was found",
			},
			[]string{"outcome"},
		),
		storeUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricStoreUp,
				Help: "1 when the last MongoDB probe succeeded",
			},
		),
		rateLimitBlocked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRateLimitBlocked,
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
		rateLimitRedisErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricRateLimitRedisErrors,
				Help: "Redis errors during rate limiting (fail-open events)",
			},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"method", "path"},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.incidentsCreated,
		m.notifications,
		m.sosDispatches,
		m.storeUp,
		m.rateLimitBlocked,
		m.rateLimitRedisErrors,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	}
}

func (m *Metrics) IncIncidentCreated(category string, sos bool) {
	if m == nil {
		return
	}
	kind := "report"
	if sos {
		kind = "sos"
	}
	m.incidentsCreated.WithLabelValues(category, kind).Inc()
}

func (m *Metrics) IncNotification(channel string, success bool) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(channel, result(success)).Inc()
}

func (m *Metrics) IncSOSDispatch(hasContacts bool) {
	if m == nil {
		return
	}
	outcome := "no_contacts"
	if hasContacts {
		outcome = "fan_out"
	}
	m.sosDispatches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetStoreUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.storeUp.Set(1)
		return
	}
	m.storeUp.Set(0)
}

func (m *Metrics) IncRateLimitBlocked(path string) {
	if m == nil {
		return
	}
	m.rateLimitBlocked.WithLabelValues(path).Inc()
}

func (m *Metrics) IncRateLimitRedisError() {
	if m == nil {
		return
	}
	m.rateLimitRedisErrors.Inc()
}

func (m *Metrics) ObserveHTTP(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func result(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}
