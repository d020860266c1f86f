package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := m.Register(reg); err == nil {
		t.Error("second registration should fail")
	}
}

func TestCounters(t *testing.T) {
	m := New()

	m.IncIncidentCreated("fire", false)
	m.IncIncidentCreated("emergency", true)
	m.IncIncidentCreated("emergency", true)
	m.IncNotification("sms", true)
	m.IncNotification("whatsapp", false)
	m.IncSOSDispatch(false)
	m.SetStoreUp(true)

	if got := testutil.ToFloat64(m.incidentsCreated.WithLabelValues("emergency", "sos")); got != 2 {
		t.Errorf("sos incidents = %v", got)
	}
	if got := testutil.ToFloat64(m.incidentsCreated.WithLabelValues("fire", "report")); got != 1 {
		t.Errorf("report incidents = %v", got)
	}
	if got := testutil.ToFloat64(m.notifications.WithLabelValues("whatsapp", ResultFailure)); got != 1 {
		t.Errorf("failed whatsapp = %v", got)
	}
	if got := testutil.ToFloat64(m.sosDispatches.WithLabelValues("no_contacts")); got != 1 {
		t.Errorf("dispatches = %v", got)
	}
	if got := testutil.ToFloat64(m.storeUp); got != 1 {
		t.Errorf("store up = %v", got)
	}

	m.SetStoreUp(false)
	if got := testutil.ToFloat64(m.storeUp); got != 0 {
		t.Errorf("store up = %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.IncIncidentCreated("fire", false)
	m.IncNotification("sms", true)
	m.IncSOSDispatch(true)
	m.SetStoreUp(true)
	m.IncRateLimitBlocked("/api/incidents")
	m.IncRateLimitRedisError()
	m.ObserveHTTP("GET", "/api/stats", "200", 0.01)
}
