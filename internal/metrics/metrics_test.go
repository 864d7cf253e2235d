package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveDropCountsAdmittedAndDropped(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)
	m.ObserveDrop(6, 5)
	m.ObserveDrop(2, 2)

	out := scrape(t, reg)
	assert.Contains(t, out, "aguli_admin_compose_images_admitted_total 7")
	assert.Contains(t, out, "aguli_admin_compose_images_dropped_total 1")
}

func TestObserveEventAndSubmit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)
	m.ObserveEvent("hover", true)
	m.ObserveEvent("hover", false)
	m.ObserveEvent("hover", true)
	m.ObserveSubmit("ok", 120*time.Millisecond)
	m.ObserveSubmit("in_flight", 0)

	out := scrape(t, reg)
	assert.Contains(t, out, `aguli_admin_compose_events_total{changed="true",type="hover"} 2`)
	assert.Contains(t, out, `aguli_admin_compose_events_total{changed="false",type="hover"} 1`)
	assert.Contains(t, out, `aguli_admin_compose_submissions_total{result="ok"} 1`)
	assert.Contains(t, out, `aguli_admin_compose_submissions_total{result="in_flight"} 1`)
	assert.Contains(t, out, "aguli_admin_compose_submit_duration_seconds_count 1")
}

func TestSessionGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	assert.Contains(t, scrape(t, reg), "aguli_admin_compose_sessions_active 1")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveDrop(3, 1)
	m.ObserveEvent("drop", true)
	m.ObserveSubmit("failed", time.Second)
	m.SessionOpened()
	m.SessionClosed()
	m.BackendError("ads")
}

func TestMustNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNew(reg)
	assert.Panics(t, func() { MustNew(reg) })
}

func TestBackendErrorLabelsResource(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNew(reg).BackendError("explore")
	out := scrape(t, reg)
	assert.True(t, strings.Contains(out, `aguli_admin_backend_errors_total{resource="explore"} 1`), out)
}
