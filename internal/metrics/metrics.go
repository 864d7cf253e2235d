// Package metrics holds the Prometheus collectors of the admin console.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aguli_admin"

// Metrics reports compose-form and backend activity.
type Metrics struct {
	imagesAdmitted prometheus.Counter
	imagesDropped  prometheus.Counter
	events         *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	submitDuration prometheus.Histogram
	sessionsActive prometheus.Gauge
	backendErrors  *prometheus.CounterVec
}

// MustNew constructs Metrics and registers them with reg. Registration
// errors panic, as promauto does.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		imagesAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compose",
			Name:      "images_admitted_total",
			Help:      "Images admitted into compose forms.",
		}),
		imagesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compose",
			Name:      "images_dropped_total",
			Help:      "Dropped images discarded because the form was full.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compose",
			Name:      "events_total",
			Help:      "Compose events dispatched, by type and whether they changed the form.",
		}, []string{"type", "changed"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compose",
			Name:      "submissions_total",
			Help:      "Explore post submissions, by result.",
		}, []string{"result"}),
		submitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "compose",
			Name:      "submit_duration_seconds",
			Help:      "Time spent delivering Explore posts to the backend.",
			Buckets:   prometheus.DefBuckets,
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "compose",
			Name:      "sessions_active",
			Help:      "Open compose sessions.",
		}),
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "errors_total",
			Help:      "Failed calls to the Aguli backend, by resource.",
		}, []string{"resource"}),
	}
	reg.MustRegister(
		m.imagesAdmitted,
		m.imagesDropped,
		m.events,
		m.submissions,
		m.submitDuration,
		m.sessionsActive,
		m.backendErrors,
	)
	return m
}

// ObserveDrop records how many of the offered images a drop admitted.
func (m *Metrics) ObserveDrop(offered, admitted int) {
	if m == nil {
		return
	}
	m.imagesAdmitted.Add(float64(admitted))
	if dropped := offered - admitted; dropped > 0 {
		m.imagesDropped.Add(float64(dropped))
	}
}

// ObserveEvent counts a dispatched compose event.
func (m *Metrics) ObserveEvent(eventType string, changed bool) {
	if m == nil {
		return
	}
	label := "false"
	if changed {
		label = "true"
	}
	m.events.WithLabelValues(eventType, label).Inc()
}

// ObserveSubmit records a submission outcome. Result is one of ok, failed or
// in_flight.
func (m *Metrics) ObserveSubmit(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
	if d > 0 {
		m.submitDuration.Observe(d.Seconds())
	}
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

// BackendError counts a failed call for resource.
func (m *Metrics) BackendError(resource string) {
	if m == nil {
		return
	}
	m.backendErrors.WithLabelValues(resource).Inc()
}

// Handler serves the collectors of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
