package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "confhub"

// Metrics bundles the HTTP and workflow collectors. A nil *Metrics is valid
// and records nothing, so the core can run without a registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
	conferences   prometheus.Counter
	submissions   prometheus.Counter
	decisions     *prometheus.CounterVec
	tasks         *prometheus.CounterVec
	notifications prometheus.Counter
	toasts        *prometheus.CounterVec
	activeToasts  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them in reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by result.",
		}, []string{"result"}),
		conferences: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conferences_created_total",
			Help:      "Conferences created.",
		}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_submitted_total",
			Help:      "Papers submitted for review.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_decisions_total",
			Help:      "Committed review decisions by outcome.",
		}, []string{"decision"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_events_total",
			Help:      "Task board mutations by kind.",
		}, []string{"event"}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications appended.",
		}),
		toasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toasts_emitted_total",
			Help:      "Toasts emitted by type.",
		}, []string{"type"}),
		activeToasts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "toasts_active",
			Help:      "Toasts currently visible across sessions.",
		}),
	}
	reg.MustRegister(
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.logins, m.registrations, m.conferences, m.submissions, m.decisions,
		m.tasks, m.notifications, m.toasts, m.activeToasts,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) Registration(ok bool) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) ConferenceCreated() {
	if m == nil {
		return
	}
	m.conferences.Inc()
}

func (m *Metrics) PaperSubmitted() {
	if m == nil {
		return
	}
	m.submissions.Inc()
}

func (m *Metrics) Decision(decision string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) TaskEvent(event string) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(event).Inc()
}

func (m *Metrics) NotificationAppended() {
	if m == nil {
		return
	}
	m.notifications.Inc()
}

// ToastEmitted counts an emitted toast and bumps the active gauge.
func (m *Metrics) ToastEmitted(kind string) {
	if m == nil {
		return
	}
	m.toasts.WithLabelValues(kind).Inc()
	m.activeToasts.Inc()
}

// ToastRemoved lowers the active gauge after expiry, dismissal or teardown.
func (m *Metrics) ToastRemoved() {
	if m == nil {
		return
	}
	m.activeToasts.Dec()
}

// Instrument measures RPS, latency and in-flight requests.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		m.httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		m.httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.httpInFlight.Dec()
	})
}

// idCollections are the path segments followed by an entity id.
var idCollections = map[string]bool{
	"conferences":   true,
	"papers":        true,
	"proposals":     true,
	"tasks":         true,
	"notifications": true,
	"toasts":        true,
}

// CanonicalPath replaces entity ids with ":id" to keep label cardinality bounded.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if !idCollections[parts[i-1]] || parts[i] == "" {
			continue
		}
		if parts[i-1] == "toasts" && parts[i] == "stream" {
			continue
		}
		parts[i] = ":id"
	}
	return strings.Join(parts, "/")
}

// statusWriter remembers the response code.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent events working through the instrumentation wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
