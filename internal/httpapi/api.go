// Package httpapi exposes the conference core over JSON/HTTP. Each bearer
// token is bound to one app.Session; toasts stream to the client over SSE.
package httpapi

import (
	"net/http"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/app"
	"github.com/BRAHMISREE/conference-project/internal/logging"
	"github.com/BRAHMISREE/conference-project/internal/obs"
)

const serviceName = "confhub-api"

// API is the HTTP layer.
type API struct {
	mux     *http.ServeMux
	core    *app.App
	tokens  *Tokens
	log     logging.Logger
	metrics *obs.Metrics
	version string

	rateBurst    int
	ratePerSec   int
	maxBodyBytes int64
	started      time.Time
}

type Option func(*API)

func WithLogger(l logging.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

func WithMetrics(m *obs.Metrics) Option {
	return func(a *API) { a.metrics = m }
}

func WithVersion(v string) Option {
	return func(a *API) { a.version = v }
}

// WithRateLimit sets the per-client token bucket; zero disables limiting.
func WithRateLimit(burst, perSecond int) Option {
	return func(a *API) {
		a.rateBurst = burst
		a.ratePerSec = perSecond
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(a *API) { a.maxBodyBytes = n }
}

func New(core *app.App, tokens *Tokens, opts ...Option) *API {
	a := &API{
		mux:          http.NewServeMux(),
		core:         core,
		tokens:       tokens,
		log:          logging.Discard(),
		version:      "dev",
		rateBurst:    20,
		ratePerSec:   10,
		maxBodyBytes: 1 << 20,
		started:      time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.routes()
	return a
}

func (a *API) routes() {
	a.mux.HandleFunc("GET /healthz", a.Healthz)
	a.mux.HandleFunc("GET /readyz", a.Ready)
	a.mux.HandleFunc("GET /v1/info", a.Info)
	a.mux.Handle("GET /metrics", a.metrics.Handler())

	a.mux.HandleFunc("POST /v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("POST /v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("POST /v1/auth/logout", a.withSession(a.handleLogout))
	a.mux.HandleFunc("GET /v1/me", a.withSession(a.handleMe))
	a.mux.HandleFunc("GET /v1/users", a.withSession(a.handleUsers))

	a.mux.HandleFunc("GET /v1/conferences", a.withSession(a.handleListConferences))
	a.mux.HandleFunc("POST /v1/conferences", a.withSession(a.handleCreateConference))
	a.mux.HandleFunc("GET /v1/conferences/{id}", a.withSession(a.handleGetConference))
	a.mux.HandleFunc("GET /v1/conferences/{id}/stats", a.withSession(a.handleConferenceStats))
	a.mux.HandleFunc("PUT /v1/conferences/{id}/roles/{userID}", a.withSession(a.handleAssignRole))

	a.mux.HandleFunc("GET /v1/conferences/{id}/papers", a.withSession(a.handleListPapers))
	a.mux.HandleFunc("POST /v1/conferences/{id}/papers", a.withSession(a.handleSubmitPaper))
	a.mux.HandleFunc("GET /v1/conferences/{id}/papers/mine", a.withSession(a.handleMyPaper))
	a.mux.HandleFunc("POST /v1/papers/{id}/decisions", a.withSession(a.handleProposeDecision))
	a.mux.HandleFunc("GET /v1/papers/{id}/decisions", a.withSession(a.handlePaperHistory))
	a.mux.HandleFunc("POST /v1/proposals/{id}/commit", a.withSession(a.handleCommitDecision))
	a.mux.HandleFunc("DELETE /v1/proposals/{id}", a.withSession(a.handleDiscardDecision))

	a.mux.HandleFunc("GET /v1/conferences/{id}/tasks", a.withSession(a.handleListTasks))
	a.mux.HandleFunc("POST /v1/conferences/{id}/tasks", a.withSession(a.handleAddTask))
	a.mux.HandleFunc("POST /v1/tasks/{id}/toggle", a.withSession(a.handleToggleTask))

	a.mux.HandleFunc("GET /v1/notifications", a.withSession(a.handleListNotifications))
	a.mux.HandleFunc("POST /v1/notifications/{id}/read", a.withSession(a.handleMarkRead))

	a.mux.HandleFunc("GET /v1/toasts", a.withSession(a.handleListToasts))
	a.mux.HandleFunc("DELETE /v1/toasts/{id}", a.withSession(a.handleDismissToast))
	a.mux.HandleFunc("GET /v1/toasts/stream", a.withSession(a.handleToastStream))
}

// Handler returns the mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Logging(a.log)(h)
	h = a.metrics.Instrument(h)
	return RequestID(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if a.core == nil || a.tokens == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"counts": a.core.Counts(r.Context()),
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"uptime":  time.Since(a.started).Round(time.Second).String(),
		"version": a.version,
	})
}
