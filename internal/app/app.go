// Package app owns the conference core: every store, the session registry and
// the command/query surface presentation code calls into.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BRAHMISREE/conference-project/internal/audit"
	"github.com/BRAHMISREE/conference-project/internal/conference"
	"github.com/BRAHMISREE/conference-project/internal/identity"
	"github.com/BRAHMISREE/conference-project/internal/logging"
	"github.com/BRAHMISREE/conference-project/internal/notify"
	"github.com/BRAHMISREE/conference-project/internal/obs"
	"github.com/BRAHMISREE/conference-project/internal/review"
	"github.com/BRAHMISREE/conference-project/internal/tasks"
	"github.com/BRAHMISREE/conference-project/internal/toast"
)

var (
	ErrUnauthenticated = errors.New("app: no user is signed in")
	ErrSessionClosed   = errors.New("app: session closed")
	ErrInvalidForm     = errors.New("app: invalid form")
	ErrInvalidScope    = errors.New("app: unknown conference scope")
)

// App is the application state. It is constructed explicitly and shared by
// reference with every session; there is no package-level instance.
type App struct {
	users       *identity.Directory
	conferences *conference.Store
	papers      *review.Workflow
	tasks       *tasks.Board
	notes       *notify.Sink

	log     logging.Logger
	audit   *audit.Log
	metrics *obs.Metrics

	latency       time.Duration
	sleep         func(time.Duration)
	toastDuration time.Duration
	scheduler     toast.Scheduler
	cue           toast.Cue
	newSessionID  func() string
	now           func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures an App.
type Option func(*App)

func WithLogger(l logging.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMetrics wires Prometheus collectors; without it nothing is recorded.
func WithMetrics(m *obs.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithLatency delays login, registration and conference creation before
// they commit, simulating a remote round trip. The delay is not cancellable.
func WithLatency(d time.Duration) Option {
	return func(a *App) {
		if d >= 0 {
			a.latency = d
		}
	}
}

// WithSleep overrides how the latency is spent (tests record it instead).
func WithSleep(fn func(time.Duration)) Option {
	return func(a *App) {
		if fn != nil {
			a.sleep = fn
		}
	}
}

func WithToastDuration(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.toastDuration = d
		}
	}
}

func WithToastScheduler(s toast.Scheduler) Option {
	return func(a *App) { a.scheduler = s }
}

func WithToastCue(cue toast.Cue) Option {
	return func(a *App) { a.cue = cue }
}

func WithSessionIDs(fn func() string) Option {
	return func(a *App) {
		if fn != nil {
			a.newSessionID = fn
		}
	}
}

// WithClock overrides the time source used for session expiry.
func WithClock(fn func() time.Time) Option {
	return func(a *App) {
		if fn != nil {
			a.now = fn
		}
	}
}

// WithStores replaces the default stores; nil arguments keep the default.
func WithStores(users *identity.Directory, confs *conference.Store, papers *review.Workflow, board *tasks.Board, notes *notify.Sink) Option {
	return func(a *App) {
		if users != nil {
			a.users = users
		}
		if confs != nil {
			a.conferences = confs
		}
		if papers != nil {
			a.papers = papers
		}
		if board != nil {
			a.tasks = board
		}
		if notes != nil {
			a.notes = notes
		}
	}
}

// New builds an empty App. Call Seed to load the bundled demo data.
func New(opts ...Option) *App {
	a := &App{
		users:         identity.NewDirectory(),
		conferences:   conference.NewStore(),
		papers:        review.NewWorkflow(),
		tasks:         tasks.NewBoard(),
		notes:         notify.NewSink(),
		log:           logging.Discard(),
		sleep:         time.Sleep,
		toastDuration: toast.DefaultDuration,
		newSessionID:  uuid.NewString,
		now:           time.Now,
		sessions:      make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.audit = audit.New(a.log)
	return a
}

// NewSession opens a session with no signed-in user. Expired sessions are
// reaped first.
func (a *App) NewSession() *Session {
	a.Reap(context.Background())
	s := &Session{
		id:        a.newSessionID(),
		app:       a,
		proposals: make(map[string]struct{}),
	}
	s.log = a.log.With("session_id", s.id)
	s.toasts = toast.New(
		toast.WithScheduler(a.scheduler),
		toast.WithDefaultDuration(a.toastDuration),
		toast.WithCue(a.cue),
		toast.WithHooks(
			func(t toast.Toast) { a.metrics.ToastEmitted(string(t.Kind)) },
			func(toast.Toast) { a.metrics.ToastRemoved() },
		),
	)

	a.mu.Lock()
	a.sessions[s.id] = s
	a.mu.Unlock()
	return s
}

// Session looks up an open session by id. An expired session is closed and
// reported as missing.
func (a *App) Session(id string) (*Session, bool) {
	a.mu.RLock()
	s, ok := a.sessions[id]
	a.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(a.now()) {
		s.Close()
		return nil, false
	}
	return s, true
}

// Reap closes every expired session and reports how many were dropped.
func (a *App) Reap(ctx context.Context) int {
	now := a.now()
	a.mu.RLock()
	var stale []*Session
	for _, s := range a.sessions {
		if s.expired(now) {
			stale = append(stale, s)
		}
	}
	a.mu.RUnlock()
	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		a.log.Info(ctx, "expired sessions reaped", "count", len(stale))
	}
	return len(stale)
}

// Shutdown closes every open session, cancelling their pending toast
// removals.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	open := make([]*Session, 0, len(a.sessions))
	for _, s := range a.sessions {
		open = append(open, s)
	}
	a.mu.Unlock()
	for _, s := range open {
		s.Close()
	}
	a.log.Info(ctx, "app shut down", "sessions", len(open))
}

func (a *App) forget(id string) {
	a.mu.Lock()
	delete(a.sessions, id)
	a.mu.Unlock()
}

// Counts summarises store sizes for health and info endpoints.
type Counts struct {
	Users       int `json:"users"`
	Conferences int `json:"conferences"`
	Papers      int `json:"papers"`
	Tasks       int `json:"tasks"`
	Sessions    int `json:"sessions"`
}

func (a *App) Counts(ctx context.Context) Counts {
	a.mu.RLock()
	sessions := len(a.sessions)
	a.mu.RUnlock()
	return Counts{
		Users:       a.users.Len(),
		Conferences: a.conferences.Len(),
		Papers:      len(a.papers.List(ctx, review.Filter{})),
		Tasks:       len(a.tasks.List(ctx, tasks.Filter{})),
		Sessions:    sessions,
	}
}

func (a *App) pause() {
	if a.latency > 0 {
		a.sleep(a.latency)
	}
}

// RoleFor is the authorization primitive: the label the conference's role
// map gives the user, if any. It grants nothing by itself.
func RoleFor(c conference.Conference, u *identity.User) (conference.Role, bool) {
	if u == nil {
		return "", false
	}
	return c.RoleOf(u.ID)
}
