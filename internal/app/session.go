package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/audit"
	"github.com/BRAHMISREE/conference-project/internal/conference"
	"github.com/BRAHMISREE/conference-project/internal/identity"
	"github.com/BRAHMISREE/conference-project/internal/logging"
	"github.com/BRAHMISREE/conference-project/internal/notify"
	"github.com/BRAHMISREE/conference-project/internal/review"
	"github.com/BRAHMISREE/conference-project/internal/tasks"
	"github.com/BRAHMISREE/conference-project/internal/toast"
)

// Session is one acting client: who is signed in and the toasts shown to
// them. Commands return the created or updated entity or a typed error;
// every failure is also surfaced as an error toast.
type Session struct {
	id     string
	app    *App
	log    logging.Logger
	toasts *toast.Channel

	mu        sync.RWMutex
	user      *identity.User
	closed    bool
	expiresAt time.Time
	proposals map[string]struct{}
}

func (s *Session) ID() string { return s.id }

// ExpireAt makes the session lapse at t. A zero t means never.
func (s *Session) ExpireAt(t time.Time) {
	s.mu.Lock()
	s.expiresAt = t
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// CurrentUser returns the signed-in user.
func (s *Session) CurrentUser() (identity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return identity.User{}, false
	}
	return *s.user, true
}

func (s *Session) requireUser() (identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return identity.User{}, ErrSessionClosed
	}
	if s.user == nil {
		return identity.User{}, ErrUnauthenticated
	}
	return *s.user, nil
}

func (s *Session) setUser(u *identity.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Session) actorCtx(ctx context.Context, userID string) context.Context {
	return audit.WithActor(ctx, audit.Actor{SessionID: s.id, UserID: userID})
}

// fail reports err through an error toast and returns it unchanged.
func (s *Session) fail(ctx context.Context, op string, err error) error {
	s.toasts.Error(Message(err))
	s.log.Warn(ctx, op+" failed", "error", err)
	return err
}

func (s *Session) record(ctx context.Context, event string, fields map[string]any) {
	if err := s.app.audit.Record(ctx, event, fields); err != nil {
		s.log.Error(ctx, "audit record failed", "event", event, "error", err)
	}
}

func (s *Session) notify(ctx context.Context, userID, message string) notify.Notification {
	n := s.app.notes.Append(ctx, userID, message)
	s.app.metrics.NotificationAppended()
	return n
}

// Reject reports a failure the caller detected itself, such as a bad form,
// through the session's error toast and returns err unchanged.
func (s *Session) Reject(ctx context.Context, err error) error {
	return s.fail(ctx, "request", err)
}

// Login signs the session in when email and password match a user exactly.
func (s *Session) Login(ctx context.Context, email, password string) (identity.User, error) {
	if s.isClosed() {
		return identity.User{}, ErrSessionClosed
	}
	s.app.pause()

	u, err := s.app.users.Authenticate(ctx, email, password)
	s.app.metrics.Login(err == nil)
	if err != nil {
		return identity.User{}, s.fail(ctx, "login", err)
	}
	s.setUser(&u)

	ctx = s.actorCtx(ctx, u.ID)
	s.toasts.Success(fmt.Sprintf("Welcome back, %s!", u.Name))
	s.record(ctx, "session.login", nil)
	s.log.Info(ctx, "user signed in", "user_id", u.ID)
	return u, nil
}

// Logout clears the signed-in user. Logging out twice is harmless.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()
	if prev == nil {
		return
	}
	s.dropProposals(ctx)
	s.toasts.Info("You have been signed out.")
	s.record(s.actorCtx(ctx, prev.ID), "session.logout", nil)
	s.log.Info(ctx, "user signed out", "user_id", prev.ID)
}

// Register creates an account and signs the session in as it. Only email
// uniqueness is checked here; form rules belong to the caller.
func (s *Session) Register(ctx context.Context, name, email, password string) (identity.User, error) {
	if s.isClosed() {
		return identity.User{}, ErrSessionClosed
	}
	s.app.pause()

	u, err := s.app.users.Register(ctx, name, email, password)
	s.app.metrics.Registration(err == nil)
	if err != nil {
		return identity.User{}, s.fail(ctx, "register", err)
	}
	s.setUser(&u)

	ctx = s.actorCtx(ctx, u.ID)
	s.notify(ctx, u.ID, fmt.Sprintf("Welcome to the conference hub, %s!", u.Name))
	s.toasts.Success("Account created. Welcome aboard!")
	s.record(ctx, "user.registered", map[string]any{"email": u.Email})
	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// CreateConference stores a conference owned by the signed-in user.
func (s *Session) CreateConference(ctx context.Context, d conference.Draft) (conference.Conference, error) {
	u, err := s.requireUser()
	if err != nil {
		return conference.Conference{}, s.fail(ctx, "create conference", err)
	}
	s.app.pause()

	c, err := s.app.conferences.Create(ctx, u.ID, d)
	if err != nil {
		return conference.Conference{}, s.fail(ctx, "create conference", err)
	}
	s.app.metrics.ConferenceCreated()

	ctx = s.actorCtx(ctx, u.ID)
	s.notify(ctx, u.ID, fmt.Sprintf("Conference %q created. You are its organizer.", c.Name))
	s.toasts.Success(fmt.Sprintf("%s is live!", c.Name))
	s.record(ctx, "conference.created", map[string]any{"conf_id": c.ID})
	s.log.Info(ctx, "conference created", "conf_id", c.ID, "user_id", u.ID)
	return c, nil
}

// AssignRole labels userID with role inside the conference.
func (s *Session) AssignRole(ctx context.Context, confID, userID, role string) (conference.Conference, error) {
	u, err := s.requireUser()
	if err != nil {
		return conference.Conference{}, s.fail(ctx, "assign role", err)
	}
	r, err := conference.ParseRole(role)
	if err != nil {
		return conference.Conference{}, s.fail(ctx, "assign role", err)
	}
	if _, err := s.app.users.Find(ctx, userID); err != nil {
		return conference.Conference{}, s.fail(ctx, "assign role", err)
	}
	c, err := s.app.conferences.AssignRole(ctx, confID, userID, r)
	if err != nil {
		return conference.Conference{}, s.fail(ctx, "assign role", err)
	}

	ctx = s.actorCtx(ctx, u.ID)
	s.notify(ctx, userID, fmt.Sprintf("You are now a %s of %s.", r, c.Name))
	s.toasts.Success(fmt.Sprintf("%s role assigned.", roleTitle(r)))
	s.record(ctx, "conference.role_assigned", map[string]any{"conf_id": c.ID, "target_user_id": userID, "role": string(r)})
	return c, nil
}

// SubmitPaper files a pending paper by the signed-in user.
func (s *Session) SubmitPaper(ctx context.Context, confID, title, file string) (review.Paper, error) {
	u, err := s.requireUser()
	if err != nil {
		return review.Paper{}, s.fail(ctx, "submit paper", err)
	}
	c, err := s.app.conferences.Get(ctx, confID)
	if err != nil {
		return review.Paper{}, s.fail(ctx, "submit paper", err)
	}
	p, err := s.app.papers.Submit(ctx, c.ID, u.ID, title, file)
	if err != nil {
		return review.Paper{}, s.fail(ctx, "submit paper", err)
	}
	s.app.metrics.PaperSubmitted()

	ctx = s.actorCtx(ctx, u.ID)
	s.notify(ctx, u.ID, fmt.Sprintf("Your paper %q was submitted to %s and is awaiting review.", p.Title, c.Name))
	s.toasts.Success("Manuscript uploaded.")
	s.record(ctx, "paper.submitted", map[string]any{"paper_id": p.ID, "conf_id": c.ID})
	s.log.Info(ctx, "paper submitted", "paper_id", p.ID, "conf_id", c.ID)
	return p, nil
}

// ProposeDecision validates a review decision without applying it. The
// returned proposal must be confirmed with CommitDecision.
func (s *Session) ProposeDecision(ctx context.Context, paperID string, outcome review.Status, score int, feedback string) (review.Proposal, error) {
	u, err := s.requireUser()
	if err != nil {
		return review.Proposal{}, s.fail(ctx, "propose decision", err)
	}
	prop, err := s.app.papers.Propose(ctx, u.ID, paperID, outcome, score, feedback)
	if err != nil {
		return review.Proposal{}, s.fail(ctx, "propose decision", err)
	}
	s.mu.Lock()
	s.proposals[prop.ID] = struct{}{}
	s.mu.Unlock()
	s.log.Debug(ctx, "decision proposed", "proposal_id", prop.ID, "paper_id", paperID)
	return prop, nil
}

// CommitDecision applies a proposal made by the signed-in user, notifies
// the author and shows an outcome toast.
func (s *Session) CommitDecision(ctx context.Context, proposalID string) (review.Paper, error) {
	u, err := s.requireUser()
	if err != nil {
		return review.Paper{}, s.fail(ctx, "commit decision", err)
	}
	if err := s.ownProposal(ctx, u, proposalID); err != nil {
		return review.Paper{}, s.fail(ctx, "commit decision", err)
	}
	p, d, err := s.app.papers.Commit(ctx, proposalID)
	s.forgetProposal(proposalID)
	if err != nil {
		return review.Paper{}, s.fail(ctx, "commit decision", err)
	}
	s.app.metrics.Decision(string(d.Outcome))

	ctx = s.actorCtx(ctx, u.ID)
	msg := fmt.Sprintf("Your paper %q was %s (score %d/100).", p.Title, d.Outcome, d.Score)
	if d.Feedback != "" {
		msg += " Feedback: " + d.Feedback
	}
	s.notify(ctx, p.AuthorID, msg)
	switch d.Outcome {
	case review.Accepted:
		s.toasts.Success(fmt.Sprintf("%q accepted.", p.Title))
	case review.Rejected:
		s.toasts.Error(fmt.Sprintf("%q rejected.", p.Title))
	default:
		s.toasts.Info(fmt.Sprintf("%q updated.", p.Title))
	}
	s.record(ctx, "paper.decided", map[string]any{
		"paper_id":    p.ID,
		"decision_id": d.ID,
		"outcome":     string(d.Outcome),
		"score":       d.Score,
	})
	s.log.Info(ctx, "paper decided", "paper_id", p.ID, "outcome", d.Outcome, "score", d.Score)
	return p, nil
}

// DiscardDecision cancels a pending proposal.
func (s *Session) DiscardDecision(ctx context.Context, proposalID string) error {
	u, err := s.requireUser()
	if err != nil {
		return s.fail(ctx, "discard decision", err)
	}
	if err := s.ownProposal(ctx, u, proposalID); err != nil {
		return s.fail(ctx, "discard decision", err)
	}
	err = s.app.papers.Discard(ctx, proposalID)
	s.forgetProposal(proposalID)
	if err != nil {
		return s.fail(ctx, "discard decision", err)
	}
	return nil
}

func (s *Session) forgetProposal(id string) {
	s.mu.Lock()
	delete(s.proposals, id)
	s.mu.Unlock()
}

// dropProposals discards every decision this session proposed but never
// confirmed.
func (s *Session) dropProposals(ctx context.Context) {
	s.mu.Lock()
	pending := s.proposals
	s.proposals = make(map[string]struct{})
	s.mu.Unlock()
	for id := range pending {
		if err := s.app.papers.Discard(ctx, id); err != nil && !errors.Is(err, review.ErrProposalNotFound) {
			s.log.Warn(ctx, "discard proposal failed", "proposal_id", id, "error", err)
		}
	}
}

// ownProposal hides proposals made by other users or in other sessions.
func (s *Session) ownProposal(ctx context.Context, u identity.User, proposalID string) error {
	s.mu.RLock()
	_, mine := s.proposals[proposalID]
	s.mu.RUnlock()
	if !mine {
		return review.ErrProposalNotFound
	}
	prop, err := s.app.papers.Proposal(ctx, proposalID)
	if err != nil {
		return err
	}
	if prop.ReviewerID != u.ID {
		return review.ErrProposalNotFound
	}
	return nil
}

// AddTask puts a pending task on the conference board.
func (s *Session) AddTask(ctx context.Context, confID, title string) (tasks.Task, error) {
	u, err := s.requireUser()
	if err != nil {
		return tasks.Task{}, s.fail(ctx, "add task", err)
	}
	if _, err := s.app.conferences.Get(ctx, confID); err != nil {
		return tasks.Task{}, s.fail(ctx, "add task", err)
	}
	t, err := s.app.tasks.Add(ctx, confID, title)
	if err != nil {
		return tasks.Task{}, s.fail(ctx, "add task", err)
	}
	s.app.metrics.TaskEvent("added")

	ctx = s.actorCtx(ctx, u.ID)
	s.toasts.Success("Task added.")
	s.record(ctx, "task.added", map[string]any{"task_id": t.ID, "conf_id": confID})
	return t, nil
}

// ToggleTask flips a task between pending and done. Anyone signed in may
// toggle any task.
func (s *Session) ToggleTask(ctx context.Context, taskID string) (tasks.Task, error) {
	u, err := s.requireUser()
	if err != nil {
		return tasks.Task{}, s.fail(ctx, "toggle task", err)
	}
	t, err := s.app.tasks.Toggle(ctx, taskID)
	if err != nil {
		return tasks.Task{}, s.fail(ctx, "toggle task", err)
	}
	s.app.metrics.TaskEvent("toggled")
	s.record(s.actorCtx(ctx, u.ID), "task.toggled", map[string]any{"task_id": t.ID, "status": string(t.Status)})
	return t, nil
}

// MarkNotificationRead flags one of the signed-in user's notifications.
func (s *Session) MarkNotificationRead(ctx context.Context, id string) (notify.Notification, error) {
	u, err := s.requireUser()
	if err != nil {
		return notify.Notification{}, s.fail(ctx, "mark notification", err)
	}
	n, err := s.app.notes.Get(ctx, id)
	if err != nil {
		return notify.Notification{}, s.fail(ctx, "mark notification", err)
	}
	if n.UserID != u.ID {
		return notify.Notification{}, s.fail(ctx, "mark notification", notify.ErrNotFound)
	}
	return s.app.notes.MarkRead(ctx, id)
}

// DismissToast hides a toast before it expires.
func (s *Session) DismissToast(id string) bool {
	return s.toasts.Dismiss(id)
}

// Close ends the session: pending toast removals are cancelled and the
// session is dropped from the App.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.user = nil
	s.mu.Unlock()

	s.dropProposals(context.Background())
	s.toasts.Close()
	s.app.forget(s.id)
}

func roleTitle(r conference.Role) string {
	name := string(r)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
