package app

import (
	"context"
	"fmt"

	"github.com/BRAHMISREE/conference-project/internal/conference"
	"github.com/BRAHMISREE/conference-project/internal/identity"
	"github.com/BRAHMISREE/conference-project/internal/notify"
	"github.com/BRAHMISREE/conference-project/internal/review"
	"github.com/BRAHMISREE/conference-project/internal/tasks"
	"github.com/BRAHMISREE/conference-project/internal/toast"
)

// UnknownUser is shown when a referenced user no longer resolves.
const UnknownUser = "Unknown"

// Scope narrows ListConferences relative to the signed-in user.
type Scope string

const (
	ScopeAll    Scope = "all"
	ScopeMine   Scope = "mine"
	ScopeOthers Scope = "others"
)

// ParseScope maps an empty string to ScopeAll.
func ParseScope(raw string) (Scope, error) {
	switch Scope(raw) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeMine, ScopeOthers:
		return Scope(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, raw)
	}
}

// RoleFor returns the signed-in user's role in confID. ok is false for an
// anonymous session, an unknown conference or a user with no role there.
func (s *Session) RoleFor(ctx context.Context, confID string) (conference.Role, bool) {
	u, ok := s.CurrentUser()
	if !ok {
		return "", false
	}
	c, err := s.app.conferences.Get(ctx, confID)
	if err != nil {
		return "", false
	}
	return RoleFor(c, &u)
}

// ListConferences returns conferences in creation order. Mine and Others
// need a signed-in user and split the list by role membership.
func (s *Session) ListConferences(ctx context.Context, scope Scope) ([]conference.Conference, error) {
	if scope == "" || scope == ScopeAll {
		return s.app.conferences.List(ctx, conference.All), nil
	}
	u, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	switch scope {
	case ScopeMine:
		return s.app.conferences.List(ctx, conference.MemberOf(u.ID)), nil
	case ScopeOthers:
		return s.app.conferences.List(ctx, conference.NotMemberOf(u.ID)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
}

func (s *Session) Conference(ctx context.Context, id string) (conference.Conference, error) {
	return s.app.conferences.Get(ctx, id)
}

func (s *Session) ListPapers(ctx context.Context, f review.Filter) []review.Paper {
	return s.app.papers.List(ctx, f)
}

// MyPaper returns the signed-in user's submission to confID.
func (s *Session) MyPaper(ctx context.Context, confID string) (review.Paper, bool) {
	u, ok := s.CurrentUser()
	if !ok {
		return review.Paper{}, false
	}
	return s.app.papers.FindByAuthor(ctx, confID, u.ID)
}

func (s *Session) PaperHistory(ctx context.Context, paperID string) ([]review.Decision, error) {
	return s.app.papers.History(ctx, paperID)
}

func (s *Session) ListTasks(ctx context.Context, f tasks.Filter) []tasks.Task {
	return s.app.tasks.List(ctx, f)
}

// ListNotifications returns the signed-in user's notifications, oldest first.
func (s *Session) ListNotifications(ctx context.Context) ([]notify.Notification, error) {
	u, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	return s.app.notes.ListFor(ctx, u.ID), nil
}

func (s *Session) UnreadCount(ctx context.Context) int {
	u, ok := s.CurrentUser()
	if !ok {
		return 0
	}
	return s.app.notes.UnreadCount(ctx, u.ID)
}

// Toasts returns the visible toasts, oldest first.
func (s *Session) Toasts() []toast.Toast {
	return s.toasts.Active()
}

// Subscribe streams toast events until ctx is done or the session closes.
func (s *Session) Subscribe(ctx context.Context) <-chan toast.Event {
	return s.toasts.Subscribe(ctx)
}

// UserName resolves a display name, falling back to UnknownUser.
func (s *Session) UserName(ctx context.Context, userID string) string {
	u, err := s.app.users.Find(ctx, userID)
	if err != nil {
		return UnknownUser
	}
	return u.Name
}

// Stats is the organizer overview of one conference.
type Stats struct {
	TotalPapers    int                     `json:"total_papers"`
	PendingPapers  int                     `json:"pending_papers"`
	AcceptedPapers int                     `json:"accepted_papers"`
	RejectedPapers int                     `json:"rejected_papers"`
	TasksDone      int                     `json:"tasks_done"`
	TasksTotal     int                     `json:"tasks_total"`
	Members        map[conference.Role]int `json:"members"`
}

func (s *Session) ConferenceStats(ctx context.Context, confID string) (Stats, error) {
	c, err := s.app.conferences.Get(ctx, confID)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Members: make(map[conference.Role]int, len(conference.Roles))}
	for _, r := range c.Roles {
		st.Members[r]++
	}
	for _, p := range s.app.papers.ListByConference(ctx, c.ID) {
		st.TotalPapers++
		switch p.Status {
		case review.Pending:
			st.PendingPapers++
		case review.Accepted:
			st.AcceptedPapers++
		case review.Rejected:
			st.RejectedPapers++
		}
	}
	pending, done := tasks.Partition(s.app.tasks.ListByConference(ctx, c.ID))
	st.TasksDone = len(done)
	st.TasksTotal = len(pending) + len(done)
	return st, nil
}

// Users lists every account; used by organizers picking role holders.
func (s *Session) Users(ctx context.Context) ([]identity.User, error) {
	if _, err := s.requireUser(); err != nil {
		return nil, err
	}
	return s.app.users.List(ctx), nil
}
