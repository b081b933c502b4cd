// Package notify keeps the append-only per-user notification log.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/ids"
)

var ErrNotFound = errors.New("notify: notification not found")

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink stores notifications. Entries are never deleted; Read only moves
// from false to true.
type Sink struct {
	mu     sync.RWMutex
	byUser map[string][]*Notification
	byID   map[string]*Notification

	newID ids.Generator
	now   func() time.Time
}

type Option func(*Sink)

func WithIDs(gen ids.Generator) Option {
	return func(s *Sink) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(s *Sink) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewSink(opts ...Option) *Sink {
	s := &Sink{
		byUser: make(map[string][]*Notification),
		byID:   make(map[string]*Notification),
		newID:  ids.For(ids.PrefixNotification),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds an unread notification for userID.
func (s *Sink) Append(ctx context.Context, userID, message string) Notification {
	n := &Notification{
		ID:        s.newID(),
		UserID:    userID,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[userID] = append(s.byUser[userID], n)
	s.byID[n.ID] = n
	return *n
}

// Get returns a notification by id.
func (s *Sink) Get(ctx context.Context, id string) (Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.byID[id]
	if !ok {
		return Notification{}, ErrNotFound
	}
	return *n, nil
}

// MarkRead flags a notification as read. Marking it again is a no-op.
func (s *Sink) MarkRead(ctx context.Context, id string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok {
		return Notification{}, ErrNotFound
	}
	n.Read = true
	return *n, nil
}

// ListFor returns the user's notifications, oldest first.
func (s *Sink) ListFor(ctx context.Context, userID string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.byUser[userID]
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		out = append(out, *n)
	}
	return out
}

func (s *Sink) UnreadCount(ctx context.Context, userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.byUser[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}
