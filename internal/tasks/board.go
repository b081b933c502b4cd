// Package tasks is the per-conference todo board.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/ids"
)

type Status string

const (
	Pending Status = "pending"
	Done    Status = "done"
)

const (
	DefaultTeam     = "general"
	DefaultAssignee = "TBD"
)

var (
	ErrNotFound     = errors.New("tasks: not found")
	ErrInvalidInput = errors.New("tasks: invalid input")
)

type Task struct {
	ID        string    `json:"id"`
	ConfID    string    `json:"conf_id"`
	Title     string    `json:"title"`
	Team      string    `json:"team"`
	Status    Status    `json:"status"`
	Assignee  string    `json:"assignee"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter selects tasks in List. Zero fields match everything.
type Filter struct {
	ConfID string
	Status Status
}

func (f Filter) match(t *Task) bool {
	if f.ConfID != "" && t.ConfID != f.ConfID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// Board is the in-memory task store.
type Board struct {
	mu    sync.RWMutex
	tasks []*Task
	byID  map[string]*Task

	newID ids.Generator
	now   func() time.Time
}

type Option func(*Board)

func WithIDs(gen ids.Generator) Option {
	return func(b *Board) {
		if gen != nil {
			b.newID = gen
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(b *Board) {
		if fn != nil {
			b.now = fn
		}
	}
}

func NewBoard(opts ...Option) *Board {
	b := &Board{
		byID:  make(map[string]*Task),
		newID: ids.For(ids.PrefixTask),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add creates a pending task with the default team and assignee.
func (b *Board) Add(ctx context.Context, confID, title string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if confID == "" {
		return Task{}, fmt.Errorf("%w: conference is required", ErrInvalidInput)
	}
	t := &Task{
		ID:        b.newID(),
		ConfID:    confID,
		Title:     title,
		Team:      DefaultTeam,
		Status:    Pending,
		Assignee:  DefaultAssignee,
		CreatedAt: b.now().UTC(),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insert(t)
	return *t, nil
}

// Seed stores bundled tasks as given, filling blank defaults.
func (b *Board) Seed(ctx context.Context, tasks ...Task) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("%w: seeded task needs an id", ErrInvalidInput)
		}
		if _, ok := b.byID[t.ID]; ok {
			return fmt.Errorf("%w: duplicate task id %q", ErrInvalidInput, t.ID)
		}
		if t.Status == "" {
			t.Status = Pending
		}
		if t.Team == "" {
			t.Team = DefaultTeam
		}
		if t.Assignee == "" {
			t.Assignee = DefaultAssignee
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = b.now().UTC()
		}
		stored := t
		b.insert(&stored)
	}
	return nil
}

// Toggle flips a task between pending and done.
func (b *Board) Toggle(ctx context.Context, id string) (Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.byID[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	if t.Status == Done {
		t.Status = Pending
	} else {
		t.Status = Done
	}
	return *t, nil
}

func (b *Board) Get(ctx context.Context, id string) (Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.byID[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return *t, nil
}

// List returns matching tasks in creation order.
func (b *Board) List(ctx context.Context, f Filter) []Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Task
	for _, t := range b.tasks {
		if f.match(t) {
			out = append(out, *t)
		}
	}
	return out
}

func (b *Board) ListByConference(ctx context.Context, confID string) []Task {
	return b.List(ctx, Filter{ConfID: confID})
}

// Partition splits a task list into open and completed items, preserving
// order. It is a read-time view; status is the only stored attribute.
func Partition(list []Task) (pending, done []Task) {
	for _, t := range list {
		switch t.Status {
		case Done:
			done = append(done, t)
		case Pending:
			pending = append(pending, t)
		default:
			pending = append(pending, t)
		}
	}
	return pending, done
}

func (b *Board) insert(t *Task) {
	b.tasks = append(b.tasks, t)
	b.byID[t.ID] = t
}
