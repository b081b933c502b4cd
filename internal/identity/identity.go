// Package identity holds registered accounts and resolves credential pairs.
//
// Passwords are kept and compared in plain text: the demo has no security
// boundary to protect.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/ids"
)

var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrEmailTaken         = errors.New("identity: email already registered")
	ErrNotFound           = errors.New("identity: user not found")
	ErrInvalidInput       = errors.New("identity: invalid input")
)

// User is an account. Email is unique across the directory.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Directory is the in-memory identity store. Users are never deleted or
// mutated once stored.
type Directory struct {
	mu      sync.RWMutex
	users   []User
	byID    map[string]int
	byEmail map[string]int

	newID ids.Generator
	now   func() time.Time
}

// Option configures a Directory.
type Option func(*Directory)

// WithIDs overrides the id generator.
func WithIDs(gen ids.Generator) Option {
	return func(d *Directory) {
		if gen != nil {
			d.newID = gen
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(d *Directory) {
		if fn != nil {
			d.now = fn
		}
	}
}

// NewDirectory creates an empty directory.
func NewDirectory(opts ...Option) *Directory {
	d := &Directory{
		byID:    make(map[string]int),
		byEmail: make(map[string]int),
		newID:   ids.For(ids.PrefixUser),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Seed stores users with caller-chosen ids, as loaded at bootstrap.
func (d *Directory) Seed(ctx context.Context, users ...User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range users {
		if u.ID == "" {
			return fmt.Errorf("%w: seeded user needs an id", ErrInvalidInput)
		}
		if _, ok := d.byID[u.ID]; ok {
			return fmt.Errorf("%w: duplicate user id %q", ErrInvalidInput, u.ID)
		}
		if _, ok := d.byEmail[u.Email]; ok {
			return fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = d.now().UTC()
		}
		d.insert(u)
	}
	return nil
}

// Authenticate returns the user whose email and password both match exactly.
// No normalization is applied: matching is case-sensitive.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Email == email && u.Password == password {
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// Register creates a new account. Field shape (empty name, short password)
// is the caller's concern; only email uniqueness is enforced here.
func (d *Directory) Register(ctx context.Context, name, email, password string) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byEmail[email]; ok {
		return User{}, ErrEmailTaken
	}
	u := User{
		ID:        d.newID(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: d.now().UTC(),
	}
	d.insert(u)
	return u, nil
}

// Find looks a user up by id.
func (d *Directory) Find(ctx context.Context, id string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	idx, ok := d.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return d.users[idx], nil
}

// List returns all users in registration order.
func (d *Directory) List(ctx context.Context) []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}

// Len reports the number of stored users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

func (d *Directory) insert(u User) {
	d.users = append(d.users, u)
	idx := len(d.users) - 1
	d.byID[u.ID] = idx
	d.byEmail[u.Email] = idx
}
