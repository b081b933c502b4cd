// Package conference stores conference records together with their
// embedded role maps.
package conference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/ids"
)

var (
	ErrNotFound     = errors.New("conference: not found")
	ErrInvalidInput = errors.New("conference: invalid input")
	ErrUnknownRole  = errors.New("conference: unknown role")
)

// Template selects the public page layout.
type Template string

const (
	TemplateModern  Template = "modern"
	TemplateClassic Template = "classic"
)

// ParseTemplate accepts "modern" or "classic"; empty means modern.
func ParseTemplate(raw string) (Template, error) {
	switch t := Template(strings.ToLower(strings.TrimSpace(raw))); t {
	case "":
		return TemplateModern, nil
	case TemplateModern, TemplateClassic:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown template %q", ErrInvalidInput, raw)
	}
}

// Draft carries the user-supplied fields of a new conference.
type Draft struct {
	Name        string   `json:"name"`
	Theme       string   `json:"theme"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Template    Template `json:"template"`
	Banner      string   `json:"banner"`
}

// Validate applies the creation form rules: name, theme, location and an
// ISO date (YYYY-MM-DD) are required, the template must be known.
// Create does not call it; form validation belongs to the caller.
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Theme) == "" {
		missing = append(missing, "theme")
	}
	if strings.TrimSpace(d.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(d.Date) == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(d.Date)); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if _, err := ParseTemplate(string(d.Template)); err != nil {
		return err
	}
	return nil
}

// Conference is a conference record. Authorization labels come from Roles
// only; OrganizerID records who created it.
type Conference struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Theme       string          `json:"theme"`
	Location    string          `json:"location"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Template    Template        `json:"template"`
	Banner      string          `json:"banner"`
	OrganizerID string          `json:"organizer_id"`
	Roles       map[string]Role `json:"roles"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RoleOf returns the role mapped to userID, if any.
func (c Conference) RoleOf(userID string) (Role, bool) {
	if userID == "" || c.Roles == nil {
		return "", false
	}
	r, ok := c.Roles[userID]
	return r, ok
}

func (c Conference) clone() Conference {
	out := c
	out.Roles = make(map[string]Role, len(c.Roles))
	for k, v := range c.Roles {
		out.Roles[k] = v
	}
	return out
}

// Predicate filters conferences in List.
type Predicate func(Conference) bool

// All matches every conference.
func All(Conference) bool { return true }

// MemberOf matches conferences whose role map contains userID.
func MemberOf(userID string) Predicate {
	return func(c Conference) bool {
		_, ok := c.RoleOf(userID)
		return ok
	}
}

// NotMemberOf is the complement of MemberOf.
func NotMemberOf(userID string) Predicate {
	member := MemberOf(userID)
	return func(c Conference) bool { return !member(c) }
}

// Store is the in-memory conference store; List preserves insertion order.
type Store struct {
	mu    sync.RWMutex
	confs []*Conference
	byID  map[string]*Conference

	newID ids.Generator
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

func WithIDs(gen ids.Generator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		byID:  make(map[string]*Conference),
		newID: ids.For(ids.PrefixConference),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new conference owned by organizerID, who is mapped to
// Organizer in the role map.
func (s *Store) Create(ctx context.Context, organizerID string, d Draft) (Conference, error) {
	if strings.TrimSpace(organizerID) == "" {
		return Conference{}, fmt.Errorf("%w: organizer is required", ErrInvalidInput)
	}
	tmpl, err := ParseTemplate(string(d.Template))
	if err != nil {
		return Conference{}, err
	}
	c := &Conference{
		ID:          s.newID(),
		Name:        d.Name,
		Theme:       d.Theme,
		Location:    d.Location,
		Date:        d.Date,
		Description: d.Description,
		Template:    tmpl,
		Banner:      d.Banner,
		OrganizerID: organizerID,
		Roles:       map[string]Role{organizerID: Organizer},
		CreatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.confs = append(s.confs, c)
	s.byID[c.ID] = c
	return c.clone(), nil
}

// Seed stores bundled conferences with their ids and role maps as given.
func (s *Store) Seed(ctx context.Context, confs ...Conference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range confs {
		if c.ID == "" {
			return fmt.Errorf("%w: seeded conference needs an id", ErrInvalidInput)
		}
		if _, ok := s.byID[c.ID]; ok {
			return fmt.Errorf("%w: duplicate conference id %q", ErrInvalidInput, c.ID)
		}
		for uid, r := range c.Roles {
			if !r.Valid() {
				return fmt.Errorf("%w: %q for user %s", ErrUnknownRole, r, uid)
			}
		}
		if c.Template == "" {
			c.Template = TemplateModern
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = s.now().UTC()
		}
		stored := c.clone()
		s.confs = append(s.confs, &stored)
		s.byID[stored.ID] = &stored
	}
	return nil
}

// Get returns a copy of the conference.
func (s *Store) Get(ctx context.Context, id string) (Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return Conference{}, ErrNotFound
	}
	return c.clone(), nil
}

// List returns copies of the conferences matching pred, in insertion order.
// A nil predicate matches everything.
func (s *Store) List(ctx context.Context, pred Predicate) []Conference {
	if pred == nil {
		pred = All
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Conference, 0, len(s.confs))
	for _, c := range s.confs {
		if pred(*c) {
			out = append(out, c.clone())
		}
	}
	return out
}

// AssignRole maps userID to role in the conference, replacing any previous
// label. Demoting the last organizer is allowed; the role map is the only
// source of truth.
func (s *Store) AssignRole(ctx context.Context, confID, userID string, role Role) (Conference, error) {
	if strings.TrimSpace(userID) == "" {
		return Conference{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if !role.Valid() {
		return Conference{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[confID]
	if !ok {
		return Conference{}, ErrNotFound
	}
	c.Roles[userID] = role
	return c.clone(), nil
}

// Len reports the number of stored conferences.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.confs)
}
