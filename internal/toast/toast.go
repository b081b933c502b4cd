// Package toast implements the ephemeral feedback channel of a session:
// self-expiring messages shown to the acting user only.
package toast

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/ids"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// DefaultDuration is how long a toast stays visible when no duration is given.
const DefaultDuration = 3 * time.Second

type Toast struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	Kind      Kind          `json:"type"`
	Duration  time.Duration `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

// MarshalJSON reports the duration in milliseconds.
func (t Toast) MarshalJSON() ([]byte, error) {
	type plain Toast
	return json.Marshal(struct {
		plain
		DurationMS int64 `json:"duration"`
	}{plain: plain(t), DurationMS: t.Duration.Milliseconds()})
}

// EventType tells subscribers what happened to a toast.
type EventType string

const (
	Emitted EventType = "emitted"
	Removed EventType = "removed"
)

type Event struct {
	Type  EventType `json:"event"`
	Toast Toast     `json:"toast"`
}

// Cue is a side-channel signal (an audio ping in the UI) fired on emit.
// It runs on its own goroutine; a panic inside it is swallowed.
type Cue func(Toast)

// Channel holds the active toasts of one session and fans events out to
// subscribers (SSE clients).
type Channel struct {
	mu     sync.Mutex
	active []Toast
	timers map[string]Timer
	subs   map[int]chan Event
	next   int
	closed bool
	done   chan struct{}

	sched           Scheduler
	defaultDuration time.Duration
	cue             Cue
	onEmit          func(Toast)
	onRemove        func(Toast)
	newID           ids.Generator
	now             func() time.Time
}

type Option func(*Channel)

// WithScheduler overrides the timer source (tests use a manual clock).
func WithScheduler(s Scheduler) Option {
	return func(c *Channel) {
		if s != nil {
			c.sched = s
		}
	}
}

func WithDefaultDuration(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.defaultDuration = d
		}
	}
}

func WithCue(cue Cue) Option {
	return func(c *Channel) { c.cue = cue }
}

// WithHooks registers callbacks run after a toast is emitted or removed.
func WithHooks(onEmit, onRemove func(Toast)) Option {
	return func(c *Channel) {
		c.onEmit = onEmit
		c.onRemove = onRemove
	}
}

func WithIDs(gen ids.Generator) Option {
	return func(c *Channel) {
		if gen != nil {
			c.newID = gen
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(c *Channel) {
		if fn != nil {
			c.now = fn
		}
	}
}

func New(opts ...Option) *Channel {
	c := &Channel{
		timers:          make(map[string]Timer),
		subs:            make(map[int]chan Event),
		done:            make(chan struct{}),
		sched:           RealScheduler{},
		defaultDuration: DefaultDuration,
		newID:           ids.For(ids.PrefixToast),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Emit shows a toast and schedules its removal after d (DefaultDuration
// when d <= 0). After Close the toast is returned but never shown.
func (c *Channel) Emit(message string, kind Kind, d time.Duration) Toast {
	if d <= 0 {
		d = c.defaultDuration
	}
	t := Toast{
		ID:        c.newID(),
		Message:   message,
		Kind:      kind,
		Duration:  d,
		CreatedAt: c.now().UTC(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return t
	}
	c.active = append(c.active, t)
	c.publish(Event{Type: Emitted, Toast: t})
	c.mu.Unlock()

	timer := c.sched.AfterFunc(d, func() { c.remove(t.ID) })
	c.mu.Lock()
	if c.isActive(t.ID) && !c.closed {
		c.timers[t.ID] = timer
	} else {
		timer.Stop()
	}
	c.mu.Unlock()

	if c.onEmit != nil {
		c.onEmit(t)
	}
	c.playCue(t)
	return t
}

func (c *Channel) Success(message string) Toast { return c.Emit(message, Success, 0) }
func (c *Channel) Error(message string) Toast   { return c.Emit(message, Error, 0) }
func (c *Channel) Info(message string) Toast    { return c.Emit(message, Info, 0) }

func (c *Channel) playCue(t Toast) {
	if c.cue == nil {
		return
	}
	go func() {
		defer func() { _ = recover() }()
		c.cue(t)
	}()
}

// Active returns the visible toasts, oldest first.
func (c *Channel) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.active))
	copy(out, c.active)
	return out
}

// Dismiss removes a toast before it expires. Unknown or already expired ids
// are ignored.
func (c *Channel) Dismiss(id string) bool {
	c.mu.Lock()
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
	}
	c.mu.Unlock()
	return c.remove(id)
}

// remove filters by id, so expiry racing a dismissal removes at most once.
func (c *Channel) remove(id string) bool {
	c.mu.Lock()
	idx := -1
	for i, t := range c.active {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	t := c.active[idx]
	c.active = append(c.active[:idx:idx], c.active[idx+1:]...)
	delete(c.timers, id)
	c.publish(Event{Type: Removed, Toast: t})
	c.mu.Unlock()

	if c.onRemove != nil {
		c.onRemove(t)
	}
	return true
}

// Close cancels every pending removal, clears the active list and ends all
// subscriptions. Emit after Close is inert.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	dropped := c.active
	c.active = nil
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	close(c.done)
	c.mu.Unlock()

	if c.onRemove != nil {
		for _, t := range dropped {
			c.onRemove(t)
		}
	}
}

// Pending reports how many removals are still scheduled.
func (c *Channel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Subscribe registers a subscriber. The channel is closed when ctx ends or
// the toast channel is closed.
func (c *Channel) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch
	}
	id := c.next
	c.next++
	c.subs[id] = ch
	c.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-c.done:
		}
		c.mu.Lock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
		c.mu.Unlock()
	}()

	return ch
}

// publish must be called with c.mu held.
func (c *Channel) publish(evt Event) {
	for _, ch := range c.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

func (c *Channel) isActive(id string) bool {
	for _, t := range c.active {
		if t.ID == id {
			return true
		}
	}
	return false
}
