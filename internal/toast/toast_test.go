package toast

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler fires scheduled functions when the test advances time.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

func toastIDs(list []Toast) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func TestEmitAndExpire(t *testing.T) {
	sched := &manualScheduler{}
	c := New(WithScheduler(sched))

	first := c.Emit("saved", Success, 100*time.Millisecond)
	second := c.Emit("heads up", Info, time.Second)
	assert.Equal(t, []string{first.ID, second.ID}, toastIDs(c.Active()))
	assert.Equal(t, 2, c.Pending())

	sched.Advance(150 * time.Millisecond)
	assert.Equal(t, []string{second.ID}, toastIDs(c.Active()), "only the expired toast is removed")

	sched.Advance(time.Second)
	assert.Empty(t, c.Active())
	assert.Zero(t, c.Pending())
}

func TestDefaultDuration(t *testing.T) {
	sched := &manualScheduler{}
	c := New(WithScheduler(sched), WithDefaultDuration(500*time.Millisecond))

	tt := c.Success("ok")
	assert.Equal(t, 500*time.Millisecond, tt.Duration)
	assert.Equal(t, Success, tt.Kind)

	sched.Advance(499 * time.Millisecond)
	assert.Len(t, c.Active(), 1)
	sched.Advance(time.Millisecond)
	assert.Empty(t, c.Active())
}

func TestDismissIsIdempotentAndRacesExpiry(t *testing.T) {
	sched := &manualScheduler{}
	var removed []string
	c := New(WithScheduler(sched), WithHooks(nil, func(t Toast) { removed = append(removed, t.ID) }))

	tt := c.Error("boom")
	assert.True(t, c.Dismiss(tt.ID))
	assert.False(t, c.Dismiss(tt.ID))
	assert.False(t, c.Dismiss("toast_unknown"))

	sched.Advance(time.Hour)
	assert.Equal(t, []string{tt.ID}, removed, "removal happens exactly once")
}

func TestExpiryAfterDismissIsNoop(t *testing.T) {
	c := New(WithScheduler(&manualScheduler{}))
	a := c.Info("a")
	b := c.Info("b")

	// Expiry callback for an already-dismissed id must not disturb others.
	require.True(t, c.Dismiss(a.ID))
	assert.False(t, c.remove(a.ID))
	assert.Equal(t, []string{b.ID}, toastIDs(c.Active()))
}

func TestCloseCancelsPendingRemovals(t *testing.T) {
	sched := &manualScheduler{}
	var removed int
	c := New(WithScheduler(sched), WithHooks(nil, func(Toast) { removed++ }))
	c.Info("one")
	c.Info("two")

	c.Close()
	assert.Empty(t, c.Active())
	assert.Zero(t, c.Pending())
	assert.Equal(t, 2, removed)

	for _, timer := range sched.timers {
		assert.True(t, timer.stopped, "every scheduled removal is cancelled")
	}

	late := c.Info("after close")
	assert.NotEmpty(t, late.ID)
	assert.Empty(t, c.Active())
	c.Close()
}

func TestSynchronousSchedulerDoesNotDeadlock(t *testing.T) {
	c := New(WithScheduler(schedulerFunc(func(d time.Duration, f func()) Timer {
		f()
		return stopped{}
	})))
	c.Info("gone immediately")
	assert.Empty(t, c.Active())
	assert.Zero(t, c.Pending())
}

type schedulerFunc func(time.Duration, func()) Timer

func (f schedulerFunc) AfterFunc(d time.Duration, fn func()) Timer { return f(d, fn) }

type stopped struct{}

func (stopped) Stop() bool { return false }

func TestCuePanicIsSwallowed(t *testing.T) {
	played := make(chan Toast, 1)
	c := New(WithScheduler(&manualScheduler{}), WithCue(func(t Toast) {
		played <- t
		panic("no audio device")
	}))

	tt := c.Success("ding")
	select {
	case got := <-played:
		assert.Equal(t, tt.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("cue was not played")
	}
	assert.Len(t, c.Active(), 1)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	sched := &manualScheduler{}
	c := New(WithScheduler(sched))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := c.Subscribe(ctx)
	tt := c.Emit("hello", Info, time.Second)
	sched.Advance(time.Second)

	first := <-events
	second := <-events
	assert.Equal(t, Event{Type: Emitted, Toast: tt}, first)
	assert.Equal(t, Removed, second.Type)
	assert.Equal(t, tt.ID, second.Toast.ID)

	c.Close()
	_, open := <-events
	assert.False(t, open, "subscription ends with the channel")

	closedSub := c.Subscribe(context.Background())
	_, open = <-closedSub
	assert.False(t, open)
}

func TestSubscribeEndsWithContext(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	events := c.Subscribe(ctx)
	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after cancel")
	}
	c.Close()
}

func TestRealTimerExpiry(t *testing.T) {
	c := New()
	defer c.Close()

	short := c.Emit("short", Info, 100*time.Millisecond)
	long := c.Emit("long", Info, 5*time.Second)

	time.Sleep(150 * time.Millisecond)
	active := toastIDs(c.Active())
	assert.NotContains(t, active, short.ID)
	assert.Contains(t, active, long.ID)
}

func TestMarshalJSONUsesMilliseconds(t *testing.T) {
	tt := Toast{ID: "toast_1", Message: "hi", Kind: Success, Duration: 1500 * time.Millisecond}
	data, err := json.Marshal(tt)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "toast_1", decoded["id"])
	assert.Equal(t, "success", decoded["type"])
	assert.Equal(t, 1500.0, decoded["duration"])
}
