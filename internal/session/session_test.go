package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func TestSessionLifecycle(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(10*time.Minute, WithClock(clock.Now))

	s := m.Start("alice", "addr-1")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, clock.Now().Add(10*time.Minute), s.ExpiresAt)
	assert.True(t, s.IsActive())
	assert.True(t, m.IsActive("alice"))
	assert.False(t, m.IsActive("bob"))
	assert.Equal(t, 10*time.Minute, s.Remaining())

	clock.Advance(9 * time.Minute)
	assert.True(t, s.IsActive())

	clock.Advance(time.Minute)
	assert.False(t, s.IsActive(), "session ends exactly at expiry")
	assert.False(t, m.IsActive("alice"))
	assert.Zero(t, s.Remaining())
}

func TestStartSupersedes(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(time.Minute, WithClock(clock.Now))
	rec := &recorder{}
	m.Subscribe(rec.record)

	first := m.Start("alice", "addr")
	second := m.Start("alice", "addr")

	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.IsActive())
	assert.True(t, second.IsActive())
	assert.Equal(t, []EventKind{Opened, Superseded, Opened}, rec.kinds())

	// ending a superseded handle does not touch the current session
	first.End()
	assert.True(t, second.IsActive())
}

func TestReturnedSessionsAreCopies(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(time.Minute, WithClock(clock.Now))

	s := m.Start("alice", "addr-1")
	s.ExpiresAt = s.ExpiresAt.Add(time.Hour)

	cur, ok := m.Active("alice")
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(time.Minute), cur.ExpiresAt)
	cur.ExpiresAt = cur.ExpiresAt.Add(time.Hour)

	clock.Advance(2 * time.Minute)
	assert.False(t, m.IsActive("alice"))
	assert.False(t, s.IsActive())
}

func TestEnd(t *testing.T) {
	m := NewManager(time.Minute)
	rec := &recorder{}
	m.Subscribe(rec.record)

	s := m.Start("alice", "addr")
	assert.True(t, m.End("alice"))
	assert.False(t, s.IsActive())
	assert.False(t, m.End("alice"))
	assert.Equal(t, []EventKind{Opened, Closed}, rec.kinds())

	s = m.Start("alice", "addr")
	s.End()
	assert.False(t, m.IsActive("alice"))
}

func TestExpiryIsReportedOnce(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(time.Minute, WithClock(clock.Now))
	rec := &recorder{}
	m.Subscribe(rec.record)

	m.Start("alice", "addr")
	clock.Advance(2 * time.Minute)

	_, ok := m.Active("alice")
	assert.False(t, ok)
	_, ok = m.Active("alice")
	assert.False(t, ok)
	assert.Equal(t, []EventKind{Opened, Expired}, rec.kinds())
}

func TestEndAllAndSweep(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(time.Minute, WithClock(clock.Now))

	m.Start("alice", "a")
	clock.Advance(30 * time.Second)
	m.Start("bob", "b")
	clock.Advance(45 * time.Second)

	assert.Equal(t, 1, m.Sweep())
	assert.False(t, m.IsActive("alice"))
	assert.True(t, m.IsActive("bob"))

	m.Start("carol", "c")
	m.EndAll()
	assert.False(t, m.IsActive("bob"))
	assert.False(t, m.IsActive("carol"))
}

func TestUnsubscribe(t *testing.T) {
	m := NewManager(time.Minute)
	rec := &recorder{}
	unsubscribe := m.Subscribe(rec.record)

	m.Start("alice", "addr")
	unsubscribe()
	unsubscribe()
	m.End("alice")

	assert.Equal(t, []EventKind{Opened}, rec.kinds())
}

func TestDefaultLifetime(t *testing.T) {
	m := NewManager(0)
	assert.Equal(t, DefaultLifetime, m.Lifetime())
}

func TestConcurrentIdentities(t *testing.T) {
	m := NewManager(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			s := m.Start(id, "addr")
			_ = s.IsActive()
			m.End(id)
		}(i)
	}
	wg.Wait()

	var nilSession *Session
	require.False(t, nilSession.IsActive())
}
