// Package session tracks time-bounded unlock sessions, at most one per
// identity. Sessions live only in memory and never hold key material.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultLifetime is used when a Manager is created with a zero lifetime.
const DefaultLifetime = 15 * time.Minute

// EventKind says why a session changed state.
type EventKind string

const (
	Opened     EventKind = "opened"
	Closed     EventKind = "closed"
	Expired    EventKind = "expired"
	Superseded EventKind = "superseded"
)

// Event is delivered to subscribers after the state change is applied.
type Event struct {
	Kind    EventKind
	Session Session
}

// Session is an unlock session. Its fields never change after Start.
type Session struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	Address   string    `json:"address"`
	OpenedAt  time.Time `json:"openedAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	mgr *Manager
}

// IsActive reports whether this session is still the identity's current,
// unexpired session.
func (s *Session) IsActive() bool {
	if s == nil || s.mgr == nil {
		return false
	}
	cur, ok := s.mgr.Active(s.Identity)
	return ok && cur.ID == s.ID
}

// End closes this session if it is still current.
func (s *Session) End() {
	if s == nil || s.mgr == nil {
		return
	}
	s.mgr.endIf(s.Identity, s.ID)
}

// Remaining returns the time left before expiry, or zero.
func (s *Session) Remaining() time.Duration {
	if s == nil || s.mgr == nil {
		return 0
	}
	d := s.ExpiresAt.Sub(s.mgr.now())
	if d < 0 {
		return 0
	}
	return d
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager owns the sessions of all identities. Expiry is evaluated lazily
// on access; no goroutines are started.
type Manager struct {
	mu       sync.Mutex
	lifetime time.Duration
	now      func() time.Time
	sessions map[string]*Session
	subs     map[int]func(Event)
	nextSub  int
}

// NewManager creates a Manager whose sessions last lifetime.
func NewManager(lifetime time.Duration, opts ...Option) *Manager {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	m := &Manager{
		lifetime: lifetime,
		now:      time.Now,
		sessions: make(map[string]*Session),
		subs:     make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lifetime returns the session lifetime.
func (m *Manager) Lifetime() time.Duration { return m.lifetime }

// Start opens a new session for identity, superseding any existing one.
// The returned session is a copy; the manager's record cannot be altered
// through it.
func (m *Manager) Start(identity, address string) *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Identity:  identity,
		Address:   address,
		OpenedAt:  now,
		ExpiresAt: now.Add(m.lifetime),
		mgr:       m,
	}

	var events []Event
	m.mu.Lock()
	if prev, ok := m.sessions[identity]; ok {
		if m.expiredLocked(prev, now) {
			events = append(events, Event{Kind: Expired, Session: *prev})
		} else {
			events = append(events, Event{Kind: Superseded, Session: *prev})
		}
	}
	m.sessions[identity] = s
	events = append(events, Event{Kind: Opened, Session: *s})
	m.mu.Unlock()

	log.Debug().Str("identity", identity).Str("session", s.ID).Time("expiresAt", s.ExpiresAt).Msg("session opened")
	m.emit(events)
	cp := *s
	return &cp
}

// Active returns a copy of the identity's unexpired session. An expired
// session is removed and reported as Expired.
func (m *Manager) Active(identity string) (*Session, bool) {
	now := m.now()
	m.mu.Lock()
	s, ok := m.sessions[identity]
	if !ok {
		m.mu.Unlock()
		return nil, false
	}
	if m.expiredLocked(s, now) {
		delete(m.sessions, identity)
		m.mu.Unlock()
		m.emit([]Event{{Kind: Expired, Session: *s}})
		return nil, false
	}
	cp := *s
	m.mu.Unlock()
	return &cp, true
}

// IsActive reports whether identity has an unexpired session.
func (m *Manager) IsActive(identity string) bool {
	_, ok := m.Active(identity)
	return ok
}

// End closes the identity's session. It reports whether one was open.
func (m *Manager) End(identity string) bool {
	return m.endIf(identity, "")
}

func (m *Manager) endIf(identity, id string) bool {
	now := m.now()
	m.mu.Lock()
	s, ok := m.sessions[identity]
	if !ok || (id != "" && s.ID != id) {
		m.mu.Unlock()
		return false
	}
	delete(m.sessions, identity)
	kind := Closed
	if m.expiredLocked(s, now) {
		kind = Expired
	}
	m.mu.Unlock()

	m.emit([]Event{{Kind: kind, Session: *s}})
	return kind == Closed
}

// EndAll closes every session.
func (m *Manager) EndAll() {
	now := m.now()
	m.mu.Lock()
	events := make([]Event, 0, len(m.sessions))
	for identity, s := range m.sessions {
		kind := Closed
		if m.expiredLocked(s, now) {
			kind = Expired
		}
		events = append(events, Event{Kind: kind, Session: *s})
		delete(m.sessions, identity)
	}
	m.mu.Unlock()
	m.emit(events)
}

// Sweep removes expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	var events []Event
	for identity, s := range m.sessions {
		if m.expiredLocked(s, now) {
			events = append(events, Event{Kind: Expired, Session: *s})
			delete(m.sessions, identity)
		}
	}
	m.mu.Unlock()
	m.emit(events)
	return len(events)
}

// Subscribe registers fn for every state change. Handlers run on the
// goroutine that caused the change and must not block. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

func (m *Manager) expiredLocked(s *Session, now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (m *Manager) emit(events []Event) {
	if len(events) == 0 {
		return
	}
	m.mu.Lock()
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}
