package main

import (
	"log"
	"sync"
	"time"
)

const defaultSessionTTL = 30 * time.Minute

// Session is one visitor's server-side app state: their store, their swipe
// history and when they were last seen.
type Session struct {
	VisitorID string
	Store     *Store
	History   *SwipeHistory

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch marks the visitor as active "now".
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Sessions hands out one Session per visitor id. New sessions start from a
// copy of the shared profile catalog; idle ones are evicted after the TTL.
type Sessions struct {
	mu      sync.Mutex
	byID    map[string]*Session
	catalog []Profile
	ttl     time.Duration
}

// NewSessions builds a registry seeding new sessions from catalog.
// ttl <= 0 selects the default of 30 minutes.
func NewSessions(catalog []Profile, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	m := &Sessions{byID: make(map[string]*Session), ttl: ttl}
	m.SetCatalog(catalog)
	return m
}

// SetCatalog replaces the profile list future sessions start from.
// Existing sessions keep their own copy.
func (m *Sessions) SetCatalog(profiles []Profile) {
	next := make([]Profile, len(profiles))
	copy(next, profiles)
	m.mu.Lock()
	m.catalog = next
	m.mu.Unlock()
}

// Catalog returns a copy of the shared startup profile list.
func (m *Sessions) Catalog() []Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Profile, len(m.catalog))
	copy(out, m.catalog)
	return out
}

// Get returns the session for visitorID, creating and seeding it on first
// use.
func (m *Sessions) Get(visitorID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.byID[visitorID]
	if !ok {
		store := NewStore()
		store.SetProfiles(m.catalog)
		sess = &Session{
			VisitorID: visitorID,
			Store:     store,
			History:   NewSwipeHistory(0),
			lastSeen:  time.Now(),
		}
		m.byID[visitorID] = sess
	}
	return sess
}

// Peek returns the session without creating one.
func (m *Sessions) Peek(visitorID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.byID[visitorID]
	return sess, ok
}

func (m *Sessions) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// IsActive reports whether the visitor was seen within the TTL window.
func (m *Sessions) IsActive(visitorID string) bool {
	sess, ok := m.Peek(visitorID)
	return ok && time.Since(sess.LastSeen()) < m.ttl
}

// EvictIdle drops sessions idle longer than the TTL and returns how many
// were removed.
func (m *Sessions) EvictIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, sess := range m.byID {
		if time.Since(sess.LastSeen()) >= m.ttl {
			delete(m.byID, id)
			n++
		}
	}
	return n
}

// Janitor evicts idle sessions periodically until done is closed.
func (m *Sessions) Janitor(interval time.Duration, done <-chan struct{}) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := m.EvictIdle(); n > 0 {
				log.Printf("Evicted %d idle visitor sessions", n)
			}
		case <-done:
			return
		}
	}
}
