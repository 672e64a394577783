// Package session keeps the calculator sessions served over HTTP.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ibc_tool/pkg/core/calculator"

	"github.com/google/uuid"
)

// DefaultTTL is how long an idle session survives
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned for an unknown or expired session id
var ErrNotFound = errors.New("session not found")

// Session is one calculator plus its bookkeeping
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	calc      *calculator.Calculator
	updatedAt time.Time
}

// Do runs fn with exclusive access to the calculator
func (s *Session) Do(fn func(c *calculator.Calculator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
	return fn(s.calc)
}

// UpdatedAt reports the last time the session was used
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Manager maps session ids to calculators
type Manager struct {
	sessions map[string]*Session
	factory  func() *calculator.Calculator
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewManager creates a manager building calculators with factory.
// A nil factory uses calculator defaults; ttl <= 0 uses DefaultTTL.
func NewManager(factory func() *calculator.Calculator, ttl time.Duration) *Manager {
	if factory == nil {
		factory = func() *calculator.Calculator { return calculator.New(calculator.Options{}) }
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
		ttl:      ttl,
	}
}

// Create starts a new session
func (m *Manager) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		calc:      m.factory(),
		updatedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	fmt.Printf("[SESSION] Created %s\n", s.ID)
	return s
}

// Get retrieves a session by id
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Delete drops a session; unknown ids are ignored
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle since before now-ttl and returns how many were removed
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.UpdatedAt()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		fmt.Printf("[SESSION] Evicted %d idle sessions (%d left)\n", removed, len(m.sessions))
	}
	return removed
}

// StartCleanup sweeps every interval until ctx is done
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.Sweep(now)
			}
		}
	}()
}
