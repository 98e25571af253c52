// internal/session/manager.go
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/taskdeck/internal/models"
)

// DefaultLifetime matches the reference configuration of one day.
const DefaultLifetime = 24 * time.Hour

// Session binds a browser client to a logged-in user until ExpiresAt.
type Session struct {
	Token     string
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Manager is an in-process session store. Sessions are the only
// cross-request mutable state in the system, so all access goes through
// the mutex.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]Session
	lifetime time.Duration
	now      func() time.Time // swapped in tests
}

func NewManager(lifetime time.Duration) *Manager {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Manager{
		sessions: make(map[string]Session),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Lifetime returns the configured session lifetime.
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// Create issues a fresh session for the user. A new token is minted on
// every login, never reused.
func (m *Manager) Create(user *models.User) Session {
	s := Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: m.now().Add(m.lifetime),
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s
}

// Get returns the session for token, or nil when the token is unknown or
// expired. Expired entries are removed on the way out.
func (m *Manager) Get(token string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil
	}
	if m.now().After(s.ExpiresAt) {
		m.Destroy(token)
		return nil
	}
	return &s
}

// Destroy removes the session unconditionally. Destroying an unknown or
// already-destroyed token is not an error.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Len reports the number of live entries, including any not yet pruned.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
