// Package session implements the trivial email-capture login: a session is
// an opaque token mapped to a normalized email and its SHA-256 user id.
// Sessions live in memory and expire after a TTL.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrInvalidEmail is returned when the login email is empty or malformed.
var ErrInvalidEmail = errors.New("invalid email")

// Session identifies a logged-in user.
type Session struct {
	Email     string // normalized (trimmed, lowercased)
	UserID    string // sha256 hex of the email
	ExpiresAt time.Time
}

// Manager tracks active sessions with periodic expiry cleanup.
type Manager struct {
	mu           sync.Mutex
	sessions     map[string]Session
	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// NewManager creates a session manager and starts its cleanup goroutine.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	m := &Manager{
		sessions:    make(map[string]Session),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go m.startCleanup()
	return m
}

// HashEmail derives the stable user id from an already-normalized email.
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

// Login validates and normalizes the email, then issues a session token.
func (m *Manager) Login(email string) (token string, s Session, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", Session{}, ErrInvalidEmail
	}

	token, err = newToken()
	if err != nil {
		return "", Session{}, err
	}
	s = Session{
		Email:     email,
		UserID:    HashEmail(email),
		ExpiresAt: time.Now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()
	return token, s, nil
}

// Get returns the session for a token, expiring it lazily.
func (m *Manager) Get(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, false
	}
	return s, true
}

// Logout removes a session. Unknown tokens are a no-op.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// ActiveSessions returns the number of currently tracked sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stop gracefully shuts down the cleanup goroutine.
func (m *Manager) Stop() {
	m.shutdownOnce.Do(func() {
		if m.stopCleanup != nil {
			close(m.stopCleanup)
		}
	})
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupExpired()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) cleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
