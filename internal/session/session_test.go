package session

import (
	"testing"
	"time"
)

func TestLoginNormalizesEmail(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Stop()

	token, s, err := m.Login("  User@Example.COM ")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.Email != "user@example.com" {
		t.Fatalf("email: got %q", s.Email)
	}
	if s.UserID != HashEmail("user@example.com") {
		t.Fatalf("user id not derived from normalized email")
	}

	got, ok := m.Get(token)
	if !ok || got.Email != s.Email {
		t.Fatalf("get after login failed: %v %v", got, ok)
	}
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Stop()

	for _, email := range []string{"", "   ", "no-at-sign"} {
		if _, _, err := m.Login(email); err == nil {
			t.Fatalf("expected error for %q", email)
		}
	}
}

func TestLogout(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Stop()

	token, _, err := m.Login("a@b.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	m.Logout(token)
	if _, ok := m.Get(token); ok {
		t.Fatalf("session survived logout")
	}
	// Idempotent.
	m.Logout(token)
}

func TestSessionExpiry(t *testing.T) {
	m := NewManager(10 * time.Millisecond)
	defer m.Stop()

	token, _, err := m.Login("a@b.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := m.Get(token); ok {
		t.Fatalf("expired session still returned")
	}
	if m.ActiveSessions() != 0 {
		t.Fatalf("expired session not removed, active=%d", m.ActiveSessions())
	}
}

func TestTokensAreUnique(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Stop()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		token, _, err := m.Login("a@b.com")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token issued")
		}
		seen[token] = struct{}{}
	}
}
