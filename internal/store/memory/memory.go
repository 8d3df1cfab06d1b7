// Package memory implements the storage ports with mutex-guarded in-memory
// maps. It backs the session-scoped fallback used when the document database
// is unreachable, and it is the store unit tests run against.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type userData struct {
	transactions []core.Transaction
	budgets      []core.Budget
	goals        []core.Goal
	profile      core.Profile
}

type Store struct {
	mu    sync.Mutex
	users map[string]*userData
	seq   int64
}

func New() *Store {
	return &Store{users: make(map[string]*userData)}
}

// ensure returns the user's data bucket, seeding the default budget, goals,
// and profile on first touch.
func (s *Store) ensure(email string) *userData {
	u, ok := s.users[email]
	if !ok {
		u = &userData{
			budgets: core.DefaultBudget(email),
			goals:   core.DefaultGoals(email),
			profile: core.NewProfile(email, time.Now().UTC()),
		}
		for i := range u.goals {
			u.goals[i].ID = s.nextID()
		}
		s.users[email] = u
	}
	return u
}

func (s *Store) nextID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		s.seq++
		return fmt.Sprintf("mem:%d", s.seq)
	}
	return hex.EncodeToString(b)
}

// AddTransaction implements store.TransactionStore.
func (s *Store) AddTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(t.UserEmail)
	t.ID = s.nextID()
	u.transactions = append(u.transactions, t)
	return t.ID, nil
}

// ListTransactions implements store.TransactionStore.
func (s *Store) ListTransactions(_ context.Context, email string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(email)
	out := append([]core.Transaction(nil), u.transactions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// DeleteTransaction implements store.TransactionStore.
func (s *Store) DeleteTransaction(_ context.Context, email, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(email)
	for i, t := range u.transactions {
		if t.ID == id {
			u.transactions = append(u.transactions[:i], u.transactions[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// UpsertBudget implements store.BudgetStore.
func (s *Store) UpsertBudget(_ context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(b.UserEmail)
	for i := range u.budgets {
		if u.budgets[i].Category == b.Category {
			u.budgets[i].Limit = b.Limit
			return nil
		}
	}
	u.budgets = append(u.budgets, b)
	return nil
}

// ListBudgets implements store.BudgetStore.
func (s *Store) ListBudgets(_ context.Context, email string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(email)
	return append([]core.Budget(nil), u.budgets...), nil
}

// AddGoal implements store.GoalStore.
func (s *Store) AddGoal(_ context.Context, g core.Goal) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(g.UserEmail)
	g.ID = s.nextID()
	u.goals = append(u.goals, g)
	return g.ID, nil
}

// ListGoals implements store.GoalStore.
func (s *Store) ListGoals(_ context.Context, email string) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(email)
	return append([]core.Goal(nil), u.goals...), nil
}

// UpdateGoal implements store.GoalStore.
func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(g.UserEmail)
	for i := range u.goals {
		if u.goals[i].ID == g.ID {
			u.goals[i] = g
			return nil
		}
	}
	return store.ErrNotFound
}

// DeleteGoal implements store.GoalStore.
func (s *Store) DeleteGoal(_ context.Context, email, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(email)
	for i, g := range u.goals {
		if g.ID == id {
			u.goals = append(u.goals[:i], u.goals[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// GetProfile implements store.ProfileStore.
func (s *Store) GetProfile(_ context.Context, email string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure(email).profile, nil
}

// SaveProfile implements store.ProfileStore.
func (s *Store) SaveProfile(_ context.Context, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(p.UserEmail)
	// Email and member-since are immutable.
	p.UserEmail = u.profile.UserEmail
	p.MemberSince = u.profile.MemberSince
	u.profile = p
	return nil
}

// Ping reports the store as always reachable.
func (s *Store) Ping(_ context.Context) error {
	return nil
}
