package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func expense(email, cat, amount string, day int) core.Transaction {
	return core.Transaction{
		UserEmail: email,
		Type:      core.Expense,
		Category:  cat,
		Amount:    decimal.RequireFromString(amount),
		Date:      time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	id1, err := s.AddTransaction(ctx, expense("a@b.com", "Food", "10", 1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.AddTransaction(ctx, expense("a@b.com", "Food", "20", 5)); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := s.ListTransactions(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2, got %d", len(items))
	}
	// Newest first.
	if !items[0].Date.After(items[1].Date) {
		t.Fatalf("expected newest first, got %v then %v", items[0].Date, items[1].Date)
	}

	if err := s.DeleteTransaction(ctx, "a@b.com", id1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ = s.ListTransactions(ctx, "a@b.com")
	if len(items) != 1 {
		t.Fatalf("expected 1 after delete, got %d", len(items))
	}

	if err := s.DeleteTransaction(ctx, "a@b.com", "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, _ := s.AddTransaction(ctx, expense("a@b.com", "Food", "10", 1))

	other, err := s.ListTransactions(ctx, "x@y.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("leaked transactions across users: %d", len(other))
	}
	// Deleting across users must not find the record.
	if err := s.DeleteTransaction(ctx, "x@y.com", id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddTransactionRejectsInvalid(t *testing.T) {
	s := New()
	bad := expense("a@b.com", "Food", "10", 1)
	bad.Amount = decimal.Zero
	if _, err := s.AddTransaction(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestBudgetSeedAndUpsert(t *testing.T) {
	ctx := context.Background()
	s := New()

	budgets, err := s.ListBudgets(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(budgets) != len(core.ExpenseCategories) {
		t.Fatalf("expected seeded budget, got %d entries", len(budgets))
	}

	err = s.UpsertBudget(ctx, core.Budget{
		UserEmail: "a@b.com",
		Category:  "Food",
		Limit:     decimal.NewFromInt(9000),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	budgets, _ = s.ListBudgets(ctx, "a@b.com")
	if len(budgets) != len(core.ExpenseCategories) {
		t.Fatalf("upsert duplicated a category: %d entries", len(budgets))
	}
	for _, b := range budgets {
		if b.Category == "Food" && !b.Limit.Equal(decimal.NewFromInt(9000)) {
			t.Fatalf("limit not updated: %s", b.Limit)
		}
	}
}

func TestGoalSeedAndLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	goals, err := s.ListGoals(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 seeded goals, got %d", len(goals))
	}

	g := goals[0]
	g.Current = decimal.NewFromInt(20000)
	if err := s.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("update: %v", err)
	}
	goals, _ = s.ListGoals(ctx, "a@b.com")
	if !goals[0].Current.Equal(decimal.NewFromInt(20000)) {
		t.Fatalf("progress not saved: %s", goals[0].Current)
	}

	id, err := s.AddGoal(ctx, core.Goal{
		UserEmail: "a@b.com",
		Name:      "New Car",
		Target:    decimal.NewFromInt(300000),
		Current:   decimal.Zero,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.DeleteGoal(ctx, "a@b.com", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteGoal(ctx, "a@b.com", id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileUpdateKeepsMemberSince(t *testing.T) {
	ctx := context.Background()
	s := New()

	p, err := s.GetProfile(ctx, "maria@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "maria" {
		t.Fatalf("default name: got %q", p.Name)
	}

	update := p
	update.Name = "Maria Rossi"
	update.MemberSince = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SaveProfile(ctx, update); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := s.GetProfile(ctx, "maria@example.com")
	if got.Name != "Maria Rossi" {
		t.Fatalf("name not saved: %q", got.Name)
	}
	if !got.MemberSince.Equal(p.MemberSince) {
		t.Fatalf("member-since changed: %v", got.MemberSince)
	}
}
