package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("record not found")

// Ports for outbound storage adapters. Every operation is scoped to a single
// user email; adapters must never return another user's records.
type (
	TransactionStore interface {
		// AddTransaction persists a transaction and returns its id.
		AddTransaction(ctx context.Context, t core.Transaction) (string, error)
		// ListTransactions returns all of the user's transactions, newest first.
		ListTransactions(ctx context.Context, email string) ([]core.Transaction, error)
		// DeleteTransaction removes the user's transaction with the given id.
		DeleteTransaction(ctx context.Context, email, id string) error
	}

	BudgetStore interface {
		// UpsertBudget creates or replaces the (user, category) limit.
		UpsertBudget(ctx context.Context, b core.Budget) error
		// ListBudgets returns the user's budget, seeding defaults on first touch.
		ListBudgets(ctx context.Context, email string) ([]core.Budget, error)
	}

	GoalStore interface {
		AddGoal(ctx context.Context, g core.Goal) (string, error)
		// ListGoals returns the user's goals, seeding defaults on first touch.
		ListGoals(ctx context.Context, email string) ([]core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) error
		DeleteGoal(ctx context.Context, email, id string) error
	}

	ProfileStore interface {
		// GetProfile returns the user's profile, creating the default one for
		// a fresh user.
		GetProfile(ctx context.Context, email string) (core.Profile, error)
		SaveProfile(ctx context.Context, p core.Profile) error
	}
)
