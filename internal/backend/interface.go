package backend

import (
	"context"

	"fintrack/internal/store"
)

// Backend is the unified storage interface the HTTP layer works against.
type Backend interface {
	store.TransactionStore
	store.BudgetStore
	store.GoalStore
	store.ProfileStore

	// Ping verifies the backend is reachable, used by the readiness probe.
	Ping(ctx context.Context) error
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func(ctx context.Context) error

// Result contains the backend instance and an optional cleanup function.
type Result struct {
	Backend Backend
	Type    Type
	Cleanup CleanupFunc
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// Mongo specific
	MongoURI string
	MongoDB  string
}

// Type represents the kind of storage backend.
type Type string

const (
	MongoBackend  Type = "mongo"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case MongoBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
