package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/store/memory"
	mongostore "fintrack/internal/store/mongo"
)

// Factory creates backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the backend named by config. The mongo backend degrades to
// the in-memory store when the database is unreachable: data then lives only
// for the lifetime of the process, matching the session-storage fallback.
func (f *Factory) Create(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case MongoBackend:
		res, err := f.createMongo(ctx, config)
		if err != nil {
			f.logger.Warn("MongoDB unreachable, falling back to in-memory storage",
				"error", err,
				"uri", config.MongoURI)
			return f.createMemory(), nil
		}
		return res, nil
	case MemoryBackend:
		return f.createMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *Factory) createMongo(ctx context.Context, config Config) (*Result, error) {
	st, err := mongostore.New(ctx, config.MongoURI, config.MongoDB)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Initialized MongoDB backend", "database", config.MongoDB)

	return &Result{
		Backend: st,
		Type:    MongoBackend,
		Cleanup: st.Close,
	}, nil
}

func (f *Factory) createMemory() *Result {
	f.logger.Info("Initialized memory backend")

	return &Result{
		Backend: memory.New(),
		Type:    MemoryBackend,
		Cleanup: nil,
	}
}
