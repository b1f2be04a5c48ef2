package backend

import (
	"context"
	"fmt"

	applog "tracker/internal/log"
	"tracker/internal/storage"
	"tracker/internal/storage/memory"
	"tracker/internal/storage/mongo"
	"tracker/internal/storage/postgres"
)

// Factory opens the ExpenseStore selected by Config.
type Factory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) *Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Factory{logger: logger.WithComponent(applog.ComponentBackend)}
}

func (f *Factory) Open(ctx context.Context, cfg Config) (ExpenseStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case MongoBackend:
		repo, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB store: %w", err)
		}
		f.logger.Info("Initialized MongoDB backend", applog.FieldBackend, cfg.Type, "database", cfg.MongoDatabase)
		return repo, nil

	case PostgresBackend:
		pg, err := postgres.NewStorage(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL store: %w", err)
		}
		f.logger.Info("Initialized PostgreSQL backend", applog.FieldBackend, cfg.Type)
		return pg, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", applog.FieldBackend, cfg.Type, "db_path", cfg.SQLiteDBPath)
		return repo, nil

	case MemoryBackend:
		f.logger.Warn("Using in-memory backend, expenses are lost on restart", applog.FieldBackend, cfg.Type)
		return memory.New(), nil
	}

	return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
}
