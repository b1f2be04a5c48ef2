package backend

import (
	"context"

	"tracker/internal/core"
)

// ExpenseStore is the persistence port behind the expense API.
// Implementations must be safe for concurrent use.
type ExpenseStore interface {
	ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error)
	// CreateExpense persists e and assigns its ID.
	CreateExpense(ctx context.Context, e *core.ExpenseRecord) error
	Ping(ctx context.Context) error
	Close() error
}

// BackendType names a supported ExpenseStore implementation.
type BackendType string

const (
	MongoBackend    BackendType = "mongo"
	PostgresBackend BackendType = "postgres"
	SQLiteBackend   BackendType = "sqlite"
	MemoryBackend   BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MongoBackend, PostgresBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to open a store.
type Config struct {
	Type BackendType

	MongoURI      string
	MongoDatabase string

	PostgresURL string

	SQLiteDBPath string
}
