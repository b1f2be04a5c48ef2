package memory

import (
	"context"
	"strconv"
	"sync"

	"tracker/internal/core"
)

// Store keeps ledger keys and expense records in process memory. It backs
// the memory data backend and the tests.
type Store struct {
	mu       sync.Mutex
	kv       map[string]string
	expenses []core.ExpenseRecord
	nextID   int64
}

func New() *Store {
	return &Store{kv: map[string]string{}}
}

// Get implements ledger.Storage.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.kv[key]
	return v, ok, nil
}

// Put implements ledger.Storage.
func (s *Store) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
	return nil
}

// ListExpenses returns the stored expenses in insertion order.
func (s *Store) ListExpenses(_ context.Context) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExpenseRecord{}, s.expenses...), nil
}

// CreateExpense stores e and assigns it a sequential id.
func (s *Store) CreateExpense(_ context.Context, e *core.ExpenseRecord) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = strconv.FormatInt(s.nextID, 10)
	s.expenses = append(s.expenses, *e)
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}
