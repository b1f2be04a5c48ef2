// Package ledger keeps the user's transaction list and theme preference and
// persists both to a local key-value store after every change.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tracker/internal/core"
	applog "tracker/internal/log"
)

// Storage keys. Values are JSON documents.
const (
	KeyTransactions = "transactions"
	KeyDarkMode     = "darkMode"
)

// Storage is durable local key-value storage.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
}

// PersistError reports that a change was applied in memory but could not be
// written to storage.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

type Options struct {
	Logger *applog.Logger
	// Now overrides the clock used for transaction ids.
	Now func() time.Time
}

type Store struct {
	mu        sync.Mutex
	storage   Storage
	logger    *applog.Logger
	ids       idGenerator
	txs       []core.Transaction
	dark      bool
	observers []func(dark bool)
}

// Open loads the ledger from storage. Missing or unreadable data yields an
// empty ledger with dark mode off; problems are logged, never returned.
func Open(ctx context.Context, storage Storage, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Store{
		storage: storage,
		logger:  logger.WithComponent(applog.ComponentLedger),
		ids:     idGenerator{now: now},
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	if raw, ok := s.read(ctx, KeyTransactions); ok {
		var loaded []core.Transaction
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			s.logger.WarnContext(ctx, "Ignoring malformed transactions", applog.FieldKey, KeyTransactions, applog.FieldError, err)
		}
		for _, tx := range loaded {
			if err := tx.Validate(); err != nil {
				s.logger.WarnContext(ctx, "Dropping invalid stored transaction",
					applog.FieldTransactionID, tx.ID, applog.FieldError, err)
				continue
			}
			s.txs = append(s.txs, tx)
			s.ids.observe(tx.ID)
		}
	}

	if raw, ok := s.read(ctx, KeyDarkMode); ok {
		var dark bool
		if err := json.Unmarshal([]byte(raw), &dark); err != nil {
			s.logger.WarnContext(ctx, "Ignoring malformed dark mode flag", applog.FieldKey, KeyDarkMode, applog.FieldError, err)
		}
		s.dark = dark
	}

	s.logger.DebugContext(ctx, "Ledger loaded", applog.FieldOperation, applog.OpLoad, "transactions", len(s.txs), "dark_mode", s.dark)
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "Ledger storage read failed", applog.FieldKey, key, applog.FieldError, err)
		return "", false
	}
	return raw, ok
}

// Add validates the draft and appends a new transaction. A validation
// failure returns a *core.ValidationError and changes nothing. On success the
// draft's text fields are cleared; a storage failure is returned as a
// *PersistError with the transaction still added.
func (s *Store) Add(ctx context.Context, d *Draft) (core.Transaction, error) {
	tx, err := d.build()
	if err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.ids.next()
	s.txs = append(s.txs, tx)
	d.reset()

	s.logger.InfoContext(ctx, "Transaction added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldTransactionID, tx.ID, applog.FieldAmount, tx.Amount.String(), "type", tx.Type)
	return tx, s.persistTransactions(ctx)
}

// Delete removes every transaction with the given id. An unknown id is not
// an error; the bool reports whether anything was removed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.txs[:0]
	removed := false
	for _, tx := range s.txs {
		if tx.ID == id {
			removed = true
			continue
		}
		kept = append(kept, tx)
	}
	s.txs = kept
	if !removed {
		return false, nil
	}

	s.logger.InfoContext(ctx, "Transaction deleted", applog.FieldOperation, applog.OpDelete, applog.FieldTransactionID, id)
	return true, s.persistTransactions(ctx)
}

// ToggleDarkMode flips the theme, persists it and notifies observers.
func (s *Store) ToggleDarkMode(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.dark = !s.dark
	dark := s.dark
	s.logger.DebugContext(ctx, "Dark mode toggled", applog.FieldOperation, applog.OpToggle, "dark_mode", dark)
	err := s.persist(ctx, KeyDarkMode, dark)
	observers := append([]func(bool){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(dark)
	}
	return dark, err
}

// OnThemeChange registers fn to be called after every dark mode toggle.
func (s *Store) OnThemeChange(fn func(dark bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// Transactions returns a copy of the ledger in insertion order.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...)
}

// Totals is recomputed from the current transactions on every call.
func (s *Store) Totals() core.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ComputeTotals(s.txs)
}

func (s *Store) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.txs)
}

// persistTransactions rewrites the whole collection. Callers hold s.mu.
func (s *Store) persistTransactions(ctx context.Context) error {
	txs := s.txs
	if txs == nil {
		txs = []core.Transaction{}
	}
	return s.persist(ctx, KeyTransactions, txs)
}

func (s *Store) persist(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &PersistError{Key: key, Err: err}
	}
	if err := s.storage.Put(ctx, key, string(raw)); err != nil {
		s.logger.ErrorContext(ctx, "Ledger storage write failed", applog.FieldOperation, applog.OpPersist, applog.FieldKey, key, applog.FieldError, err)
		return &PersistError{Key: key, Err: err}
	}
	return nil
}
