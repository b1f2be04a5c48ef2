package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tracker/internal/backend"
	"tracker/internal/cache"
	"tracker/internal/core"
	applog "tracker/internal/log"
)

const (
	listCacheKey      = "expenses:all"
	defaultStoreLimit = 5 * time.Second
)

// Publisher announces created expenses to downstream consumers.
type Publisher interface {
	PublishExpenseCreated(ctx context.Context, e core.ExpenseRecord) error
}

type Options struct {
	// Publisher is optional; nil disables events.
	Publisher Publisher
	// CacheTTL bounds how long a listing is served from memory. Zero disables caching.
	CacheTTL time.Duration
	// StoreTimeout caps every store call.
	StoreTimeout time.Duration
	Logger       *applog.Logger
}

// ExpenseService orchestrates expense operations across the store, the list
// cache and the event publisher.
type ExpenseService struct {
	store     backend.ExpenseStore
	publisher Publisher
	cache     *cache.LRUCache[[]core.ExpenseRecord]
	// cacheMu orders listing fills against invalidations; generation counts
	// invalidations so a fill that raced a create is discarded.
	cacheMu    sync.Mutex
	generation uint64
	timeout    time.Duration
	logger     *applog.Logger
	now        func() time.Time
}

func NewExpenseService(store backend.ExpenseStore, opts Options) *ExpenseService {
	if opts.Logger == nil {
		opts.Logger = applog.Discard()
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreLimit
	}
	return &ExpenseService{
		store:     store,
		publisher: opts.Publisher,
		cache:     cache.NewLRUCache[[]core.ExpenseRecord](1, opts.CacheTTL),
		timeout:   opts.StoreTimeout,
		logger:    opts.Logger.WithComponent(applog.ComponentExpense),
		now:       time.Now,
	}
}

// Cache exposes the listing cache so it can be swept by a cache.Janitor.
func (s *ExpenseService) Cache() cache.Cleaner {
	return s.cache
}

// List returns every stored expense, never nil.
func (s *ExpenseService) List(ctx context.Context) ([]core.ExpenseRecord, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return append([]core.ExpenseRecord{}, cached...), nil
	}

	s.cacheMu.Lock()
	gen := s.generation
	s.cacheMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	if expenses == nil {
		expenses = []core.ExpenseRecord{}
	}

	s.cacheMu.Lock()
	if s.generation == gen {
		s.cache.Set(listCacheKey, append([]core.ExpenseRecord{}, expenses...))
	}
	s.cacheMu.Unlock()
	return expenses, nil
}

// Create validates, timestamps and persists a new expense. Events are best
// effort: a publish failure is logged and the created record still returned.
func (s *ExpenseService) Create(ctx context.Context, title string, amount float64) (core.ExpenseRecord, error) {
	e := core.ExpenseRecord{
		Title:     title,
		Amount:    amount,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := e.Validate(); err != nil {
		return core.ExpenseRecord{}, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := s.store.CreateExpense(storeCtx, &e)
	cancel()
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			return core.ExpenseRecord{}, err
		}
		return core.ExpenseRecord{}, fmt.Errorf("save expense: %w", err)
	}
	s.invalidate()

	s.logger.InfoContext(ctx, "Expense created",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldExpenseID, e.ID,
		applog.FieldAmount, e.Amount)

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseCreated(ctx, e); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish expense created event",
				applog.FieldExpenseID, e.ID,
				applog.FieldError, err)
		}
	}
	return e, nil
}

func (s *ExpenseService) invalidate() {
	s.cacheMu.Lock()
	s.generation++
	s.cache.Delete(listCacheKey)
	s.cacheMu.Unlock()
}

// Ready reports whether the backing store answers.
func (s *ExpenseService) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Ping(ctx)
}
