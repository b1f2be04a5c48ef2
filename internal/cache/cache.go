package cache

import (
	"context"
	"time"

	applog "tracker/internal/log"
)

// Cache is the subset of LRUCache the services depend on.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Purge()
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries eagerly.
type Cleaner interface {
	CleanExpired() int
}

// statsReporter is implemented by caches that count lookups.
type statsReporter interface {
	Stats() (hits, misses uint64)
}

// Janitor periodically sweeps registered caches.
type Janitor struct {
	caches []Cleaner
	logger *applog.Logger
}

func NewJanitor(logger *applog.Logger, caches ...Cleaner) *Janitor {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Janitor{caches: caches, logger: logger.WithComponent(applog.ComponentCache)}
}

// Run sweeps every interval until ctx is done.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := j.Sweep(); n > 0 {
				j.logger.Debug("Expired cache entries removed", "count", n)
			}
			j.logStats()
		}
	}
}

func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.CleanExpired()
	}
	return total
}

func (j *Janitor) logStats() {
	for i, c := range j.caches {
		if r, ok := c.(statsReporter); ok {
			hits, misses := r.Stats()
			j.logger.Debug("Cache usage", "cache", i, "hits", hits, "misses", misses)
		}
	}
}
