// Package sequence allocates per-partition-date job orders and the
// sequence-number ranges derived from them.
package sequence

import (
	"context"
	"errors"
	"sync"
)

// PartitionOrigin is the fixed base every partition date's sequence
// numbers grow from. Identical across dates so ranges stay comparable.
const PartitionOrigin int64 = 1_000_000_000_000_000

// ErrStoreUnavailable wraps transient counter-store failures so callers
// can distinguish them from permanent ones.
var ErrStoreUnavailable = errors.New("sequence store unavailable")

// Store is the durable counter a job fleet coordinates through.
//
// Acquire returns the zero-based job order for (date, jobKey). The first
// call for a given jobKey atomically increments the date's counter; later
// calls with the same key return the same order, so a retried job reuses
// its range instead of consuming a new one.
type Store interface {
	// Acquire assigns or retrieves the job order for jobKey on date.
	// reused reports whether an existing assignment was returned.
	Acquire(ctx context.Context, date, jobKey string) (order int64, reused bool, err error)

	// Release marks the job finished. Bookkeeping only; the order stays
	// consumed forever.
	Release(ctx context.Context, date, jobKey string) error

	// Close releases any resources.
	Close() error
}

// MemoryStore is an in-process Store for tests and local runs.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]int64
	jobs     map[string]int64 // date + "\x00" + jobKey -> order
	released map[string]bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]int64),
		jobs:     make(map[string]int64),
		released: make(map[string]bool),
	}
}

// Acquire implements Store.
func (s *MemoryStore) Acquire(ctx context.Context, date, jobKey string) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := date + "\x00" + jobKey
	if order, ok := s.jobs[key]; ok {
		return order, true, nil
	}

	order := s.counters[date]
	s.counters[date] = order + 1
	s.jobs[key] = order
	return order, false, nil
}

// Release implements Store.
func (s *MemoryStore) Release(ctx context.Context, date, jobKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released[date+"\x00"+jobKey] = true
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// Released reports whether Release was called for (date, jobKey).
func (s *MemoryStore) Released(date, jobKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released[date+"\x00"+jobKey]
}
