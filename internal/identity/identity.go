// Package identity selects card identities from the pre-seeded pool.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/fluxpay/txnforge/internal/metrics"
)

// ErrNotFound means a pool ID inside [0, Size) had no record. The pool
// is seeded as a dense table before any generator runs, so a miss is a
// seeding defect and the job must stop rather than invent an identity.
var ErrNotFound = errors.New("identity not found in pool")

// Record is one pre-seeded card identity: the pseudonymous account
// hash plus the card metadata the seeder attached to it.
type Record struct {
	ID      int64  `json:"id"`
	HashPAN string `json:"hash_pan"`
	Network string `json:"network,omitempty"`
	Product string `json:"product,omitempty"`
}

// Pool is read-only access to the seeded identity table.
type Pool interface {
	// Lookup returns the record for id, or an error wrapping ErrNotFound.
	Lookup(ctx context.Context, id int64) (Record, error)

	// Size returns the number of seeded identities.
	Size() int64

	// Close releases any resources.
	Close() error
}

// Allocator draws deterministic identity picks from a Pool.
type Allocator struct {
	pool    Pool
	backend string
	log     *slog.Logger
}

// NewAllocator wraps pool. backend names the pool implementation for
// logs and metrics.
func NewAllocator(pool Pool, backend string) *Allocator {
	return &Allocator{
		pool:    pool,
		backend: backend,
		log:     slog.With("component", "identity", "backend", backend),
	}
}

// Select returns the one identity a thread seed maps to. The same seed
// always lands on the same record, so retried jobs regenerate with the
// same identities. A lookup miss inside [0, Size) is fatal; there is no
// fallback identity.
func (a *Allocator) Select(ctx context.Context, seed uint64) (Record, error) {
	size := a.pool.Size()
	if size <= 0 {
		return Record{}, fmt.Errorf("identity pool is empty")
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	id := rng.Int64N(size)
	rec, err := a.pool.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if m := metrics.Get(); m != nil {
				m.IncIdentityMisses(a.backend)
			}
			a.log.Error("identity pool miss", "id", id, "pool_size", size)
		}
		return Record{}, fmt.Errorf("lookup identity %d: %w", id, err)
	}
	return rec, nil
}

// Close closes the underlying pool.
func (a *Allocator) Close() error {
	return a.pool.Close()
}
