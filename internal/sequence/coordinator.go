package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fluxpay/txnforge/internal/metrics"
)

// Allocation is a job's claim on a partition date's sequence space.
type Allocation struct {
	Date   string
	Order  int64 // zero-based position among the date's jobs
	Base   int64 // last sequence number before this job's range
	Reused bool  // true when a retried job got its previous order back
}

// Coordinator turns durable counter values into sequence-number ranges.
type Coordinator struct {
	store      Store
	rowsPerJob int64
	threads    int
	maxWait    time.Duration
	log        *slog.Logger
}

// NewCoordinator wires a Coordinator over store. rowsPerJob must divide
// evenly by threads; config validation enforces that before jobs start.
func NewCoordinator(store Store, rowsPerJob int64, threads int) *Coordinator {
	return &Coordinator{
		store:      store,
		rowsPerJob: rowsPerJob,
		threads:    threads,
		maxWait:    2 * time.Minute,
		log:        slog.With("component", "coordinator"),
	}
}

// Allocate claims a job order for (date, jobKey) and derives the job's
// base sequence number. Transient store failures are retried with
// exponential backoff; there is no local fallback, because a guessed
// order could collide with another job's range.
func (c *Coordinator) Allocate(ctx context.Context, date, jobKey string) (Allocation, error) {
	var (
		order  int64
		reused bool
	)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxElapsedTime = c.maxWait

	attempt := 0
	op := func() error {
		attempt++
		var err error
		order, reused, err = c.store.Acquire(ctx, date, jobKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrStoreUnavailable) {
			return backoff.Permanent(err)
		}
		if m := metrics.Get(); m != nil {
			m.IncCounterRetries(date)
		}
		c.log.Warn("counter acquire failed, retrying",
			"partition_date", date, "job_key", jobKey, "attempt", attempt, "error", err)
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return Allocation{}, fmt.Errorf("acquire job order for %s: %w", date, err)
	}

	if reused {
		if m := metrics.Get(); m != nil {
			m.IncSequenceReuse(date)
		}
	}

	return Allocation{
		Date:   date,
		Order:  order,
		Base:   PartitionOrigin + order*c.rowsPerJob,
		Reused: reused,
	}, nil
}

// Release marks (date, jobKey) finished in the store.
func (c *Coordinator) Release(ctx context.Context, date, jobKey string) error {
	return c.store.Release(ctx, date, jobKey)
}

// RowsPerThread returns each thread's share of the job's rows.
func (c *Coordinator) RowsPerThread() int64 {
	return c.rowsPerJob / int64(c.threads)
}

// ThreadRange returns the first sequence number and row count owned by
// threadIndex within a. Sequence numbers are 1-based from the allocation
// base, so thread 0 of a job with base B starts at B+1.
func (c *Coordinator) ThreadRange(a Allocation, threadIndex int) (start int64, count int64, err error) {
	if threadIndex < 0 || threadIndex >= c.threads {
		return 0, 0, fmt.Errorf("thread index %d out of range [0,%d)", threadIndex, c.threads)
	}
	perThread := c.RowsPerThread()
	return a.Base + int64(threadIndex)*perThread + 1, perThread, nil
}
