package sequence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAllocateWorkedExample(t *testing.T) {
	// A job that lands as the sixth claimant (order 5) of its date with
	// 1.5M rows per job must start thread 0 at 1,000,000,007,500,001.
	store := NewMemoryStore()
	c := NewCoordinator(store, 1_500_000, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := c.Allocate(ctx, "2023-06-15", fmt.Sprintf("earlier-%d", i)); err != nil {
			t.Fatal(err)
		}
	}

	a, err := c.Allocate(ctx, "2023-06-15", "job-12345")
	if err != nil {
		t.Fatal(err)
	}
	if a.Order != 5 {
		t.Errorf("order = %d, want 5", a.Order)
	}
	if a.Base != 1_000_000_007_500_000 {
		t.Errorf("base = %d, want 1000000007500000", a.Base)
	}

	start, count, err := c.ThreadRange(a, 0)
	if err != nil {
		t.Fatal(err)
	}
	if start != 1_000_000_007_500_001 {
		t.Errorf("thread 0 start = %d, want 1000000007500001", start)
	}
	if last := start + count - 1; last != 1_000_000_008_000_000 {
		t.Errorf("thread 0 last = %d, want 1000000008000000", last)
	}
}

func TestAllocateRangesNeverOverlapOrGap(t *testing.T) {
	store := NewMemoryStore()
	c := NewCoordinator(store, 300, 3)
	ctx := context.Background()

	var mu sync.Mutex
	bases := make([]int64, 0, 50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := c.Allocate(ctx, "2024-01-01", fmt.Sprintf("job-%d", i))
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			bases = append(bases, a.Base)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	var min, max int64
	for i, b := range bases {
		if seen[b] {
			t.Fatalf("duplicate base %d", b)
		}
		seen[b] = true
		if i == 0 || b < min {
			min = b
		}
		if b > max {
			max = b
		}
	}
	if min != PartitionOrigin {
		t.Errorf("lowest base = %d, want origin %d", min, PartitionOrigin)
	}
	// Orders 0..49 with stride 300 must tile the space with no gaps.
	if max != PartitionOrigin+49*300 {
		t.Errorf("highest base = %d, want %d", max, PartitionOrigin+49*300)
	}
}

func TestAllocateIsolatesPartitionDates(t *testing.T) {
	store := NewMemoryStore()
	c := NewCoordinator(store, 300, 3)
	ctx := context.Background()

	a1, err := c.Allocate(ctx, "2024-01-01", "job-a")
	if err != nil {
		t.Fatal(err)
	}
	a2, err := c.Allocate(ctx, "2024-01-02", "job-b")
	if err != nil {
		t.Fatal(err)
	}

	if a1.Order != 0 || a2.Order != 0 {
		t.Errorf("dates share a counter: orders %d and %d, both want 0", a1.Order, a2.Order)
	}
	if a1.Base != a2.Base {
		t.Errorf("first job of each date should share base %d, got %d and %d",
			PartitionOrigin, a1.Base, a2.Base)
	}
}

func TestAllocateReusesOrderOnRetry(t *testing.T) {
	store := NewMemoryStore()
	c := NewCoordinator(store, 300, 3)
	ctx := context.Background()

	first, err := c.Allocate(ctx, "2024-01-01", "job-retried")
	if err != nil {
		t.Fatal(err)
	}
	if first.Reused {
		t.Error("first allocation reported reused")
	}

	// Another job claims the next order in between.
	if _, err := c.Allocate(ctx, "2024-01-01", "job-other"); err != nil {
		t.Fatal(err)
	}

	again, err := c.Allocate(ctx, "2024-01-01", "job-retried")
	if err != nil {
		t.Fatal(err)
	}
	if !again.Reused {
		t.Error("retried allocation not reported as reused")
	}
	if again.Order != first.Order || again.Base != first.Base {
		t.Errorf("retry changed allocation: %+v vs %+v", again, first)
	}
}

// flakyStore fails Acquire a fixed number of times before delegating.
type flakyStore struct {
	*MemoryStore
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyStore) Acquire(ctx context.Context, date, jobKey string) (int64, bool, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	if fail {
		return 0, false, fmt.Errorf("%w: connection reset", ErrStoreUnavailable)
	}
	return f.MemoryStore.Acquire(ctx, date, jobKey)
}

func TestAllocateRetriesTransientFailures(t *testing.T) {
	store := &flakyStore{MemoryStore: NewMemoryStore(), failures: 2}
	c := NewCoordinator(store, 300, 3)
	c.maxWait = 10 * time.Second

	a, err := c.Allocate(context.Background(), "2024-01-01", "job-a")
	if err != nil {
		t.Fatalf("expected retries to recover, got: %v", err)
	}
	if a.Order != 0 {
		t.Errorf("order = %d, want 0", a.Order)
	}
	if store.calls != 3 {
		t.Errorf("store called %d times, want 3", store.calls)
	}
}

// brokenStore always fails with a permanent error.
type brokenStore struct {
	*MemoryStore
	calls int
}

var errSchema = errors.New("relation does not exist")

func (b *brokenStore) Acquire(ctx context.Context, date, jobKey string) (int64, bool, error) {
	b.calls++
	return 0, false, errSchema
}

func TestAllocateDoesNotRetryPermanentFailures(t *testing.T) {
	store := &brokenStore{MemoryStore: NewMemoryStore()}
	c := NewCoordinator(store, 300, 3)

	_, err := c.Allocate(context.Background(), "2024-01-01", "job-a")
	if !errors.Is(err, errSchema) {
		t.Fatalf("expected schema error, got: %v", err)
	}
	if store.calls != 1 {
		t.Errorf("store called %d times, want 1", store.calls)
	}
}

func TestThreadRangesTileTheJob(t *testing.T) {
	c := NewCoordinator(NewMemoryStore(), 1500, 3)
	a := Allocation{Date: "2024-01-01", Order: 2, Base: PartitionOrigin + 2*1500}

	next := a.Base + 1
	for thread := 0; thread < 3; thread++ {
		start, count, err := c.ThreadRange(a, thread)
		if err != nil {
			t.Fatal(err)
		}
		if start != next {
			t.Errorf("thread %d starts at %d, want %d", thread, start, next)
		}
		if count != 500 {
			t.Errorf("thread %d count = %d, want 500", thread, count)
		}
		next = start + count
	}
	if next != a.Base+1500+1 {
		t.Errorf("threads cover through %d, want %d", next-1, a.Base+1500)
	}

	if _, _, err := c.ThreadRange(a, 3); err == nil {
		t.Error("expected error for out-of-range thread index")
	}
	if _, _, err := c.ThreadRange(a, -1); err == nil {
		t.Error("expected error for negative thread index")
	}
}
