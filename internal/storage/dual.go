package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/fluxpay/txnforge/internal/metrics"
	"github.com/fluxpay/txnforge/internal/tables"
)

const uploadAttempts = 3

// DualWriter publishes each dataset file to two destinations, the
// combined store and the owning table family's store. A file counts as
// published only when both writes succeed.
type DualWriter struct {
	combined ObjectStore
	families map[string]ObjectStore
	log      *slog.Logger
}

// NewDualWriter builds a writer over the combined store and the
// per-family stores keyed by family name.
func NewDualWriter(combined ObjectStore, families map[string]ObjectStore, log *slog.Logger) (*DualWriter, error) {
	for _, family := range []string{tables.TableAuthorization, tables.TableClearing, tables.TableChargeback} {
		if families[family] == nil {
			return nil, fmt.Errorf("missing store for family %s", family)
		}
	}
	return &DualWriter{
		combined: combined,
		families: families,
		log:      log.With("component", "dual_writer"),
	}, nil
}

// WriteFile publishes one encoded file to both destinations
// concurrently. Either write failing fails the file.
func (w *DualWriter) WriteFile(ctx context.Context, ref tables.FileRef, data []byte) error {
	family := ref.Family()
	familyStore, ok := w.families[family]
	if !ok {
		return fmt.Errorf("no destination for table %s", ref.Table)
	}

	key := ref.Key("")
	if m := metrics.Get(); m != nil {
		m.ObserveFileBytes(ref.Table, float64(len(data)))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.put(gctx, w.combined, "combined", ref.Table, key, data)
	})
	g.Go(func() error {
		return w.put(gctx, familyStore, family, ref.Table, key, data)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	w.log.Debug("file published",
		"table", ref.Table,
		"key", key,
		"bytes", len(data))
	return nil
}

// put uploads one object with bounded retries. Context cancellation
// ends the retry loop immediately.
func (w *DualWriter) put(ctx context.Context, store ObjectStore, destination, table, key string, data []byte) error {
	if m := metrics.Get(); m != nil {
		m.IncInFlightUploads()
		defer m.DecInFlightUploads()
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uploadAttempts-1), ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		start := time.Now()
		if err := store.Put(ctx, key, data); err != nil {
			if m := metrics.Get(); m != nil {
				m.IncUploadFailures(table, destination)
			}
			w.log.Warn("upload failed",
				"destination", destination,
				"key", key,
				"attempt", attempt,
				"error", err)
			return err
		}
		if m := metrics.Get(); m != nil {
			m.ObserveUploadDuration(table, destination, time.Since(start).Seconds())
		}
		return nil
	}, policy)
	if err != nil {
		return fmt.Errorf("upload to %s: %w", destination, err)
	}

	if m := metrics.Get(); m != nil {
		m.IncUploads(table, destination)
	}
	return nil
}

// Close closes every underlying store, reporting the first error.
func (w *DualWriter) Close() error {
	var firstErr error
	if err := w.combined.Close(); err != nil {
		firstErr = err
	}
	seen := map[ObjectStore]bool{w.combined: true}
	for _, store := range w.families {
		if seen[store] {
			continue
		}
		seen[store] = true
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
