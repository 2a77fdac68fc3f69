package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluxpay/txnforge/internal/config"
	"github.com/fluxpay/txnforge/internal/identity"
	"github.com/fluxpay/txnforge/internal/logging"
	"github.com/fluxpay/txnforge/internal/metrics"
	"github.com/fluxpay/txnforge/internal/partition"
	"github.com/fluxpay/txnforge/internal/sequence"
	"github.com/fluxpay/txnforge/internal/storage"
	"github.com/fluxpay/txnforge/internal/tables"
	"github.com/fluxpay/txnforge/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})
	slog.Info("txnforge starting", "version", worker.Version, "git_sha", worker.GitSHA)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown handler
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		sig := <-ch
		slog.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	if cfg.Metrics.Enabled {
		metrics.Init("txnforge")
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Address); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	store, err := newSequenceStore(cfg)
	if err != nil {
		log.Fatalf("[main] failed to create sequence store: %v", err)
	}
	defer store.Close()

	pool, err := newIdentityPool(cfg)
	if err != nil {
		log.Fatalf("[main] failed to create identity pool: %v", err)
	}
	allocator := identity.NewAllocator(pool, cfg.Identity.Backend)
	defer allocator.Close()

	writer, err := newDualWriter(cfg)
	if err != nil {
		log.Fatalf("[main] failed to create storage: %v", err)
	}
	defer writer.Close()

	resolver := partition.NewResolver()
	if start := cfg.Generator.HistoricalStart; start != "" {
		resolver.HistoricalStart = mustParseDate(start)
	}

	coord := sequence.NewCoordinator(store, cfg.Job.RowsPerJob, cfg.Job.Threads)
	job := worker.New(cfg, resolver, coord, allocator, writer)

	res, err := job.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			slog.Info("shutdown before completion")
			os.Exit(1)
		}
		log.Fatalf("[main] job failed: %v", err)
	}

	slog.Info("txnforge finished",
		"partition_date", res.PartitionDate,
		"job_order", res.JobOrder,
		"rows", res.Rows,
		"files", res.Files,
		"elapsed", res.Elapsed.String())
}

func newSequenceStore(cfg *config.Config) (sequence.Store, error) {
	switch cfg.Counter.Backend {
	case "postgres":
		return sequence.NewPostgresStore(cfg.Counter.PostgresURL)
	case "memory":
		return sequence.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown counter backend: %s", cfg.Counter.Backend)
	}
}

func newIdentityPool(cfg *config.Config) (identity.Pool, error) {
	switch cfg.Identity.Backend {
	case "postgres":
		return identity.NewPostgresPool(cfg.Identity.PostgresURL)
	case "snapshot":
		return identity.NewSnapshotPool(cfg.Identity.SnapshotPath)
	case "memory":
		// Local development only; seeds a small derived pool.
		return identity.NewSyntheticPool(100_000), nil
	default:
		return nil, fmt.Errorf("unknown identity backend: %s", cfg.Identity.Backend)
	}
}

func newDualWriter(cfg *config.Config) (*storage.DualWriter, error) {
	combined, err := storage.NewObjectStore(cfg.Storage.Combined)
	if err != nil {
		return nil, fmt.Errorf("combined destination: %w", err)
	}

	families := map[string]storage.ObjectStore{}
	for _, f := range []struct {
		name string
		dest config.Destination
	}{
		{tables.TableAuthorization, cfg.Storage.Authorization},
		{tables.TableClearing, cfg.Storage.Clearing},
		{tables.TableChargeback, cfg.Storage.Chargeback},
	} {
		store, err := storage.NewObjectStore(f.dest)
		if err != nil {
			combined.Close()
			for _, s := range families {
				s.Close()
			}
			return nil, fmt.Errorf("%s destination: %w", f.name, err)
		}
		families[f.name] = store
	}

	return storage.NewDualWriter(combined, families, slog.Default())
}

// mustParseDate parses YYYY-MM-DD; config validation already rejected
// malformed dates.
func mustParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("[main] bad historical_start %q: %v", s, err)
	}
	return t
}
