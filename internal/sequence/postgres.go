package sequence

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore implements Store on PostgreSQL.
//
// The counter increment is a single INSERT ... ON CONFLICT ... RETURNING
// statement, so concurrent jobs on the same date serialize at the row
// level and every caller observes a distinct counter value. There is no
// read-modify-write window and no non-atomic fallback.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresStore connects, verifies the connection and installs the
// counter schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolCfg.MaxConns = 5
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s := &PostgresStore{
		pool: pool,
		log:  slog.With("component", "sequence_store"),
	}
	s.log.Info("connected to counter database")
	return s, nil
}

// Acquire implements Store.
func (s *PostgresStore) Acquire(ctx context.Context, date, jobKey string) (int64, bool, error) {
	// A retried job reuses its previous order.
	var order int64
	err := s.pool.QueryRow(ctx,
		`SELECT job_order FROM partition_jobs WHERE partition_date = $1 AND job_key = $2`,
		date, jobKey,
	).Scan(&order)
	if err == nil {
		s.log.Info("reusing job order", "partition_date", date, "job_key", jobKey, "job_order", order)
		return order, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("%w: lookup job order: %v", ErrStoreUnavailable, err)
	}

	// First claim for this key: bump the date's counter atomically.
	var counter int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO partition_counters (partition_date, job_counter)
		VALUES ($1, 1)
		ON CONFLICT (partition_date)
		DO UPDATE SET job_counter = partition_counters.job_counter + 1, updated_at = NOW()
		RETURNING job_counter
	`, date).Scan(&counter)
	if err != nil {
		return 0, false, fmt.Errorf("%w: increment counter for %s: %v", ErrStoreUnavailable, date, err)
	}
	order = counter - 1

	// Record the assignment. A concurrent duplicate key loses the insert
	// race and takes the winner's order; the burned counter value leaves a
	// gap of unused sequence numbers, never an overlap.
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO partition_jobs (partition_date, job_key, job_order)
		VALUES ($1, $2, $3)
		ON CONFLICT (partition_date, job_key) DO NOTHING
	`, date, jobKey, order)
	if err != nil {
		return 0, false, fmt.Errorf("%w: record job order: %v", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		err = s.pool.QueryRow(ctx,
			`SELECT job_order FROM partition_jobs WHERE partition_date = $1 AND job_key = $2`,
			date, jobKey,
		).Scan(&order)
		if err != nil {
			return 0, false, fmt.Errorf("%w: reread job order: %v", ErrStoreUnavailable, err)
		}
		return order, true, nil
	}

	return order, false, nil
}

// Release implements Store.
func (s *PostgresStore) Release(ctx context.Context, date, jobKey string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE partition_jobs SET released_at = NOW()
		WHERE partition_date = $1 AND job_key = $2 AND released_at IS NULL
	`, date, jobKey)
	if err != nil {
		return fmt.Errorf("%w: release job: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
