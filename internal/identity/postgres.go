package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPool reads identities from the seeded card_identities table.
// The table is written once by the seeder and never by the generator,
// so the size is read at connect time and cached.
type PostgresPool struct {
	pool *pgxpool.Pool
	size int64
}

// NewPostgresPool connects and caches the pool size.
func NewPostgresPool(dsn string) (*PostgresPool, error) {
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

	var size int64
	if err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(id) + 1, 0) FROM card_identities`).Scan(&size); err != nil {
		pool.Close()
		return nil, fmt.Errorf("read identity pool size: %w", err)
	}
	if size == 0 {
		pool.Close()
		return nil, fmt.Errorf("card_identities table is empty; run the seeder first")
	}

	slog.With("component", "identity").Info("connected to identity pool", "pool_size", size)
	return &PostgresPool{pool: pool, size: size}, nil
}

// Lookup implements Pool.
func (p *PostgresPool) Lookup(ctx context.Context, id int64) (Record, error) {
	var rec Record
	err := p.pool.QueryRow(ctx,
		`SELECT id, hash_pan, network, product FROM card_identities WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.HashPAN, &rec.Network, &rec.Product)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("query identity %d: %w", id, err)
	}
	return rec, nil
}

// Size implements Pool.
func (p *PostgresPool) Size() int64 { return p.size }

// Close implements Pool.
func (p *PostgresPool) Close() error {
	p.pool.Close()
	return nil
}
