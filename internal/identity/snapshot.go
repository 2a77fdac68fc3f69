package identity

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"
)

// SnapshotPool loads a zstd-compressed JSON-lines export of the identity
// table into memory. Used where the generator fleet cannot reach the
// database directly; the seeder publishes the snapshot alongside it.
type SnapshotPool struct {
	records []Record
}

// NewSnapshotPool reads and decompresses the snapshot at path. Records
// must be dense: line i must carry id i.
func NewSnapshotPool(path string) (*SnapshotPool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	var records []Record
	scanner := bufio.NewScanner(dec.IOReadCloser())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse snapshot line %d: %w", len(records), err)
		}
		if rec.ID != int64(len(records)) {
			return nil, fmt.Errorf("snapshot not dense: line %d carries id %d", len(records), rec.ID)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("snapshot %s holds no identities", path)
	}

	slog.With("component", "identity").Info("loaded identity snapshot",
		"path", path, "pool_size", len(records))
	return &SnapshotPool{records: records}, nil
}

// Lookup implements Pool.
func (p *SnapshotPool) Lookup(ctx context.Context, id int64) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if id < 0 || id >= int64(len(p.records)) {
		return Record{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return p.records[id], nil
}

// Size implements Pool.
func (p *SnapshotPool) Size() int64 { return int64(len(p.records)) }

// Close implements Pool.
func (p *SnapshotPool) Close() error { return nil }

// WriteSnapshot writes records as a zstd-compressed JSON-lines file.
// The seeder and tests use this; the generator only reads.
func WriteSnapshot(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", path, err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	w := bufio.NewWriter(enc)
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal identity %d: %w", rec.ID, err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close zstd encoder: %w", err)
	}
	return nil
}
