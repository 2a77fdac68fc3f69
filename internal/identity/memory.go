package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// MemoryPool holds the identity table in process memory. Used by tests
// and by local runs that synthesize their own pool at startup.
type MemoryPool struct {
	records map[int64]Record
	size    int64
}

// NewMemoryPool builds a pool from explicit records. Size is taken as
// max(id)+1 so deliberately sparse pools can exercise miss handling.
func NewMemoryPool(records []Record) *MemoryPool {
	m := &MemoryPool{records: make(map[int64]Record, len(records))}
	for _, r := range records {
		m.records[r.ID] = r
		if r.ID+1 > m.size {
			m.size = r.ID + 1
		}
	}
	return m
}

// syntheticNetworks cycles card metadata across derived identities so
// local runs see the same variety the seeded table has.
var syntheticNetworks = []struct {
	network  string
	products []string
}{
	{"VISA", []string{"CSP", "CSR", "CFU"}},
	{"MASTERCARD", []string{"WOH", "SIG", "PLT"}},
	{"AMEX", []string{"PLT", "GLD", "GRN"}},
	{"DISCOVER", []string{"IT1", "CSH", "STU"}},
}

// SyntheticRecords derives n dense identities, matching the shape of
// the seeded production table.
func SyntheticRecords(n int64) []Record {
	records := make([]Record, 0, n)
	for id := int64(0); id < n; id++ {
		sum := sha256.Sum256([]byte(fmt.Sprintf("txnforge-identity-%d", id)))
		nw := syntheticNetworks[id%int64(len(syntheticNetworks))]
		records = append(records, Record{
			ID:      id,
			HashPAN: hex.EncodeToString(sum[:]),
			Network: nw.network,
			Product: nw.products[id%int64(len(nw.products))],
		})
	}
	return records
}

// NewSyntheticPool builds a dense pool of n derived identities.
func NewSyntheticPool(n int64) *MemoryPool {
	return NewMemoryPool(SyntheticRecords(n))
}

// Lookup implements Pool.
func (m *MemoryPool) Lookup(ctx context.Context, id int64) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	rec, ok := m.records[id]
	if !ok {
		return Record{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return rec, nil
}

// Size implements Pool.
func (m *MemoryPool) Size() int64 { return m.size }

// Close implements Pool.
func (m *MemoryPool) Close() error { return nil }
