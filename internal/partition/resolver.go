// Package partition maps job indexes onto partition dates.
package partition

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"time"
)

// Mode selects the date window a job hashes into.
type Mode string

const (
	// Historical covers the fixed start date through seven days ago.
	Historical Mode = "historical"
	// Recent covers the trailing seven days ending today.
	Recent Mode = "recent"
)

// DefaultHistoricalStart is the first date of the historical window.
var DefaultHistoricalStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Resolver deterministically assigns a partition date to each job index.
// The same index always lands on the same date for a given day, and a
// fleet of indexes spreads near-uniformly across the window.
type Resolver struct {
	HistoricalStart time.Time
	Now             func() time.Time
}

// NewResolver returns a Resolver with the default window start.
func NewResolver() *Resolver {
	return &Resolver{
		HistoricalStart: DefaultHistoricalStart,
		Now:             time.Now,
	}
}

// Window returns the inclusive [start, end] date range for mode.
func (r *Resolver) Window(mode Mode) (start, end time.Time, err error) {
	today := truncateDay(r.now())
	switch mode {
	case Historical:
		return truncateDay(r.historicalStart()), today.AddDate(0, 0, -7), nil
	case Recent:
		return today.AddDate(0, 0, -6), today, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown partition mode: %s", mode)
	}
}

// Resolve returns the partition date for jobIndex under mode.
func (r *Resolver) Resolve(jobIndex int, mode Mode) (time.Time, error) {
	if jobIndex < 0 {
		return time.Time{}, fmt.Errorf("job index must be >= 0, got %d", jobIndex)
	}
	start, end, err := r.Window(mode)
	if err != nil {
		return time.Time{}, err
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return time.Time{}, fmt.Errorf("empty %s window: start %s after end %s",
			mode, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	offset := int(hashIndex(jobIndex) % uint64(days))
	return start.AddDate(0, 0, offset), nil
}

// hashIndex hashes a job index with FNV-1a 64.
func hashIndex(jobIndex int) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(jobIndex))
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Resolver) historicalStart() time.Time {
	if r.HistoricalStart.IsZero() {
		return DefaultHistoricalStart
	}
	return r.HistoricalStart
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats a partition date as its canonical YYYY-MM-DD key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
