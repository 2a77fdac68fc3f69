package partition

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func testResolver() *Resolver {
	r := NewResolver()
	r.Now = func() time.Time { return testNow }
	return r
}

func TestResolveDeterministic(t *testing.T) {
	r := testResolver()
	for _, mode := range []Mode{Historical, Recent} {
		first, err := r.Resolve(12345, mode)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", mode, err)
		}
		for i := 0; i < 10; i++ {
			again, err := r.Resolve(12345, mode)
			if err != nil {
				t.Fatalf("Resolve(%s): %v", mode, err)
			}
			if !again.Equal(first) {
				t.Fatalf("%s: resolve not deterministic: %s vs %s", mode, first, again)
			}
		}
	}
}

func TestResolveStaysInWindow(t *testing.T) {
	r := testResolver()

	histStart := r.HistoricalStart
	histEnd := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	recentStart := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	recentEnd := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	for job := 0; job < 5000; job++ {
		d, err := r.Resolve(job, Historical)
		if err != nil {
			t.Fatal(err)
		}
		if d.Before(histStart) || d.After(histEnd) {
			t.Fatalf("historical job %d resolved to %s outside [%s, %s]", job, d, histStart, histEnd)
		}

		d, err = r.Resolve(job, Recent)
		if err != nil {
			t.Fatal(err)
		}
		if d.Before(recentStart) || d.After(recentEnd) {
			t.Fatalf("recent job %d resolved to %s outside [%s, %s]", job, d, recentStart, recentEnd)
		}
	}
}

func TestResolveSpreadsAcrossRecentWindow(t *testing.T) {
	r := testResolver()

	counts := map[string]int{}
	const jobs = 7000
	for job := 0; job < jobs; job++ {
		d, err := r.Resolve(job, Recent)
		if err != nil {
			t.Fatal(err)
		}
		counts[DateKey(d)]++
	}

	if len(counts) != 7 {
		t.Fatalf("expected all 7 recent days hit, got %d: %v", len(counts), counts)
	}
	// With 1000 expected per day, anything outside 2x in either direction
	// means the hash is badly skewed.
	for day, n := range counts {
		if n < 500 || n > 2000 {
			t.Errorf("day %s got %d jobs, expected near 1000", day, n)
		}
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	r := testResolver()
	if _, err := r.Resolve(-1, Historical); err == nil {
		t.Error("expected error for negative job index")
	}
	if _, err := r.Resolve(1, Mode("weekly")); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRecentWindowIsSevenDays(t *testing.T) {
	r := testResolver()
	start, end, err := r.Window(Recent)
	if err != nil {
		t.Fatal(err)
	}
	if got := int(end.Sub(start).Hours()/24) + 1; got != 7 {
		t.Errorf("recent window = %d days, want 7", got)
	}
}
