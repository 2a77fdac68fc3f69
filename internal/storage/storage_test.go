package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fluxpay/txnforge/internal/config"
	"github.com/fluxpay/txnforge/internal/tables"
)

func TestLocalStorePutAndExists(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "datasets/")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	key := "authorization/2023/06/05/job_1_thread_0.parquet"

	ok, err := store.Exists(ctx, key)
	if err != nil || ok {
		t.Fatalf("Exists before Put = (%v, %v)", ok, err)
	}

	payload := []byte("parquet bytes")
	if err := store.Put(ctx, key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ok, err = store.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Exists after Put = (%v, %v)", ok, err)
	}

	onDisk, err := os.ReadFile(filepath.Join(dir, "datasets", key))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(onDisk) != string(payload) {
		t.Errorf("stored %q, want %q", onDisk, payload)
	}

	// Overwrites replace in place.
	if err := store.Put(ctx, key, []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	if uri := store.URI(key); !strings.HasPrefix(uri, "file://") || !strings.Contains(uri, key) {
		t.Errorf("URI = %q", uri)
	}

	// No temp files left behind.
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && strings.HasSuffix(path, ".tmp") {
			t.Errorf("leftover temp file %s", path)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// memStore records puts for dual-write assertions and can fail a
// configurable number of times per key.
type memStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failures map[string]int
	puts     map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		objects:  map[string][]byte{},
		failures: map[string]int{},
		puts:     map[string]int{},
	}
}

func (s *memStore) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts[key]++
	if s.failures[key] > 0 {
		s.failures[key]--
		return errors.New("injected put failure")
	}
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *memStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStore) URI(key string) string { return "mem://" + key }
func (s *memStore) Close() error          { return nil }

func testRef(table string) tables.FileRef {
	return tables.FileRef{
		Table:       table,
		Date:        time.Date(2023, time.June, 5, 0, 0, 0, 0, time.UTC),
		JobIndex:    7,
		ThreadIndex: 1,
	}
}

func newTestWriter(t *testing.T, combined ObjectStore, auth, clearing, chargeback ObjectStore) *DualWriter {
	t.Helper()
	w, err := NewDualWriter(combined, map[string]ObjectStore{
		tables.TableAuthorization: auth,
		tables.TableClearing:      clearing,
		tables.TableChargeback:    chargeback,
	}, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	if err != nil {
		t.Fatalf("NewDualWriter: %v", err)
	}
	return w
}

func TestDualWriterWritesBothDestinations(t *testing.T) {
	combined := newMemStore()
	auth := newMemStore()
	clearing := newMemStore()
	chargeback := newMemStore()
	w := newTestWriter(t, combined, auth, clearing, chargeback)

	ref := testRef(tables.TableAuthorization)
	if err := w.WriteFile(context.Background(), ref, []byte("rows")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	key := ref.Key("")
	if _, ok := combined.objects[key]; !ok {
		t.Error("combined destination missing object")
	}
	if _, ok := auth.objects[key]; !ok {
		t.Error("authorization destination missing object")
	}
	if len(clearing.objects) != 0 || len(chargeback.objects) != 0 {
		t.Error("object leaked to unrelated family destinations")
	}
}

func TestDualWriterRoutesHashTablesToBaseFamily(t *testing.T) {
	combined := newMemStore()
	auth := newMemStore()
	clearing := newMemStore()
	chargeback := newMemStore()
	w := newTestWriter(t, combined, auth, clearing, chargeback)

	ref := testRef(tables.TableClearingHash)
	if err := w.WriteFile(context.Background(), ref, []byte("rows")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	key := ref.Key("")
	if !strings.HasPrefix(key, "clearing_hash/") {
		t.Fatalf("unexpected key %q", key)
	}
	if _, ok := clearing.objects[key]; !ok {
		t.Error("clearing destination missing hash object")
	}
	if len(auth.objects) != 0 {
		t.Error("hash object leaked to authorization destination")
	}
}

func TestDualWriterRetriesTransientFailures(t *testing.T) {
	combined := newMemStore()
	auth := newMemStore()
	w := newTestWriter(t, combined, auth, newMemStore(), newMemStore())

	ref := testRef(tables.TableAuthorization)
	key := ref.Key("")
	auth.failures[key] = 1

	if err := w.WriteFile(context.Background(), ref, []byte("rows")); err != nil {
		t.Fatalf("WriteFile after transient failure: %v", err)
	}
	if auth.puts[key] != 2 {
		t.Errorf("family store puts = %d, want 2", auth.puts[key])
	}
	if combined.puts[key] != 1 {
		t.Errorf("combined store puts = %d, want 1", combined.puts[key])
	}
}

func TestDualWriterFailsWhenOneDestinationStaysDown(t *testing.T) {
	combined := newMemStore()
	auth := newMemStore()
	w := newTestWriter(t, combined, auth, newMemStore(), newMemStore())

	ref := testRef(tables.TableAuthorization)
	key := ref.Key("")
	auth.failures[key] = 100

	err := w.WriteFile(context.Background(), ref, []byte("rows"))
	if err == nil {
		t.Fatal("expected error when family destination keeps failing")
	}
	if auth.puts[key] != 3 {
		t.Errorf("family store puts = %d, want 3 attempts", auth.puts[key])
	}
}

func TestNewDualWriterRequiresAllFamilies(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	_, err := NewDualWriter(newMemStore(), map[string]ObjectStore{
		tables.TableAuthorization: newMemStore(),
	}, log)
	if err == nil {
		t.Fatal("expected error for missing family stores")
	}
}

func TestNewObjectStoreBackendValidation(t *testing.T) {
	if _, err := NewObjectStore(config.Destination{Backend: "ftp"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := NewObjectStore(config.Destination{Backend: "local"}); err == nil {
		t.Error("expected error for local backend without local_dir")
	}
	if _, err := NewObjectStore(config.Destination{Backend: "s3"}); err == nil {
		t.Error("expected error for s3 backend without bucket")
	}
}
