package sqlite

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/julianstephens/tracklit/internal/storage"
)

func setupTestStore(t *testing.T, capacity int) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"), capacity)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := setupTestStore(t, 0)

	if err := store.Set("water_goal", "2000"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set("water_goal", "2500"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	v, ok, err := store.Get("water_goal")
	if err != nil || !ok || v != "2500" {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}
	if _, ok, _ := store.Get("missing"); ok {
		t.Error("missing key reported present")
	}

	if err := store.Set("theme", "green"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"theme", "water_goal"}) {
		t.Errorf("Keys = %v", keys)
	}

	if err := store.Delete("theme"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	all, err := store.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if !reflect.DeepEqual(all, map[string]string{"water_goal": "2500"}) {
		t.Errorf("All = %v", all)
	}
}

func TestStoreQuota(t *testing.T) {
	store := setupTestStore(t, 16)

	if err := store.Set("key", "value"); err != nil { // 8 bytes
		t.Fatalf("Set failed: %v", err)
	}
	err := store.Set("other", "12345") // 10 more
	if !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if _, ok, _ := store.Get("other"); ok {
		t.Error("rejected write was stored")
	}
	if n, _ := store.Usage(); n != 8 {
		t.Errorf("Usage = %d, want 8", n)
	}
}

func TestStoreUsageCountsBytes(t *testing.T) {
	store := setupTestStore(t, 0)
	if err := store.Set("k", "é"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if n, _ := store.Usage(); n != 3 {
		t.Errorf("Usage = %d, want 3", n)
	}
}

func TestStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path, 0)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Set("a", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	store.Close()

	reopened := NewStore(path, 0)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()
	if v, ok, _ := reopened.Get("a"); !ok || v != "1" {
		t.Errorf("Get after reload = %q, %v", v, ok)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"), 0)
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestStoreNotLoaded(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "x.db"), 0)
	if err := store.Set("a", "b"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}
