package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/models"
)

func TestLocalCache_AppendAndAll(t *testing.T) {
	cache := NewLocalCache(NewMemKV())

	if got := cache.All(); len(got) != 0 {
		t.Fatalf("fresh cache All() = %d sessions, want 0", len(got))
	}

	s := models.TimerSession{
		ID:        "abc",
		Tool:      models.ToolStopwatch,
		Duration:  5000,
		StartedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Metadata:  "{}",
	}
	if err := cache.Append(s); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got := cache.All()
	if len(got) != 1 {
		t.Fatalf("All() = %d sessions, want 1", len(got))
	}
	if got[0].ID != "abc" || got[0].Tool != models.ToolStopwatch || got[0].Duration != 5000 {
		t.Errorf("round trip mismatch: %+v", got[0])
	}
}

func TestLocalCache_ConcurrentAppendsKeepEveryRecord(t *testing.T) {
	kv, err := OpenFileKV(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatalf("OpenFileKV() error = %v", err)
	}
	cache := NewLocalCache(kv)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- cache.Append(models.TimerSession{
				ID:        fmt.Sprintf("s-%d", i),
				Tool:      models.ToolStopwatch,
				Duration:  5000,
				StartedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
				Metadata:  "{}",
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got := cache.All()
	if len(got) != n {
		t.Fatalf("All() after %d concurrent appends = %d sessions, want %d", n, len(got), n)
	}
	seen := make(map[string]bool, n)
	for _, s := range got {
		seen[s.ID] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct ids, want %d", len(seen), n)
	}
}

func TestLocalCache_CorruptPayloadReadsEmpty(t *testing.T) {
	kv := NewMemKV()
	if err := kv.Set("timetools_sessions", "{not json"); err != nil {
		t.Fatal(err)
	}
	cache := NewLocalCache(kv)

	if got := cache.All(); got != nil {
		t.Errorf("All() with corrupt payload = %v, want nil", got)
	}
}

func TestLocalCache_SeededFlag(t *testing.T) {
	cache := NewLocalCache(NewMemKV())

	if cache.Seeded() {
		t.Error("fresh cache Seeded() = true, want false")
	}
	if err := cache.MarkSeeded(); err != nil {
		t.Fatalf("MarkSeeded() error = %v", err)
	}
	if !cache.Seeded() {
		t.Error("Seeded() after MarkSeeded() = false, want true")
	}
}

func TestFileKV_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	kv, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("OpenFileKV() error = %v", err)
	}
	if err := kv.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	reopened, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	v, ok := reopened.Get("k")
	if !ok || v != "v" {
		t.Errorf("Get(k) = %q, %v; want %q, true", v, ok, "v")
	}
}

func TestFileKV_MissingFileStartsEmpty(t *testing.T) {
	kv, err := OpenFileKV(filepath.Join(t.TempDir(), "nope", "cache.json"))
	if err != nil {
		t.Fatalf("OpenFileKV() error = %v", err)
	}
	if _, ok := kv.Get("anything"); ok {
		t.Error("Get() on empty store reported a value")
	}
}
