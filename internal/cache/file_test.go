package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wyzinc/marketsync/internal/model"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "resolutions.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	entry := Entry{
		Status:     model.StatusCatalogMatch,
		PID:        "B0ABC123",
		Confidence: 0.99,
		Provenance: model.ProvenanceEAN,
		ResolvedAt: time.Now().UTC(),
	}
	if err := store.Put(ctx, "5901234123457", entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := store.Get(ctx, "5901234123457")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.PID != entry.PID || got.Status != entry.Status || got.Confidence != entry.Confidence {
		t.Errorf("got %+v, want %+v", got, entry)
	}

	if _, ok, _ := store.Get(ctx, "0000000000000"); ok {
		t.Error("unexpected hit for unknown EAN")
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "resolutions.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Put(ctx, "4006381333931", Entry{Status: model.StatusNotFound}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok, err := reopened.Get(ctx, "4006381333931")
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if got.Status != model.StatusNotFound {
		t.Errorf("status = %s, want %s", got.Status, model.StatusNotFound)
	}
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "resolutions.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	_ = store.Put(ctx, "111", Entry{Status: model.StatusCatalogMatch, PID: "B01"})
	_ = store.Put(ctx, "222", Entry{Status: model.StatusNotFound})

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", store.Len())
	}

	reopened, _ := NewFileStore(path)
	if reopened.Len() != 0 {
		t.Errorf("clear did not persist, reopened store has %d entries", reopened.Len())
	}
}

func TestFileStoreCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolutions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore on corrupt file: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected fresh store, got %d entries", store.Len())
	}
}

func TestEntryRoundTripsClassification(t *testing.T) {
	c := model.Classification{
		Status:     model.StatusCatalogMatch,
		PID:        "B0XYZ",
		Confidence: 0.95,
		Provenance: model.ProvenanceEAN,
		Candidates: []model.ScoredCandidate{{PID: "B0XYZ", Score: 0.9}},
	}
	entry := FromClassification(c)
	back := entry.Classification()
	if back.PID != c.PID || back.Status != c.Status || back.Confidence != c.Confidence {
		t.Errorf("round trip lost fields: %+v", back)
	}
	if back.Candidates != nil {
		t.Error("candidates must not survive the cache")
	}
}

// Each save replaces the file in one rename, leaving no partial temp
// files next to it.
func TestFileStoreSaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "resolutions.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	for i, ean := range []string{"5901234123457", "4006381333931", "0012345678905"} {
		entry := Entry{Status: model.StatusCatalogMatch, PID: "B0ATOM", Confidence: 0.99}
		if err := store.Put(ctx, ean, entry); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}

	names, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(names) != 1 || names[0].Name() != "resolutions.json" {
		t.Fatalf("directory = %v, want only resolutions.json", names)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reopened.Len())
	}
}
