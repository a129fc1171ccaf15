package catalog

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/hobbyloop/skein/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestStore_NotLoaded(t *testing.T) {
	store := NewStore()
	if _, err := store.Snapshot(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestStore_SwapPublishes(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := NewSnapshot("json", testPatterns(), testYarns())
	store.Swap(ctx, first)

	got, err := store.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != first.ID() {
		t.Errorf("expected snapshot %s, got %s", first.ID(), got.ID())
	}

	second := NewSnapshot("csv", testPatterns()[:1], nil)
	store.Swap(ctx, second)

	got, err = store.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != second.ID() {
		t.Error("expected swap to replace the snapshot")
	}
	if len(got.Patterns()) != 1 {
		t.Errorf("expected 1 pattern after swap, got %d", len(got.Patterns()))
	}
}

func TestStore_Load(t *testing.T) {
	dir := t.TempDir()
	src := NewJSONSource(
		writeTestFile(t, dir, "patterns.json", patternsJSON),
		writeTestFile(t, dir, "yarns.json", yarnsJSON),
	)

	store := NewStore()
	snap, err := store.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current, err := store.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.ID() != snap.ID() {
		t.Error("expected Load to publish the snapshot")
	}
}

func TestStore_LoadError(t *testing.T) {
	store := NewStore()
	src := NewJSONSource("no/such/patterns.json", "no/such/yarns.json")

	if _, err := store.Load(context.Background(), src); err == nil {
		t.Error("expected error from broken source")
	}
	if _, err := store.Snapshot(); !errors.Is(err, ErrNotLoaded) {
		t.Error("expected store to stay unloaded after a failed load")
	}
}
