package index

import (
	"context"
	"errors"
	"testing"
	"time"

	"ruleid/internal/domain"
)

func testRule(alert string) domain.RuleWithLocation {
	return domain.RuleWithLocation{
		SourceName: "mimir-1",
		Namespace:  "ns-a",
		GroupName:  "grp-1",
		Rule:       domain.RuleRecord{Alert: alert, Expr: "up == 0"},
	}
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore(func() time.Time { return fixed })
	ctx := context.Background()

	key := "mimir-1$ns-a$grp-1$42"
	if err := store.Put(ctx, key, testRule("HighCPU")); err != nil {
		t.Fatalf("put: %v", err)
	}

	entry, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Rule.Rule.Alert != "HighCPU" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if !entry.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected clock stamp %v, got %v", fixed, entry.UpdatedAt)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStorePutOverwrites(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(nil)
	ctx := context.Background()

	key := "abc123"
	if err := store.Put(ctx, key, testRule("First")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, key, testRule("Second")); err != nil {
		t.Fatalf("put: %v", err)
	}

	entry, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Rule.Rule.Alert != "Second" {
		t.Fatalf("expected overwrite, got %+v", entry.Rule.Rule)
	}
}

func TestMemoryStoreMissAndAbsentDelete(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(nil)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("absent delete must be a no-op, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
