package index

import (
	"context"
	"errors"
	"testing"

	"ruleid/internal/config"
	"ruleid/test/testutil"
)

func TestNATSStoreRoundTrip(t *testing.T) {
	url, stop := testutil.StartLocalNATSServer(t)
	defer stop()

	store, err := NewNATSStore(config.NATSIndexConfig{
		URL:               []string{url},
		Bucket:            "ruleindex-test",
		AllowCreateBucket: true,
	}, nil)
	if err != nil {
		t.Fatalf("new nats store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	// Composite keys carry the delimiter, which the KV key charset rejects;
	// the store must handle them through its own key encoding.
	key := "cortex_DOLLAR_prod$ns-a$grp-1$42"

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
	if entry.UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at stamp, got zero time")
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("absent delete must be a no-op, got %v", err)
	}
}

func TestNATSStoreRequiresBucketWhenCreateDisabled(t *testing.T) {
	url, stop := testutil.StartLocalNATSServer(t)
	defer stop()

	_, err := NewNATSStore(config.NATSIndexConfig{
		URL:               []string{url},
		Bucket:            "missing-bucket",
		AllowCreateBucket: false,
	}, nil)
	if err == nil {
		t.Fatalf("expected error for absent bucket with create disabled")
	}
}
