package index

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ruleid/internal/config"
	"ruleid/internal/domain"

	"github.com/nats-io/nats.go"
)

// NATSStore persists the identifier index in one JetStream KV bucket.
// Params: NATS connection, KV bucket handle, and injected clock.
// Returns: KV-backed index store implementation.
type NATSStore struct {
	nc  *nats.Conn
	kv  nats.KeyValue
	now func() time.Time
}

// NewNATSStore opens (or creates) the index bucket and returns the backend.
// Params: NATS index settings from config and now function (nil → time.Now).
// Returns: initialized NATS store or setup error.
func NewNATSStore(settings config.NATSIndexConfig, now func() time.Time) (*NATSStore, error) {
	if now == nil {
		now = time.Now
	}
	nc, err := nats.Connect(strings.Join(settings.URL, ","))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	kv, err := js.KeyValue(settings.Bucket)
	if err != nil {
		if !settings.AllowCreateBucket {
			nc.Close()
			return nil, fmt.Errorf("open index bucket %q: %w", settings.Bucket, err)
		}
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket: settings.Bucket,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("create index bucket %q: %w", settings.Bucket, err)
		}
	}

	return &NATSStore{nc: nc, kv: kv, now: now}, nil
}

// Put writes one index entry unconditionally.
// Params: identifier key and rule payload.
// Returns: encode or KV put error.
func (s *NATSStore) Put(_ context.Context, key string, rule domain.RuleWithLocation) error {
	body, err := json.Marshal(Entry{Rule: rule, UpdatedAt: s.now()})
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	if _, err := s.kv.Put(encodeKey(key), body); err != nil {
		return fmt.Errorf("put entry: %w", err)
	}
	return nil
}

// Get reads one index entry.
// Params: identifier key.
// Returns: stored entry, ErrNotFound, or KV error.
func (s *NATSStore) Get(_ context.Context, key string) (Entry, error) {
	kvEntry, err := s.kv.Get(encodeKey(key))
	if err != nil {
		if err == nats.ErrKeyNotFound {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("get entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(kvEntry.Value(), &entry); err != nil {
		return Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	return entry, nil
}

// Delete removes one index entry.
// Params: identifier key.
// Returns: delete error, absent keys are ignored.
func (s *NATSStore) Delete(_ context.Context, key string) error {
	if err := s.kv.Delete(encodeKey(key)); err != nil && err != nats.ErrKeyNotFound {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Close closes the underlying NATS connection.
// Params: none.
// Returns: nil after connection close.
func (s *NATSStore) Close() error {
	s.nc.Close()
	return nil
}

// encodeKey maps one identifier string onto the KV key charset. The KV key
// alphabet excludes the identifier delimiter, so keys are stored as URL-safe
// base64 of the opaque identifier.
// Params: stringified identifier.
// Returns: bucket-safe KV key.
func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}
