package index

import (
	"context"
	"errors"
	"time"

	"ruleid/internal/domain"
)

// ErrNotFound indicates an absent index entry.
var ErrNotFound = errors.New("not found")

// Entry is one indexed rule with its last write time.
// Params: rule-with-location payload and store write timestamp.
// Returns: resolved index value.
type Entry struct {
	Rule      domain.RuleWithLocation `json:"rule"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Store maps stringified identifiers to their underlying rules. Identifier
// strings are opaque keys here; no secondary index is kept.
// Params: CRUD operations keyed by the stringified identifier.
// Returns: backend persistence behavior.
type Store interface {
	Put(ctx context.Context, key string, rule domain.RuleWithLocation) error
	Get(ctx context.Context, key string) (Entry, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
