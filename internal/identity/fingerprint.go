package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"

	"ruleid/internal/domain"
)

// ErrUnsupportedVariant indicates a fingerprint request for a record that is
// neither a recording nor an alerting rule. Callers must pre-classify.
var ErrUnsupportedVariant = errors.New("unsupported rule variant")

// HashFunc maps one canonical string to one stable 32-bit integer.
// Implementations must be pure and stable across process runs and platforms.
// Params: canonical content string.
// Returns: deterministic 32-bit hash.
type HashFunc func(value string) uint32

// DefaultHash hashes content with 32-bit FNV-1a.
// Params: canonical content string.
// Returns: deterministic 32-bit hash.
func DefaultHash(value string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	return h.Sum32()
}

// Builder derives content fingerprints and identifiers for rule records.
// Params: injected hash primitive.
// Returns: derivation behavior over rule records.
type Builder struct {
	hash HashFunc
}

// NewBuilder creates a fingerprint builder.
// Params: hash primitive (defaults to DefaultHash when nil).
// Returns: initialized builder.
func NewBuilder(hash HashFunc) *Builder {
	if hash == nil {
		hash = DefaultHash
	}
	return &Builder{hash: hash}
}

// Fingerprint derives the content fingerprint for one ruler-backend record.
// The hashed tuple order is part of the contract: recording rules hash
// (record, expr, labels); alerting rules hash (alert, expr, annotations,
// labels). Location context never contributes.
// Params: recording or alerting rule record.
// Returns: 32-bit fingerprint or ErrUnsupportedVariant.
func (b *Builder) Fingerprint(rule *domain.RuleRecord) (uint32, error) {
	switch {
	case rule.IsNative():
		return 0, fmt.Errorf("%w: native rules use their embedded uid", ErrUnsupportedVariant)
	case rule.IsRecording():
		return b.hash(encodeTuple(
			rule.Record,
			rule.Expr,
			CanonicalMapping(rule.Labels),
		)), nil
	case rule.IsAlerting():
		return b.hash(encodeTuple(
			rule.Alert,
			rule.Expr,
			CanonicalMapping(rule.Annotations),
			CanonicalMapping(rule.Labels),
		)), nil
	default:
		return 0, fmt.Errorf("%w: record matches no known shape", ErrUnsupportedVariant)
	}
}

// encodeTuple serializes ordered tuple parts into one injective string.
// Params: tuple parts in contract order.
// Returns: JSON array encoding of the parts.
func encodeTuple(parts ...string) string {
	// Arrays of strings cannot fail to encode.
	body, _ := json.Marshal(parts)
	return string(body)
}
