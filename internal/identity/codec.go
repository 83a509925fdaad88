package identity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	delimiter = "$"
	// placeholder replaces literal delimiters inside composite fields. The
	// placeholder itself is not escaped, so a field literally containing it
	// does not round-trip. Known limitation, kept for key stability.
	placeholder = "_DOLLAR_"

	compositeParts = 4
)

// ErrMalformedIdentifier indicates an identifier string whose delimiter
// split yields neither one nor four parts, or a non-numeric fingerprint.
var ErrMalformedIdentifier = errors.New("malformed identifier string")

// Stringify serializes one identifier into a single opaque key. Native uids
// pass through unchanged; composite fields are escaped and joined with the
// delimiter in fixed (source, namespace, group, fingerprint) order.
// Params: identifier value of either variant.
// Returns: opaque key string usable as a URL path segment.
func Stringify(id Identifier) string {
	if id.IsNative() {
		// Native uids are assumed delimiter-free by the issuing backend.
		return id.uid
	}
	fields := []string{
		escapeDelimiter(id.sourceName),
		escapeDelimiter(id.namespace),
		escapeDelimiter(id.groupName),
		strconv.FormatUint(uint64(id.fingerprint), 10),
	}
	return strings.Join(fields, delimiter)
}

// Parse deserializes one opaque key back into an identifier. One split part
// means a native uid; four parts mean an unescaped composite identifier.
// Params: opaque key string.
// Returns: identifier value or ErrMalformedIdentifier.
func Parse(value string) (Identifier, error) {
	parts := strings.Split(value, delimiter)
	switch len(parts) {
	case 1:
		return NativeIdentifier(parts[0]), nil
	case compositeParts:
		fingerprint, err := strconv.ParseUint(parts[3], 10, 32)
		if err != nil {
			return Identifier{}, fmt.Errorf("%w: %q carries non-numeric fingerprint %q", ErrMalformedIdentifier, value, parts[3])
		}
		return CompositeIdentifier(
			unescapeDelimiter(parts[0]),
			unescapeDelimiter(parts[1]),
			unescapeDelimiter(parts[2]),
			uint32(fingerprint),
		), nil
	default:
		return Identifier{}, fmt.Errorf("%w: %q splits into %d parts, want 1 or %d", ErrMalformedIdentifier, value, len(parts), compositeParts)
	}
}

// escapeDelimiter replaces literal delimiters with the placeholder.
// Params: raw composite field value.
// Returns: delimiter-free field text.
func escapeDelimiter(value string) string {
	return strings.ReplaceAll(value, delimiter, placeholder)
}

// unescapeDelimiter restores literal delimiters from the placeholder.
// Params: escaped field text from one split part.
// Returns: original field value.
func unescapeDelimiter(value string) string {
	return strings.ReplaceAll(value, placeholder, delimiter)
}
