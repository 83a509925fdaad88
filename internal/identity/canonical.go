package identity

import (
	"encoding/json"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// collate.Collator is not safe for concurrent use; one shared locked
	// instance avoids rebuilding collation tables on every call.
	collatorMu sync.Mutex
	collator   = collate.New(language.Und)
)

// CanonicalMapping serializes a label/annotation mapping into one canonical
// string. Entries are sorted by key with a locale-aware collator and encoded
// as a JSON array of [key, value] pairs, so no two distinct mappings share a
// canonical form. Nil and empty mappings canonicalize identically.
// Params: mapping from string key to string value, possibly nil.
// Returns: deterministic canonical string.
func CanonicalMapping(mapping map[string]string) string {
	pairs := make([][2]string, 0, len(mapping))
	for key, value := range mapping {
		pairs = append(pairs, [2]string{key, value})
	}
	sortPairsByKey(pairs)

	// Arrays of strings cannot fail to encode.
	body, _ := json.Marshal(pairs)
	return string(body)
}

// sortPairsByKey orders pairs by key using the shared collator.
// Params: pairs slice sorted in place.
// Returns: locale-aware stable order side-effect.
func sortPairsByKey(pairs [][2]string) {
	if len(pairs) <= 1 {
		return
	}
	collatorMu.Lock()
	defer collatorMu.Unlock()
	sort.Slice(pairs, func(i, j int) bool {
		return collator.CompareString(pairs[i][0], pairs[j][0]) < 0
	})
}
