package identity

// Identifier is a two-variant rule identity: either a backend-issued native
// uid, or a composite of the rule location plus a content fingerprint.
// Exactly one variant is populated. Values are comparable with ==.
// Params: constructed through NativeIdentifier or CompositeIdentifier only.
// Returns: immutable identity value.
type Identifier struct {
	uid         string
	sourceName  string
	namespace   string
	groupName   string
	fingerprint uint32
	composite   bool
}

// NativeIdentifier wraps one backend-issued uid as-is.
// Params: persistent unique identifier string.
// Returns: native-variant identifier.
func NativeIdentifier(uid string) Identifier {
	return Identifier{uid: uid}
}

// CompositeIdentifier assembles an identifier from location and fingerprint.
// Params: source name, namespace, group name, and content fingerprint.
// Returns: composite-variant identifier.
func CompositeIdentifier(sourceName, namespace, groupName string, fingerprint uint32) Identifier {
	return Identifier{
		sourceName:  sourceName,
		namespace:   namespace,
		groupName:   groupName,
		fingerprint: fingerprint,
		composite:   true,
	}
}

// IsNative reports whether the native variant is populated.
// Params: none.
// Returns: true for native-variant identifiers.
func (id Identifier) IsNative() bool {
	return !id.composite
}

// IsComposite reports whether the composite variant is populated.
// Params: none.
// Returns: true for composite-variant identifiers.
func (id Identifier) IsComposite() bool {
	return id.composite
}

// UID returns the backend-issued uid of a native identifier.
// Params: none.
// Returns: uid string, empty for composite identifiers.
func (id Identifier) UID() string {
	return id.uid
}

// SourceName returns the owning source of a composite identifier.
// Params: none.
// Returns: source name, empty for native identifiers.
func (id Identifier) SourceName() string {
	return id.sourceName
}

// Namespace returns the owning namespace of a composite identifier.
// Params: none.
// Returns: namespace, empty for native identifiers.
func (id Identifier) Namespace() string {
	return id.namespace
}

// GroupName returns the owning group of a composite identifier.
// Params: none.
// Returns: group name, empty for native identifiers.
func (id Identifier) GroupName() string {
	return id.groupName
}

// Fingerprint returns the content fingerprint of a composite identifier.
// Params: none.
// Returns: fingerprint, zero for native identifiers.
func (id Identifier) Fingerprint() uint32 {
	return id.fingerprint
}
