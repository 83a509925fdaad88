package identity

import (
	"ruleid/internal/domain"
)

// Derive produces the identifier for one rule record at a known location.
// Native records win on their embedded uid; everything else gets a composite
// identifier built from the location and the content fingerprint.
// Params: source name, namespace, group name, and the rule record.
// Returns: identifier or fingerprint error for unrecognized shapes.
func (b *Builder) Derive(sourceName, namespace, groupName string, rule *domain.RuleRecord) (Identifier, error) {
	if rule.IsNative() {
		return NativeIdentifier(rule.Native.UID), nil
	}
	fingerprint, err := b.Fingerprint(rule)
	if err != nil {
		return Identifier{}, err
	}
	return CompositeIdentifier(sourceName, namespace, groupName, fingerprint), nil
}

// DeriveFromRule unpacks a bundled rule-with-location and derives its identifier.
// Params: rule record bundled with caller-supplied location.
// Returns: identifier or fingerprint error for unrecognized shapes.
func (b *Builder) DeriveFromRule(rule domain.RuleWithLocation) (Identifier, error) {
	return b.Derive(rule.SourceName, rule.Namespace, rule.GroupName, &rule.Rule)
}
