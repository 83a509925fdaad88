package identity

import (
	"fmt"
	"testing"

	"ruleid/internal/domain"
)

func TestDeriveCompositeForRulerRecord(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil)
	rule := &domain.RuleRecord{
		Record: "cpu:alert",
		Expr:   "up == 0",
		Labels: map[string]string{"team": "infra"},
	}

	id, err := builder.Derive("mimir-1", "ns-a", "grp-1", rule)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !id.IsComposite() {
		t.Fatalf("expected composite identifier, got %+v", id)
	}

	fingerprint, err := builder.Fingerprint(rule)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	wantKey := fmt.Sprintf("mimir-1$ns-a$grp-1$%d", fingerprint)
	if got := Stringify(id); got != wantKey {
		t.Fatalf("expected key %q, got %q", wantKey, got)
	}

	parsed, err := Parse(wantKey)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: want %+v, got %+v", id, parsed)
	}
}

func TestDeriveNativeUsesEmbeddedUID(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil)
	rule := &domain.RuleRecord{Native: &domain.NativeIdentity{UID: "abc123"}}

	id, err := builder.Derive("grafana", "ns-a", "grp-1", rule)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !id.IsNative() || id.UID() != "abc123" {
		t.Fatalf("expected native identifier abc123, got %+v", id)
	}
	if got := Stringify(id); got != "abc123" {
		t.Fatalf("expected key %q, got %q", "abc123", got)
	}
}

func TestDeriveNativeWinsOverRulerFields(t *testing.T) {
	t.Parallel()

	// Classification precedence: the native block is checked first even when
	// ruler-shape fields are present on the same record.
	builder := NewBuilder(nil)
	rule := &domain.RuleRecord{
		Alert:  "HighCPU",
		Expr:   "cpu_usage > 0.9",
		Native: &domain.NativeIdentity{UID: "native-7"},
	}

	id, err := builder.Derive("grafana", "ns-a", "grp-1", rule)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !id.IsNative() || id.UID() != "native-7" {
		t.Fatalf("expected native precedence, got %+v", id)
	}
}

func TestDeriveFromRuleUnpacksLocation(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil)
	bundled := domain.RuleWithLocation{
		SourceName: "mimir-1",
		Namespace:  "ns-a",
		GroupName:  "grp-1",
		Rule: domain.RuleRecord{
			Alert: "HighCPU",
			Expr:  "cpu_usage > 0.9",
		},
	}

	fromBundle, err := builder.DeriveFromRule(bundled)
	if err != nil {
		t.Fatalf("derive from rule: %v", err)
	}
	direct, err := builder.Derive("mimir-1", "ns-a", "grp-1", &bundled.Rule)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if fromBundle != direct {
		t.Fatalf("bundled derivation diverged: %+v vs %+v", fromBundle, direct)
	}
}

func TestDeriveLocationDoesNotChangeFingerprint(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil)
	rule := &domain.RuleRecord{Record: "up:count", Expr: "count(up)"}

	first, err := builder.Derive("src-1", "ns-1", "grp-1", rule)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	second, err := builder.Derive("src-2", "ns-2", "grp-2", rule)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if first.Fingerprint() != second.Fingerprint() {
		t.Fatalf("location leaked into fingerprint: %d vs %d", first.Fingerprint(), second.Fingerprint())
	}
}
