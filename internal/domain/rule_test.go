package domain

import (
	"strings"
	"testing"
)

func TestClassifierExclusivity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		rule      *RuleRecord
		wantTrue  int
		wantShape string
	}{
		{
			name:      "recording",
			rule:      &RuleRecord{Record: "cpu:rate", Expr: "rate(cpu[5m])"},
			wantTrue:  1,
			wantShape: "recording",
		},
		{
			name:      "alerting",
			rule:      &RuleRecord{Alert: "HighCPU", Expr: "cpu > 0.9"},
			wantTrue:  1,
			wantShape: "alerting",
		},
		{
			name:      "native",
			rule:      &RuleRecord{Native: &NativeIdentity{UID: "abc"}},
			wantTrue:  1,
			wantShape: "native",
		},
		{
			name:     "no shape",
			rule:     &RuleRecord{Expr: "up == 0"},
			wantTrue: 0,
		},
		{
			name:     "nil record",
			rule:     nil,
			wantTrue: 0,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			matched := 0
			if tc.rule.IsNative() {
				matched++
				if tc.wantShape != "native" {
					t.Fatalf("unexpected native classification")
				}
			}
			if tc.rule.IsRecording() {
				matched++
				if tc.wantShape != "recording" {
					t.Fatalf("unexpected recording classification")
				}
			}
			if tc.rule.IsAlerting() {
				matched++
				if tc.wantShape != "alerting" {
					t.Fatalf("unexpected alerting classification")
				}
			}
			if matched != tc.wantTrue {
				t.Fatalf("expected %d matching predicates, got %d", tc.wantTrue, matched)
			}
		})
	}
}

func TestRuleRecordValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		rule    RuleRecord
		wantErr string
	}{
		{
			name: "valid recording",
			rule: RuleRecord{Record: "cpu:rate", Expr: "rate(cpu[5m])", Labels: map[string]string{"team": "infra"}},
		},
		{
			name: "valid alerting",
			rule: RuleRecord{Alert: "HighCPU", Expr: "cpu > 0.9", Annotations: map[string]string{"summary": "hot"}},
		},
		{
			name: "valid native",
			rule: RuleRecord{Native: &NativeIdentity{UID: "abc123"}},
		},
		{
			name:    "no shape",
			rule:    RuleRecord{Expr: "up == 0"},
			wantErr: "no known shape",
		},
		{
			name:    "record and alert set",
			rule:    RuleRecord{Record: "a", Alert: "b", Expr: "up"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "native and alert set",
			rule:    RuleRecord{Alert: "b", Expr: "up", Native: &NativeIdentity{UID: "x"}},
			wantErr: "mutually exclusive",
		},
		{
			name:    "missing expr",
			rule:    RuleRecord{Alert: "HighCPU"},
			wantErr: "expr is required",
		},
		{
			name:    "empty native uid",
			rule:    RuleRecord{Native: &NativeIdentity{UID: "  "}},
			wantErr: "native.uid is required",
		},
		{
			name:    "annotations on recording rule",
			rule:    RuleRecord{Record: "cpu:rate", Expr: "rate(cpu[5m])", Annotations: map[string]string{"summary": "x"}},
			wantErr: "annotations are not allowed",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.rule.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestDecodeRuleWithLocation(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"source_name": "mimir-1",
		"namespace": "ns-a",
		"group_name": "grp-1",
		"rule": {"record": "cpu:alert", "expr": "up == 0", "labels": {"team": "infra"}}
	}`)

	rule, err := DecodeRuleWithLocation(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rule.SourceName != "mimir-1" || rule.Namespace != "ns-a" || rule.GroupName != "grp-1" {
		t.Fatalf("unexpected location %+v", rule)
	}
	if !rule.Rule.IsRecording() {
		t.Fatalf("expected recording rule, got %+v", rule.Rule)
	}
}

func TestDecodeRuleWithLocationRejectsMissingLocation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "missing source",
			payload: `{"namespace": "ns", "group_name": "g", "rule": {"alert": "a", "expr": "up"}}`,
			wantErr: "source_name is required",
		},
		{
			name:    "missing namespace",
			payload: `{"source_name": "s", "group_name": "g", "rule": {"alert": "a", "expr": "up"}}`,
			wantErr: "namespace is required",
		},
		{
			name:    "missing group",
			payload: `{"source_name": "s", "namespace": "ns", "rule": {"alert": "a", "expr": "up"}}`,
			wantErr: "group_name is required",
		},
		{
			name:    "invalid rule",
			payload: `{"source_name": "s", "namespace": "ns", "group_name": "g", "rule": {"expr": "up"}}`,
			wantErr: "rule:",
		},
		{
			name:    "broken json",
			payload: `{"source_name": `,
			wantErr: "decode rule",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeRuleWithLocation([]byte(tc.payload))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestDecodeRuleBatch(t *testing.T) {
	t.Parallel()

	payload := []byte(`[
		{"source_name": "s", "namespace": "ns", "group_name": "g", "rule": {"alert": "a", "expr": "up"}},
		{"source_name": "s", "namespace": "ns", "group_name": "g", "rule": {"native": {"uid": "abc"}}}
	]`)

	rules, err := DecodeRuleBatch(payload)
	if err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}

	if _, err := DecodeRuleBatch([]byte(`[]`)); err == nil {
		t.Fatalf("expected error for empty batch")
	}
	if _, err := DecodeRuleBatch([]byte(`[{"source_name": "s"}]`)); err == nil ||
		!strings.Contains(err.Error(), "rule[0]") {
		t.Fatalf("expected indexed validation error, got %v", err)
	}
}
