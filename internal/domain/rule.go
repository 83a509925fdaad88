package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// NativeIdentity is the nested identity block issued by backends that
// persist one unique identifier per rule.
// Params: backend-issued uid string.
// Returns: native rule identity payload.
type NativeIdentity struct {
	UID string `json:"uid"`
}

// RuleRecord is one rule as read from a rule-management backend.
// Shape membership is structural: `record` marks a recording rule, `alert`
// marks an alerting rule, and the nested `native` block marks a rule from a
// backend with persistent identifiers. No explicit type tag is read.
// Params: union fields decoded from backend payload.
// Returns: structurally-typed rule record for classification.
type RuleRecord struct {
	Record      string            `json:"record,omitempty"`
	Alert       string            `json:"alert,omitempty"`
	Expr        string            `json:"expr,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Native      *NativeIdentity   `json:"native,omitempty"`
}

// IsNative reports whether the record carries a native identity block.
// Params: possibly nil receiver from untrusted decode paths.
// Returns: true when the native block is present; false for nil input.
func (r *RuleRecord) IsNative() bool {
	return r != nil && r.Native != nil
}

// IsRecording reports whether the record is a recording rule.
// Params: possibly nil receiver.
// Returns: true when the `record` name field is set.
func (r *RuleRecord) IsRecording() bool {
	return r != nil && r.Record != ""
}

// IsAlerting reports whether the record is an alerting rule.
// Params: possibly nil receiver.
// Returns: true when the `alert` name field is set.
func (r *RuleRecord) IsAlerting() bool {
	return r != nil && r.Alert != ""
}

// Validate validates one rule record against the shape contract.
// Params: record fields parsed from transport.
// Returns: validation error when shapes overlap or none matches.
func (r *RuleRecord) Validate() error {
	shapes := 0
	if r.IsNative() {
		shapes++
	}
	if r.IsRecording() {
		shapes++
	}
	if r.IsAlerting() {
		shapes++
	}
	switch shapes {
	case 0:
		return errors.New("rule matches no known shape: one of record, alert, or native is required")
	case 1:
	default:
		return errors.New("rule shape fields record/alert/native are mutually exclusive")
	}

	if r.IsNative() {
		if strings.TrimSpace(r.Native.UID) == "" {
			return errors.New("native.uid is required")
		}
		return nil
	}

	if strings.TrimSpace(r.Expr) == "" {
		return errors.New("expr is required")
	}
	if r.IsRecording() && len(r.Annotations) > 0 {
		return errors.New("annotations are not allowed on recording rules")
	}
	return nil
}

// RuleWithLocation bundles one rule record with its owning location.
// Location fields are caller-supplied, never derived from the record.
// Params: source name, namespace, group name, and the rule record.
// Returns: derivation input for identifier building.
type RuleWithLocation struct {
	SourceName string     `json:"source_name"`
	Namespace  string     `json:"namespace"`
	GroupName  string     `json:"group_name"`
	Rule       RuleRecord `json:"rule"`
}

// Validate validates the location contract and the embedded rule.
// Params: bundled fields parsed from transport.
// Returns: validation error when location or rule is incomplete.
func (r RuleWithLocation) Validate() error {
	if strings.TrimSpace(r.SourceName) == "" {
		return errors.New("source_name is required")
	}
	if strings.TrimSpace(r.Namespace) == "" {
		return errors.New("namespace is required")
	}
	if strings.TrimSpace(r.GroupName) == "" {
		return errors.New("group_name is required")
	}
	if err := r.Rule.Validate(); err != nil {
		return fmt.Errorf("rule: %w", err)
	}
	return nil
}

// DecodeRuleWithLocation decodes and validates one rule-with-location payload.
// Params: JSON document bytes.
// Returns: validated payload or decode/validation error.
func DecodeRuleWithLocation(raw []byte) (RuleWithLocation, error) {
	var rule RuleWithLocation
	if err := json.Unmarshal(raw, &rule); err != nil {
		return RuleWithLocation{}, fmt.Errorf("decode rule: %w", err)
	}
	if err := rule.Validate(); err != nil {
		return RuleWithLocation{}, err
	}
	return rule, nil
}

// DecodeRuleBatch decodes and validates one batch of rules with locations.
// Params: JSON array document bytes.
// Returns: validated batch or decode/validation error.
func DecodeRuleBatch(raw []byte) ([]RuleWithLocation, error) {
	var rules []RuleWithLocation
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("decode rule batch: %w", err)
	}
	if len(rules) == 0 {
		return nil, errors.New("rule batch must contain at least one rule")
	}
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, fmt.Errorf("rule[%d]: %w", i, err)
		}
	}
	return rules, nil
}
