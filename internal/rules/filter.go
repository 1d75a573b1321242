package rules

import (
	"strings"
)

// Enabled returns the rules of rs that are not switched off, in set order.
func Enabled(rs *RuleSet) []Rule {
	return BySeverity(rs, SeverityWarning)
}

// BySeverity returns rules at or above min, in set order.
func BySeverity(rs *RuleSet, min Severity) []Rule {
	var filtered []Rule
	for _, r := range rs.Rules() {
		if r.Severity >= min {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ByField returns rules inspecting field f.
func ByField(rs *RuleSet, f Field) []Rule {
	var filtered []Rule
	for _, r := range rs.Rules() {
		if r.AppliesTo == f {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Select keeps the named rules of rs. Names are matched case-insensitively;
// an empty list keeps everything.
func Select(rs *RuleSet, names []string) []Rule {
	if len(names) == 0 {
		return rs.Rules()
	}
	var filtered []Rule
	for _, r := range rs.Rules() {
		if containsString(names, r.Name) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func containsString(slice []string, s string) bool {
	for _, item := range slice {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
