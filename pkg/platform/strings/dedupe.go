// Package strings holds small helpers for comma-separated input.
package strings

import (
	"strings"
)

// SplitDedupe splits every value on sep, trims each part, and drops empty
// parts and repeats. First-seen order is kept.
//
// Example:
//
//	SplitDedupe([]string{"a, b", "b,,c"}, ",")
//	// Returns: []string{"a", "b", "c"}
func SplitDedupe(values []string, sep string) []string {
	var result []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, sep) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			result = append(result, part)
		}
	}
	return result
}

// SplitList is SplitDedupe over a single comma-separated value.
func SplitList(s string) []string {
	return SplitDedupe([]string{s}, ",")
}
