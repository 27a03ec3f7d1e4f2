package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded, whitespace-trimmed form of s, suitable for
// caseless comparison.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b match after folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether the folded form of s contains the folded
// substring. An empty substring never matches.
func ContainsFold(s, substr string) bool {
	needle := Fold(substr)
	if needle == "" {
		return false
	}
	return strings.Contains(Fold(s), needle)
}

// FoldSet builds a lookup set of folded, non-empty values.
func FoldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if folded := Fold(v); folded != "" {
			set[folded] = struct{}{}
		}
	}
	return set
}
