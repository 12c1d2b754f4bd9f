package common

import "strings"

// HasAnyFold reports whether s contains any of the substrings, ignoring case.
func HasAnyFold(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// ContainsFold reports whether items holds want, ignoring case.
func ContainsFold(items []string, want string) bool {
	for _, it := range items {
		if strings.EqualFold(it, want) {
			return true
		}
	}
	return false
}

// RemoveFold returns items without every case-insensitive match of drop.
// The result is never nil.
func RemoveFold(items []string, drop string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !strings.EqualFold(it, drop) {
			out = append(out, it)
		}
	}
	return out
}
