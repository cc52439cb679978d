package utils

import "strings"

// UniqueStrings trims every entry, drops blanks and keeps the first spelling of
// case-insensitive duplicates, preserving order.
func UniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// NormalizeEmail lower-cases and trims an address for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}
