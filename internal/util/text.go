package util

import (
	"strings"
	"unicode"
)

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeTitle lower-cases a title and collapses internal whitespace runs
// into single spaces, for use in fallback dedup keys.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsHangul reports whether s holds at least one Hangul code point,
// including the compatibility jamo blocks.
func ContainsHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}

// ContainsKana reports whether s holds at least one Hiragana or Katakana
// code point.
func ContainsKana(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) {
			return true
		}
	}
	return false
}

// ContainsCJKIdeograph reports whether s holds at least one unified CJK
// ideograph. Ideographs alone cannot distinguish Chinese from Japanese
// titles, so callers pair this with country-name token checks.
func ContainsCJKIdeograph(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether s contains any of the given substrings.
func ContainsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if tok != "" && strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// Contains checks if a string slice contains a specific item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
