package lib

import "strings"

// MinEANDigits is the EAN-13 payload length; the check digit may be absent.
const MinEANDigits = 12

// CleanDigits drops every character that is not an ASCII digit.
func CleanDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsRenderableEAN reports whether the cleaned code carries a full EAN-13 payload.
func IsRenderableEAN(clean string) bool {
	return len(clean) >= MinEANDigits
}

// IsDigits reports whether s is a non-empty string of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	return CleanDigits(s) == s
}
