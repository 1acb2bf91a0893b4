// Package desensitize masks personal values before they are printed.
package desensitize

import "strings"

// Phone keeps the last two digits.
// For example: 0667089908 -> ********08
func Phone(phone string) string {
	if len(phone) <= 2 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-2) + phone[len(phone)-2:]
}

// PIN hides every digit.
func PIN(pin string) string {
	return strings.Repeat("*", len(pin))
}

// Secret keeps the first and last keep characters of a hex key.
// For example: Secret("a1b2c3d4e5", 2) -> a1******e5
func Secret(s string, keep int) string {
	return Custom(s, keep)
}

// Custom keeps keep characters at both ends of s.
func Custom(s string, keep int) string {
	length := len(s)
	if keep < 0 {
		keep = 0
	}
	if length <= keep*2 {
		return strings.Repeat("*", length)
	}
	return s[:keep] + strings.Repeat("*", length-keep*2) + s[length-keep:]
}
