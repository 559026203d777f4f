// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered
// strings.TrimSpace calls so request values compare consistently.
package normalize

import "strings"

// Username normalizes an admin username by trimming surrounding whitespace.
// Case is preserved; usernames match exactly.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam normalizes a query parameter by trimming whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
