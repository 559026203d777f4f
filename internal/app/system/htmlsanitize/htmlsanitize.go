// Package htmlsanitize detects markup in landing-page copy.
// It uses bluemonday's strict policy as the reference for what counts as
// markup, so the check agrees with what an HTML parser would strip.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy; it allows no elements at all.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// HasMarkup reports whether s contains anything the strict policy would
// remove: elements, comments or doctype declarations. Entities and lone
// angle brackets ("a < b") are text, not markup.
func HasMarkup(s string) bool {
	if IsPlainText(s) {
		return false
	}
	return html.UnescapeString(getPolicy().Sanitize(s)) != html.UnescapeString(s)
}

// IsPlainText checks if content appears to be plain text (no HTML tags).
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	// Valid HTML tags require both characters, so if either is missing, treat as plain text
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}
