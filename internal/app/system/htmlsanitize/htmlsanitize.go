// Package htmlsanitize cleans user-supplied free text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is safe for concurrent use once built.
var policy = bluemonday.UGCPolicy()

// Sanitize strips scripts, event handlers and unsafe URLs while keeping
// harmless formatting markup. Surrounding whitespace is trimmed.
//
// bluemonday entity-encodes the text it keeps; that encoding is undone so
// plain text ("Tom & Jerry", "a < b") is stored exactly as sent. Responses
// are JSON, whose encoder does its own escaping.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
