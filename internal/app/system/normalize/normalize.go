// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email trims and lower-cases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Optional trims s and returns nil when the result is blank. A nil input
// stays nil, so callers can tell "absent" from "present".
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Skills splits a comma-delimited skills string into trimmed tokens,
// keeping their order and dropping empty ones.
//
//	"a, b ,c" -> ["a", "b", "c"]
func Skills(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
