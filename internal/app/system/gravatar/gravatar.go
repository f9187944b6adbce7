// Package gravatar builds avatar URLs for registered users.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

const baseURL = "https://www.gravatar.com/avatar/"

// Options mirrors the gravatar query parameters we set.
type Options struct {
	Size    string // s
	Rating  string // r
	Default string // d
}

// DefaultOptions are the values used for new accounts.
var DefaultOptions = Options{Size: "200", Rating: "pg", Default: "mm"}

// URL returns the gravatar URL for email. The hash is computed over the
// trimmed, lower-cased address as gravatar requires.
func URL(email string, o Options) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	q := url.Values{}
	if o.Size != "" {
		q.Set("s", o.Size)
	}
	if o.Rating != "" {
		q.Set("r", o.Rating)
	}
	if o.Default != "" {
		q.Set("d", o.Default)
	}

	u := baseURL + hex.EncodeToString(sum[:])
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}
