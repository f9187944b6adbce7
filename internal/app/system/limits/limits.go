// internal/app/system/limits/limits.go
package limits

// Request body size limits. These limits help prevent memory exhaustion from
// oversized requests.
const (
	// MaxJSONBodySize is the maximum size of any JSON request body.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxPostTextSize is the maximum length, in bytes, of a post's text.
	MaxPostTextSize = 16 << 10 // 16 KB
)
