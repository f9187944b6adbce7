// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for DevConnect.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS); everything the API
// itself needs lives here and is passed to the lifecycle hooks.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Token configuration
	JWTSecret string        // HMAC key for signing access tokens (>= 32 bytes outside dev)
	JWTTTL    time.Duration // lifetime of an issued token

	// Session cookie configuration (carries the token for browser clients)
	SessionKey    string // Secret key for signing session cookies
	SessionName   string // Cookie name (default: devconnect-session)
	SessionDomain string // Cookie domain (blank means current host)

	// GitHub proxy configuration
	GitHubAPIURL       string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubToken        string // personal access token; wins over client id/secret
	GitHubTimeout      time.Duration

	// Store call timeouts (zero keeps the package defaults)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
