// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/devconnect/internal/app/system/github"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minJWTSecretLen is the shortest signing key accepted outside dev.
const minJWTSecretLen = 32

// appConfigKeys defines the configuration keys for DevConnect.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: DEVCONNECT_MONGO_URI, DEVCONNECT_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "devconnect", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Tokens and sessions
	{Name: "jwt_secret", Default: "dev-only-jwt-secret-change-me-0123456789", Desc: "HMAC key for access tokens (at least 32 bytes in production)"},
	{Name: "jwt_ttl", Default: "1h", Desc: "Access token lifetime (e.g., 1h, 30m)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "devconnect-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// GitHub proxy
	{Name: "github_api_url", Default: github.DefaultBaseURL, Desc: "GitHub API base URL"},
	{Name: "github_client_id", Default: "", Desc: "GitHub OAuth app client ID"},
	{Name: "github_client_secret", Default: "", Desc: "GitHub OAuth app client secret"},
	{Name: "github_token", Default: "", Desc: "GitHub personal access token (preferred over client id/secret)"},
	{Name: "github_timeout", Default: "10s", Desc: "Timeout for one GitHub API call"},

	// Store timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document store calls"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list and aggregate store calls"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for multi-step store operations"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// DEVCONNECT_* environment variables and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DEVCONNECT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:     appValues.String("jwt_secret"),
		JWTTTL:        appValues.Duration("jwt_ttl", time.Hour),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		GitHubAPIURL:       appValues.String("github_api_url"),
		GitHubClientID:     appValues.String("github_client_id"),
		GitHubClientSecret: appValues.String("github_client_secret"),
		GitHubToken:        appValues.String("github_token"),
		GitHubTimeout:      appValues.Duration("github_timeout", 10*time.Second),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before any connection attempt. Outside dev the
// JWT secret must be long enough to be a real HMAC key.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must be set")
	}
	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret must be set")
	}
	if coreCfg != nil && coreCfg.Env != "dev" && len(appCfg.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("jwt_secret must be at least %d bytes outside dev", minJWTSecretLen)
	}
	if appCfg.JWTTTL <= 0 {
		return errors.New("jwt_ttl must be positive")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	return nil
}
