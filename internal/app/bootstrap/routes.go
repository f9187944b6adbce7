// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authnfeature "github.com/dalemusser/devconnect/internal/app/features/authn"
	errorsfeature "github.com/dalemusser/devconnect/internal/app/features/errors"
	healthfeature "github.com/dalemusser/devconnect/internal/app/features/health"
	homefeature "github.com/dalemusser/devconnect/internal/app/features/home"
	postsfeature "github.com/dalemusser/devconnect/internal/app/features/posts"
	profilesfeature "github.com/dalemusser/devconnect/internal/app/features/profiles"
	usersfeature "github.com/dalemusser/devconnect/internal/app/features/users"
	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"github.com/dalemusser/devconnect/internal/app/system/github"
	"github.com/dalemusser/devconnect/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for DevConnect.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It builds the token and session managers,
// applies the global middleware, and mounts one router per feature.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTTTL)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.JWTTTL, secure, tokens, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	gh := github.New(github.Config{
		BaseURL:      appCfg.GitHubAPIURL,
		Token:        appCfg.GitHubToken,
		ClientID:     appCfg.GitHubClientID,
		ClientSecret: appCfg.GitHubClientSecret,
		Timeout:      appCfg.GitHubTimeout,
	})

	errLog := errorsfeature.NewErrorLogger(logger)
	db := deps.MongoDatabase

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Resolves the caller from the token header or session cookie.
	// Handlers read it via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))
	r.Handle("/metrics", metrics.Handler())

	r.Mount("/", homefeature.Routes(homefeature.NewHandler(logger)))

	usersHandler := usersfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	authnHandler := authnfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/auth", authnfeature.Routes(authnHandler))

	profilesHandler := profilesfeature.NewHandler(db, gh, errLog, logger)
	r.Mount("/profile", profilesfeature.Routes(profilesHandler))

	postsHandler := postsfeature.NewHandler(db, errLog, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler))

	return r, nil
}
