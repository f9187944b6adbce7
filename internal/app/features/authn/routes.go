// internal/app/features/authn/routes.go
package authn

import (
	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter mounted under /auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Login)
	r.Delete("/", h.Logout)
	r.With(auth.RequireSignedIn).Get("/", h.Me)
	return r
}
