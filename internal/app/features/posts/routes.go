// internal/app/features/posts/routes.go
package posts

import (
	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter mounted under /posts. Every route needs a
// signed-in caller.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	return r
}
