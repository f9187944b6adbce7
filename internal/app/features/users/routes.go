// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted under /users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Register)
	return r
}
