// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /health. HEAD is accepted so
// load balancers can probe without a body.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Head("/", h.Serve)
	return r
}
