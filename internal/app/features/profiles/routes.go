// internal/app/features/profiles/routes.go
package profiles

import (
	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter mounted under /profile.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public
	r.Get("/", h.List)
	r.Get("/user/{user_id}", h.ByUser)
	r.Get("/github/{username}", h.GitHubRepos)

	// Signed-in caller
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/me", h.Me)
		pr.Post("/", h.Upsert)
		pr.Delete("/", h.Delete)

		pr.Put("/experience", h.AddExperience)
		pr.Delete("/experience/{entry_id}", h.RemoveExperience)
		pr.Put("/education", h.AddEducation)
		pr.Delete("/education/{entry_id}", h.RemoveEducation)
	})
	return r
}
