// internal/app/features/profiles/github.go
package profiles

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/devconnect/internal/app/features/errors"
	"github.com/dalemusser/devconnect/internal/app/system/github"
	"github.com/dalemusser/devconnect/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile/github/{username}                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// GitHubRepos proxies the user's repository listing. One attempt, no retry.
func (h *Handler) GitHubRepos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	body, err := h.GitHub.Repos(ctx, username)
	if errors.Is(err, github.ErrNoProfile) {
		apierrors.NotFound(w, "No Github profile found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "github: list repos failed", err, zap.String("username", username))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
