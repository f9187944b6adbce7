// internal/app/features/profiles/profile.go
package profiles

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/devconnect/internal/app/features/errors"
	poststore "github.com/dalemusser/devconnect/internal/app/store/posts"
	profilestore "github.com/dalemusser/devconnect/internal/app/store/profiles"
	userstore "github.com/dalemusser/devconnect/internal/app/store/users"
	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"github.com/dalemusser/devconnect/internal/app/system/formutil"
	"github.com/dalemusser/devconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/devconnect/internal/app/system/inputval"
	"github.com/dalemusser/devconnect/internal/app/system/normalize"
	"github.com/dalemusser/devconnect/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var profileRules = []inputval.Rule{
	inputval.Required("status", "Status is required"),
	inputval.Check("skills", "Skills is required", func(v string) bool {
		return len(normalize.Skills(v)) > 0
	}),
}

// profileInput mirrors the flat request body; nil means "not sent".
type profileInput struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Status         *string `json:"status"`
	Skills         *string `json:"skills"`
	Bio            *string `json:"bio"`
	GitHubUsername *string `json:"githubusername"`
	YouTube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	LinkedIn       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

func (in profileInput) fields() profilestore.Fields {
	f := profilestore.Fields{
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Status:         in.Status,
		Skills:         in.Skills,
		GitHubUsername: in.GitHubUsername,
		YouTube:        in.YouTube,
		Twitter:        in.Twitter,
		Facebook:       in.Facebook,
		LinkedIn:       in.LinkedIn,
		Instagram:      in.Instagram,
	}
	if in.Bio != nil {
		bio := htmlsanitize.Sanitize(*in.Bio)
		f.Bio = &bio
	}
	return f
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile/me                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := profilestore.New(h.DB).GetWithOwner(ctx, u.ID)
	if errors.Is(err, profilestore.ErrNotFound) {
		apierrors.NotFound(w, msgNoProfile)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load own profile failed", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, viewJSON(v))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile – create or update                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var in profileInput
	if err := formutil.Decode(w, r, &in); err != nil {
		apierrors.BadRequest(w, err.Error())
		return
	}
	if errs := inputval.Validate(map[string]string{
		"status": formutil.Deref(in.Status),
		"skills": formutil.Deref(in.Skills),
	}, profileRules); len(errs) > 0 {
		apierrors.Validation(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// A token can outlive its account; never create a profile for a
	// deleted user.
	if _, err := userstore.New(h.DB).GetByID(ctx, u.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.NotFound(w, "User not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "profile: load owner failed", err)
		return
	}

	p, err := profilestore.New(h.DB).Upsert(ctx, u.ID, in.fields())
	if errors.Is(err, profilestore.ErrConflict) {
		apierrors.Conflict(w, "Profile was created concurrently; retry")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: upsert failed", err)
		return
	}
	writeProfile(w, p)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile, GET /profile/user/{user_id}                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	views, err := profilestore.New(h.DB).ListWithOwners(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: list failed", err)
		return
	}
	out := make([]profileJSON, 0, len(views))
	for i := range views {
		out = append(out, viewJSON(&views[i]))
	}
	apierrors.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "user_id"))
	if err != nil {
		apierrors.NotFound(w, msgProfileNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := profilestore.New(h.DB).GetWithOwner(ctx, ownerID)
	if errors.Is(err, profilestore.ErrNotFound) {
		apierrors.NotFound(w, msgProfileNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load by user failed", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, viewJSON(v))
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /profile – posts, profile, then user                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Delete removes the caller's posts, profile and account as three separate
// writes. A failure stops the sequence and leaves earlier steps applied.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete account")
	defer cancel()

	posts, err := poststore.New(h.DB).DeleteByUser(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile delete: remove posts failed", err)
		return
	}
	profiles, err := profilestore.New(h.DB).DeleteByOwner(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile delete: remove profile failed", err,
			zap.Int64("posts_deleted", posts))
		return
	}
	if _, err := userstore.New(h.DB).Delete(ctx, u.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "profile delete: remove user failed", err,
			zap.Int64("posts_deleted", posts), zap.Int64("profiles_deleted", profiles))
		return
	}

	h.Log.Info("account deleted",
		zap.String("user_id", u.ID.Hex()),
		zap.Int64("posts_deleted", posts),
		zap.Int64("profiles_deleted", profiles))
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
