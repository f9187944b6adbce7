// internal/app/features/profiles/entries.go
package profiles

import (
	"context"
	"errors"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/devconnect/internal/app/features/errors"
	profilestore "github.com/dalemusser/devconnect/internal/app/store/profiles"
	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"github.com/dalemusser/devconnect/internal/app/system/formutil"
	"github.com/dalemusser/devconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/devconnect/internal/app/system/inputval"
	"github.com/dalemusser/devconnect/internal/app/system/normalize"
	"github.com/dalemusser/devconnect/internal/app/system/timeouts"
	"github.com/dalemusser/devconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var experienceRules = []inputval.Rule{
	inputval.Required("title", "Title is required"),
	inputval.Required("company", "Company is required"),
	inputval.Required("from", "From date is required"),
	inputval.Date("from", "From date must be a valid date"),
	inputval.Date("to", "To date must be a valid date"),
}

var educationRules = []inputval.Rule{
	inputval.Required("school", "School is required"),
	inputval.Required("degree", "Degree is required"),
	inputval.Required("fieldofstudy", "Field of study is required"),
	inputval.Required("from", "From date is required"),
	inputval.Date("from", "From date must be a valid date"),
	inputval.Date("to", "To date must be a valid date"),
}

type experienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// dateRange parses validated from/to strings. An empty to stays nil.
func dateRange(from, to string) (time.Time, *time.Time) {
	f, _ := inputval.ParseDate(from)
	if normalize.Optional(&to) == nil {
		return f, nil
	}
	t, _ := inputval.ParseDate(to)
	return f, &t
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /profile/experience, PUT /profile/education                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var in experienceInput
	if err := formutil.Decode(w, r, &in); err != nil {
		apierrors.BadRequest(w, err.Error())
		return
	}
	if errs := inputval.Validate(map[string]string{
		"title":   in.Title,
		"company": in.Company,
		"from":    in.From,
		"to":      in.To,
	}, experienceRules); len(errs) > 0 {
		apierrors.Validation(w, errs)
		return
	}

	from, to := dateRange(in.From, in.To)
	h.prepend(w, r, &models.Experience{
		Title:       normalize.Name(in.Title),
		Company:     normalize.Name(in.Company),
		Location:    normalize.Name(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: htmlsanitize.Sanitize(in.Description),
	})
}

func (h *Handler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var in educationInput
	if err := formutil.Decode(w, r, &in); err != nil {
		apierrors.BadRequest(w, err.Error())
		return
	}
	if errs := inputval.Validate(map[string]string{
		"school":       in.School,
		"degree":       in.Degree,
		"fieldofstudy": in.FieldOfStudy,
		"from":         in.From,
		"to":           in.To,
	}, educationRules); len(errs) > 0 {
		apierrors.Validation(w, errs)
		return
	}

	from, to := dateRange(in.From, in.To)
	h.prepend(w, r, &models.Education{
		School:       normalize.Name(in.School),
		Degree:       normalize.Name(in.Degree),
		FieldOfStudy: normalize.Name(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  htmlsanitize.Sanitize(in.Description),
	})
}

func (h *Handler) prepend(w http.ResponseWriter, r *http.Request, entry models.ListEntry) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := profilestore.New(h.DB).PrependEntry(ctx, u.ID, entry)
	if errors.Is(err, profilestore.ErrNotFound) {
		apierrors.NotFound(w, msgNoProfile)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: add "+string(entry.List())+" failed", err)
		return
	}
	writeProfile(w, p)
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /profile/experience/{entry_id}, DELETE /profile/education/{entry_id}  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, models.ExperienceList)
}

func (h *Handler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, models.EducationList)
}

// remove pulls the entry from list. An id that is malformed or not present
// leaves the profile as it is and still answers 200 with it.
func (h *Handler) remove(w http.ResponseWriter, r *http.Request, list models.ProfileList) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := profilestore.New(h.DB)

	var (
		p   *models.Profile
		err error
	)
	if entryID, perr := primitive.ObjectIDFromHex(chi.URLParam(r, "entry_id")); perr == nil {
		p, err = store.RemoveEntry(ctx, u.ID, list, entryID)
	} else {
		p, err = store.GetByOwner(ctx, u.ID)
	}
	if errors.Is(err, profilestore.ErrNotFound) {
		apierrors.NotFound(w, msgNoProfile)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: remove "+string(list)+" failed", err)
		return
	}
	writeProfile(w, p)
}
