// internal/app/features/profiles/handler.go
package profiles

import (
	"net/http"

	apierrors "github.com/dalemusser/devconnect/internal/app/features/errors"
	profilestore "github.com/dalemusser/devconnect/internal/app/store/profiles"
	"github.com/dalemusser/devconnect/internal/app/system/github"
	"github.com/dalemusser/devconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /profile. Stores are built per request from DB.
type Handler struct {
	DB     *mongo.Database
	GitHub *github.Client
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, gh *github.Client, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		GitHub: gh,
		Log:    logger,
		ErrLog: errLog,
	}
}

const (
	msgNoProfile       = "There is no profile for this user"
	msgProfileNotFound = "Profile not found"
)

// profileJSON renders a profile with "user" replaced by the owner summary
// (null when the owning user is gone).
type profileJSON struct {
	*models.Profile
	User *models.UserSummary `json:"user"`
}

func viewJSON(v *profilestore.View) profileJSON {
	return profileJSON{Profile: &v.Profile, User: v.Owner}
}

func writeProfile(w http.ResponseWriter, p *models.Profile) {
	apierrors.WriteJSON(w, http.StatusOK, p)
}
