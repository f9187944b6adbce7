// internal/app/features/users/handler.go
package users

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/devconnect/internal/app/features/errors"
	userstore "github.com/dalemusser/devconnect/internal/app/store/users"
	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"github.com/dalemusser/devconnect/internal/app/system/authutil"
	"github.com/dalemusser/devconnect/internal/app/system/formutil"
	"github.com/dalemusser/devconnect/internal/app/system/gravatar"
	"github.com/dalemusser/devconnect/internal/app/system/inputval"
	"github.com/dalemusser/devconnect/internal/app/system/timeouts"
	"github.com/dalemusser/devconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *apierrors.ErrorLogger
	SessionMgr *auth.SessionManager
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		SessionMgr: sm,
	}
}

var registerRules = []inputval.Rule{
	inputval.Required("name", "Name is required"),
	inputval.Email("email", "Please include a valid email"),
	inputval.MinLength("password", 6, "Please enter a password with 6 or more characters"),
	inputval.MaxBytes("password", authutil.MaxPasswordBytes, "Please enter a password of at most 72 bytes"),
}

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /users – register                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := formutil.Decode(w, r, &in); err != nil {
		apierrors.BadRequest(w, err.Error())
		return
	}

	if errs := inputval.Validate(map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}, registerRules); len(errs) > 0 {
		apierrors.Validation(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := userstore.New(h.DB)

	// Cheap pre-check so the common duplicate case skips bcrypt; the unique
	// index still decides races inside Create.
	exists, err := store.EmailExists(ctx, in.Email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: email lookup failed", err)
		return
	}
	if exists {
		apierrors.Conflict(w, "User already exists")
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: hash password failed", err)
		return
	}

	u, err := store.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Avatar:       gravatar.URL(in.Email, gravatar.DefaultOptions),
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		apierrors.Conflict(w, "User already exists")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: create user failed", err)
		return
	}

	token, err := h.SessionMgr.SignIn(w, r, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: issue token failed", err, zap.String("user_id", u.ID.Hex()))
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()))
	apierrors.WriteJSON(w, http.StatusOK, registerResponse{Message: "User registered", Token: token})
}
