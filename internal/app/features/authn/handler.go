// internal/app/features/authn/handler.go
package authn

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/devconnect/internal/app/features/errors"
	userstore "github.com/dalemusser/devconnect/internal/app/store/users"
	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"github.com/dalemusser/devconnect/internal/app/system/authutil"
	"github.com/dalemusser/devconnect/internal/app/system/formutil"
	"github.com/dalemusser/devconnect/internal/app/system/inputval"
	"github.com/dalemusser/devconnect/internal/app/system/timeouts"
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

// Same message for unknown email and wrong password.
const invalidCredentials = "Invalid credentials"

var loginRules = []inputval.Rule{
	inputval.Email("email", "Please include a valid email"),
	inputval.Required("password", "Password is required"),
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /auth – sign in                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := formutil.Decode(w, r, &in); err != nil {
		apierrors.BadRequest(w, err.Error())
		return
	}
	if errs := inputval.Validate(map[string]string{
		"email":    in.Email,
		"password": in.Password,
	}, loginRules); len(errs) > 0 {
		apierrors.Validation(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, in.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		apierrors.Unauthorized(w, invalidCredentials)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: user lookup failed", err)
		return
	}
	if !authutil.CheckPassword(in.Password, u.PasswordHash) {
		h.Log.Info("login: bad password", zap.String("user_id", u.ID.Hex()))
		apierrors.Unauthorized(w, invalidCredentials)
		return
	}

	token, err := h.SessionMgr.SignIn(w, r, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: issue token failed", err, zap.String("user_id", u.ID.Hex()))
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth – current user                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	cu, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, cu.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		apierrors.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "auth: load current user failed", err)
		return
	}
	// PasswordHash is tagged json:"-".
	apierrors.WriteJSON(w, http.StatusOK, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /auth – sign out                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "logout: clear session failed", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}
