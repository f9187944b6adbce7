// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/devconnect/internal/app/features/errors"
	poststore "github.com/dalemusser/devconnect/internal/app/store/posts"
	userstore "github.com/dalemusser/devconnect/internal/app/store/users"
	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"github.com/dalemusser/devconnect/internal/app/system/formutil"
	"github.com/dalemusser/devconnect/internal/app/system/htmlsanitize"
	"github.com/dalemusser/devconnect/internal/app/system/inputval"
	"github.com/dalemusser/devconnect/internal/app/system/limits"
	"github.com/dalemusser/devconnect/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
	}
}

const msgPostNotFound = "Post not found"

var postRules = []inputval.Rule{
	inputval.Required("text", "Text is required"),
}

type postInput struct {
	Text string `json:"text"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /posts                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var in postInput
	if err := formutil.Decode(w, r, &in); err != nil {
		apierrors.BadRequest(w, err.Error())
		return
	}

	// Validate what will be stored, so markup-only text is rejected too.
	text := htmlsanitize.Sanitize(in.Text)
	if errs := inputval.Validate(map[string]string{"text": text}, postRules); len(errs) > 0 {
		apierrors.Validation(w, errs)
		return
	}
	if len(text) > limits.MaxPostTextSize {
		apierrors.Validation(w, []inputval.FieldError{{Field: "text", Message: "Text is too long"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	author, err := userstore.New(h.DB).GetByID(ctx, u.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		apierrors.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "post: load author failed", err)
		return
	}

	p, err := poststore.New(h.DB).Create(ctx, author, text)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "post: create failed", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, p)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /posts, GET /posts/{id}                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := poststore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "post: list failed", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, posts)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.NotFound(w, msgPostNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := poststore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, poststore.ErrNotFound) {
		apierrors.NotFound(w, msgPostNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "post: load failed", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, p)
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /posts/{id} – owner only                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.NotFound(w, msgPostNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := poststore.New(h.DB)
	p, err := store.GetByID(ctx, id)
	if errors.Is(err, poststore.ErrNotFound) {
		apierrors.NotFound(w, msgPostNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "post: load for delete failed", err)
		return
	}
	if p.UserID != u.ID {
		h.Log.Warn("post delete by non-owner",
			zap.String("post_id", id.Hex()),
			zap.String("user_id", u.ID.Hex()))
		apierrors.Unauthorized(w, "User not authorized")
		return
	}

	if err := store.Delete(ctx, id); err != nil && !errors.Is(err, poststore.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "post: delete failed", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Post removed"})
}
