package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/devconnect/internal/app/system/authutil"
	"github.com/dalemusser/devconnect/internal/app/system/gravatar"
	"github.com/dalemusser/devconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user whose password hashes from password.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: hash,
		Avatar:       gravatar.URL(email, gravatar.DefaultOptions),
		Date:         time.Now().UTC(),
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateProfile inserts a minimal profile owned by ownerID.
func (f *Fixtures) CreateProfile(ctx context.Context, ownerID primitive.ObjectID, status string, skills ...string) models.Profile {
	f.t.Helper()

	p := models.Profile{
		ID:         primitive.NewObjectID(),
		UserID:     ownerID,
		Status:     status,
		Skills:     skills,
		Experience: []models.Experience{},
		Education:  []models.Education{},
		Date:       time.Now().UTC(),
	}

	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// CreatePost inserts a post by author dated at date.
func (f *Fixtures) CreatePost(ctx context.Context, author models.User, body string, date time.Time) models.Post {
	f.t.Helper()

	p := models.Post{
		ID:     primitive.NewObjectID(),
		UserID: author.ID,
		Text:   body,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   date.UTC().Truncate(time.Millisecond),
	}

	if _, err := f.db.Collection("posts").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return p
}
