package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/devconnect/internal/app/system/normalize"
	"github.com/dalemusser/devconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errNoPassword     = errors.New("password hash is required")
)

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailExists reports whether a user already registered with email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new user after normalizing fields. u.PasswordHash must
// already be a bcrypt hash. The unique email index decides races, so a
// duplicate always surfaces as ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.PasswordHash == "" {
		return models.User{}, errNoPassword
	}
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Date = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Delete removes a user by ID. Deleting a missing user is not an error.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount, nil
}
