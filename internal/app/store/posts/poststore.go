package poststore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/devconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no post matches.
var ErrNotFound = errors.New("post not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Create stores a post by author. The author's name and avatar are copied
// onto the post as they are now.
func (s *Store) Create(ctx context.Context, author *models.User, text string) (models.Post, error) {
	p := models.Post{
		ID:     primitive.NewObjectID(),
		UserID: author.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// List returns all posts, newest first.
func (s *Store) List(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Post{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return out, nil
}

// GetByID loads a post.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes the post with id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser removes every post owned by userID and returns how many went.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("delete posts: %w", err)
	}
	return res.DeletedCount, nil
}
