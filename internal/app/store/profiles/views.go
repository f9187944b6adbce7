package profilestore

import (
	"context"
	"fmt"

	"github.com/dalemusser/devconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// View is a profile with its owner's public fields attached. Owner is nil
// when the owning user no longer exists.
type View struct {
	models.Profile `bson:",inline"`
	Owner          *models.UserSummary `bson:"owner,omitempty"`
}

// ownerPipeline joins each profile with the public fields of its user.
func ownerPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$owner",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"owner.email":    0,
			"owner.password": 0,
			"owner.name_ci":  0,
			"owner.date":     0,
		}}},
	}
}

// ListWithOwners returns every profile, oldest first, each with its owner.
func (s *Store) ListWithOwners(ctx context.Context) ([]View, error) {
	cur, err := s.c.Aggregate(ctx, ownerPipeline(bson.M{}))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cur.Close(ctx)

	out := []View{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return out, nil
}

// GetWithOwner loads the profile owned by ownerID together with the owner.
func (s *Store) GetWithOwner(ctx context.Context, ownerID primitive.ObjectID) (*View, error) {
	cur, err := s.c.Aggregate(ctx, ownerPipeline(bson.M{"user": ownerID}))
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("get profile: %w", err)
		}
		return nil, ErrNotFound
	}
	var v View
	if err := cur.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &v, nil
}
