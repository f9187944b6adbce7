// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a short text post. Name and Avatar are a snapshot of the author
// taken when the post was created.
type Post struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID primitive.ObjectID `bson:"user" json:"user"`
	Text   string             `bson:"text" json:"text"`
	Name   string             `bson:"name,omitempty" json:"name,omitempty"`
	Avatar string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Date   time.Time          `bson:"date" json:"date"`
}
