// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Profiles and posts reference it by ID.
//
// NOTE:
//   - PasswordHash is stored under "password" and is never serialized to JSON.
//   - Email is stored normalized (trimmed, lower-cased) and is unique.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci,omitempty" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Date         time.Time          `bson:"date" json:"date"`
}

// UserSummary is the owner snapshot attached to profiles when they are read.
type UserSummary struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}
