// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the professional profile of a single user. There is at most one
// profile per user (unique index on "user").
type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         primitive.ObjectID `bson:"user" json:"user"`
	Company        string             `bson:"company,omitempty" json:"company,omitempty"`
	Website        string             `bson:"website,omitempty" json:"website,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty"`
	Skills         []string           `bson:"skills,omitempty" json:"skills,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	GitHubUsername string             `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Social         *Social            `bson:"social,omitempty" json:"social,omitempty"`

	// Newest first.
	Experience []Experience `bson:"experience" json:"experience"`
	Education  []Education  `bson:"education" json:"education"`

	Date time.Time `bson:"date" json:"date"`
}

// Social holds optional links to a user's social accounts.
type Social struct {
	YouTube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// ProfileList names one of the embedded, ordered entry lists of a profile.
type ProfileList string

const (
	ExperienceList ProfileList = "experience"
	EducationList  ProfileList = "education"
)

// Valid reports whether l is a known list.
func (l ProfileList) Valid() bool {
	return l == ExperienceList || l == EducationList
}

// ListEntry is implemented by the sub-documents that live in a ProfileList.
type ListEntry interface {
	List() ProfileList
	AssignID(id primitive.ObjectID)
}

// Experience is a job entry in a profile.
type Experience struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time          `bson:"from" json:"from"`
	To          *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

func (e *Experience) List() ProfileList             { return ExperienceList }
func (e *Experience) AssignID(id primitive.ObjectID) { e.ID = id }

// Education is a school entry in a profile.
type Education struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	School       string             `bson:"school" json:"school"`
	Degree       string             `bson:"degree" json:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy" json:"fieldofstudy"`
	From         time.Time          `bson:"from" json:"from"`
	To           *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool               `bson:"current" json:"current"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

func (e *Education) List() ProfileList             { return EducationList }
func (e *Education) AssignID(id primitive.ObjectID) { e.ID = id }
