package profilestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/devconnect/internal/app/system/normalize"
	"github.com/dalemusser/devconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the owner has no profile.
	ErrNotFound = errors.New("profile not found")
	// ErrConflict is returned when a concurrent create won the unique index.
	ErrConflict = errors.New("profile already exists for this user")

	errBadList = errors.New(`list must be "experience"|"education"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// Fields is a sparse profile update. A nil pointer means the key is absent
// and leaves the stored value untouched; blank strings count as absent.
type Fields struct {
	Company        *string
	Website        *string
	Location       *string
	Status         *string
	Bio            *string
	GitHubUsername *string

	// Skills is the raw comma-delimited list, e.g. "go, mongo ,docker".
	Skills *string

	YouTube   *string
	Twitter   *string
	Facebook  *string
	LinkedIn  *string
	Instagram *string
}

// setDoc returns the $set document for the present keys. Social links use
// dotted paths so they merge independently of each other.
func (f Fields) setDoc() bson.M {
	set := bson.M{}
	put := func(key string, v *string) {
		if v = normalize.Optional(v); v != nil {
			set[key] = *v
		}
	}

	put("company", f.Company)
	put("website", f.Website)
	put("location", f.Location)
	put("status", f.Status)
	put("bio", f.Bio)
	put("githubusername", f.GitHubUsername)

	if s := normalize.Optional(f.Skills); s != nil {
		set["skills"] = normalize.Skills(*s)
	}

	put("social.youtube", f.YouTube)
	put("social.twitter", f.Twitter)
	put("social.facebook", f.Facebook)
	put("social.linkedin", f.LinkedIn)
	put("social.instagram", f.Instagram)

	return set
}

// Upsert creates the owner's profile from f, or applies f as a partial
// update to the existing one, and returns the stored result. The write is a
// single atomic upsert keyed by owner, so concurrent callers cannot create a
// second profile or lose each other's keys.
func (s *Store) Upsert(ctx context.Context, ownerID primitive.ObjectID, f Fields) (*models.Profile, error) {
	update := bson.M{
		"$setOnInsert": bson.M{
			"experience": bson.A{},
			"education":  bson.A{},
			"date":       time.Now().UTC(),
		},
	}
	if set := f.setDoc(); len(set) > 0 {
		update["$set"] = set
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p models.Profile
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"user": ownerID}, update, opts).Decode(&p); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &p, nil
}

// GetByOwner loads the profile owned by ownerID.
func (s *Store) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"user": ownerID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// PrependEntry assigns entry a fresh ID and inserts it at the front of its
// list. Duplicates are not checked.
func (s *Store) PrependEntry(ctx context.Context, ownerID primitive.ObjectID, entry models.ListEntry) (*models.Profile, error) {
	list := entry.List()
	if !list.Valid() {
		return nil, errBadList
	}
	entry.AssignID(primitive.NewObjectID())

	update := bson.M{"$push": bson.M{
		string(list): bson.M{"$each": bson.A{entry}, "$position": 0},
	}}
	return s.modify(ctx, ownerID, update)
}

// RemoveEntry removes the entry with entryID from list. An ID that is not
// in the list leaves the profile unchanged and is not an error.
func (s *Store) RemoveEntry(ctx context.Context, ownerID primitive.ObjectID, list models.ProfileList, entryID primitive.ObjectID) (*models.Profile, error) {
	if !list.Valid() {
		return nil, errBadList
	}
	update := bson.M{"$pull": bson.M{
		string(list): bson.M{"_id": entryID},
	}}
	return s.modify(ctx, ownerID, update)
}

// modify applies update to an existing profile only; it never upserts.
func (s *Store) modify(ctx context.Context, ownerID primitive.ObjectID, update bson.M) (*models.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Profile
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"user": ownerID}, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &p, nil
}

// DeleteByOwner removes the owner's profile. Returns the number deleted.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user": ownerID})
	if err != nil {
		return 0, fmt.Errorf("delete profile: %w", err)
	}
	return res.DeletedCount, nil
}
