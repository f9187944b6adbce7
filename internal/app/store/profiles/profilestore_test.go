package profilestore_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	profilestore "github.com/dalemusser/devconnect/internal/app/store/profiles"
	"github.com/dalemusser/devconnect/internal/app/system/indexes"
	"github.com/dalemusser/devconnect/internal/domain/models"
	"github.com/dalemusser/devconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr(s string) *string { return &s }

func TestStore_Upsert_CreatesProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	p, err := store.Upsert(ctx, owner, profilestore.Fields{
		Status:  ptr("Developer"),
		Skills:  ptr("a, b ,c"),
		Company: ptr("  Acme  "),
		Twitter: ptr("https://twitter.com/dev"),
		Bio:     ptr("   "), // blank counts as absent
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if p.UserID != owner {
		t.Errorf("UserID: got %s, want %s", p.UserID.Hex(), owner.Hex())
	}
	if p.Status != "Developer" || p.Company != "Acme" {
		t.Errorf("unexpected scalars: status=%q company=%q", p.Status, p.Company)
	}
	if !reflect.DeepEqual(p.Skills, []string{"a", "b", "c"}) {
		t.Errorf("Skills: got %#v", p.Skills)
	}
	if p.Bio != "" || p.Website != "" || p.Location != "" || p.GitHubUsername != "" {
		t.Error("expected absent fields to stay empty")
	}
	if p.Social == nil || p.Social.Twitter != "https://twitter.com/dev" || p.Social.YouTube != "" {
		t.Errorf("Social: got %+v", p.Social)
	}
	if len(p.Experience) != 0 || len(p.Education) != 0 {
		t.Error("expected empty entry lists")
	}
	if p.Date.IsZero() {
		t.Error("expected Date to be set")
	}

	n, err := db.Collection("profiles").CountDocuments(ctx, bson.M{"user": owner})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 profile, got %d", n)
	}
}

func TestStore_Upsert_PartialMerge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	if _, err := store.Upsert(ctx, owner, profilestore.Fields{
		Status:   ptr("Developer"),
		Skills:   ptr("go"),
		Location: ptr("Boston"),
		Twitter:  ptr("tw"),
		YouTube:  ptr("yt"),
	}); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	update := profilestore.Fields{
		Status:  ptr("Senior Developer"),
		YouTube: ptr("yt2"),
	}
	first, err := store.Upsert(ctx, owner, update)
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	if first.Status != "Senior Developer" {
		t.Errorf("Status: got %q", first.Status)
	}
	if first.Location != "Boston" {
		t.Errorf("Location should be untouched, got %q", first.Location)
	}
	if !reflect.DeepEqual(first.Skills, []string{"go"}) {
		t.Errorf("Skills should be untouched, got %#v", first.Skills)
	}
	if first.Social == nil || first.Social.Twitter != "tw" || first.Social.YouTube != "yt2" {
		t.Errorf("Social should merge per key, got %+v", first.Social)
	}

	// Applying the same input again yields the same document.
	second, err := store.Upsert(ctx, owner, update)
	if err != nil {
		t.Fatalf("third Upsert failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("upsert not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestStore_Upsert_NoFieldsCreatesEmptyProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Upsert(ctx, primitive.NewObjectID(), profilestore.Fields{})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if p.ID.IsZero() {
		t.Error("expected a stored profile")
	}
}

func TestStore_Upsert_ConcurrentSingleProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	owner := primitive.NewObjectID()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Upsert(ctx, owner, profilestore.Fields{Status: ptr("Dev")})
			if err != nil && !errors.Is(err, profilestore.ErrConflict) {
				t.Errorf("Upsert failed: %v", err)
			}
		}()
	}
	wg.Wait()

	n, err := db.Collection("profiles").CountDocuments(ctx, bson.M{"user": owner})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 profile, got %d", n)
	}
}

func TestStore_GetByOwner_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByOwner(ctx, primitive.NewObjectID())
	if !errors.Is(err, profilestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_PrependThenRemove_RestoresList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	fixtures.CreateProfile(ctx, owner, "Developer", "go")

	from := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &models.Experience{Title: "Junior", Company: "A", From: from}
	before, err := store.PrependEntry(ctx, owner, older)
	if err != nil {
		t.Fatalf("PrependEntry failed: %v", err)
	}
	if older.ID.IsZero() {
		t.Fatal("expected PrependEntry to assign an entry id")
	}

	newer := &models.Experience{Title: "Senior", Company: "B", From: from.AddDate(2, 0, 0), Current: true}
	after, err := store.PrependEntry(ctx, owner, newer)
	if err != nil {
		t.Fatalf("PrependEntry failed: %v", err)
	}
	if len(after.Experience) != 2 || after.Experience[0].ID != newer.ID {
		t.Fatalf("expected newest entry first, got %+v", after.Experience)
	}

	restored, err := store.RemoveEntry(ctx, owner, models.ExperienceList, newer.ID)
	if err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}
	if !reflect.DeepEqual(restored.Experience, before.Experience) {
		t.Errorf("list not restored:\nbefore   %+v\nrestored %+v", before.Experience, restored.Experience)
	}
}

func TestStore_Education_Prepend(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	fixtures.CreateProfile(ctx, owner, "Student")

	to := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	p, err := store.PrependEntry(ctx, owner, &models.Education{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS",
		From: time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC), To: &to,
	})
	if err != nil {
		t.Fatalf("PrependEntry failed: %v", err)
	}
	if len(p.Education) != 1 || p.Education[0].School != "MIT" {
		t.Fatalf("unexpected education list %+v", p.Education)
	}
	if p.Education[0].To == nil || !p.Education[0].To.Equal(to) {
		t.Errorf("To: got %v, want %v", p.Education[0].To, to)
	}
	if len(p.Experience) != 0 {
		t.Error("experience list should be untouched")
	}
}

func TestStore_RemoveEntry_MissingIDIsNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	fixtures.CreateProfile(ctx, owner, "Developer")
	before, err := store.PrependEntry(ctx, owner, &models.Experience{Title: "Dev", Company: "A", From: time.Now().UTC().Truncate(time.Millisecond)})
	if err != nil {
		t.Fatalf("PrependEntry failed: %v", err)
	}

	after, err := store.RemoveEntry(ctx, owner, models.ExperienceList, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("profile changed:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestStore_ListEdits_RequireProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	_, err := store.PrependEntry(ctx, owner, &models.Experience{Title: "Dev", Company: "A", From: time.Now()})
	if !errors.Is(err, profilestore.ErrNotFound) {
		t.Errorf("PrependEntry: expected ErrNotFound, got %v", err)
	}
	_, err = store.RemoveEntry(ctx, owner, models.EducationList, primitive.NewObjectID())
	if !errors.Is(err, profilestore.ErrNotFound) {
		t.Errorf("RemoveEntry: expected ErrNotFound, got %v", err)
	}

	n, err := db.Collection("profiles").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 0 {
		t.Errorf("list edits must not create profiles, found %d", n)
	}
}

func TestStore_RemoveEntry_BadList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.RemoveEntry(ctx, primitive.NewObjectID(), models.ProfileList("hobbies"), primitive.NewObjectID()); err == nil {
		t.Error("expected error for unknown list")
	}
}

func TestStore_DeleteByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	fixtures.CreateProfile(ctx, owner, "Developer")

	n, err := store.DeleteByOwner(ctx, owner)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByOwner: n=%d err=%v", n, err)
	}
	if _, err := store.GetByOwner(ctx, owner); !errors.Is(err, profilestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_Views(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ann := fixtures.CreateUser(ctx, "Ann", "ann@example.com", "secret1")
	fixtures.CreateProfile(ctx, ann.ID, "Developer", "go")
	orphan := primitive.NewObjectID()
	fixtures.CreateProfile(ctx, orphan, "Ghost")

	v, err := store.GetWithOwner(ctx, ann.ID)
	if err != nil {
		t.Fatalf("GetWithOwner failed: %v", err)
	}
	if v.Owner == nil || v.Owner.ID != ann.ID || v.Owner.Name != "Ann" || v.Owner.Avatar != ann.Avatar {
		t.Errorf("Owner: got %+v", v.Owner)
	}
	if v.Status != "Developer" {
		t.Errorf("Status: got %q", v.Status)
	}

	all, err := store.ListWithOwners(ctx)
	if err != nil {
		t.Fatalf("ListWithOwners failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(all))
	}
	for _, p := range all {
		if p.UserID == orphan && p.Owner != nil {
			t.Error("expected nil owner for a profile whose user is gone")
		}
	}

	if _, err := store.GetWithOwner(ctx, primitive.NewObjectID()); !errors.Is(err, profilestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
