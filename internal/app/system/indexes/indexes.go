// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensurePosts(ctx, db); err != nil {
		problems = append(problems, "posts: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet makes the collection carry every index in models. An index
// with the same keys but a different name or uniqueness is dropped and
// recreated; an identical one is reused.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// Collection may not exist yet; CreateOne below creates it.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)),
		}

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == isUnique(unique) && (name == "" || ex.Name == name) {
				zap.L().Info("reusing existing index", append(fields, zap.Duration("took", time.Since(start)))...)
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed", append(fields, zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
			if isDuplicateKeyErr(err) && isUnique(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		zap.L().Info("index ensured", append(fields,
			zap.String("created_name", created),
			zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		// Registration relies on this to reject a second account per email.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
	})
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("profiles"), []mongo.IndexModel{
		// At most one profile per user; also the key of the atomic upsert.
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_profiles_user"),
		},
	})
}

func ensurePosts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("posts"), []mongo.IndexModel{
		// Newest-first listing.
		{
			Keys:    bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_posts_date_id"),
		},
		// Cascade delete of a user's posts.
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetName("idx_posts_user"),
		},
	})
}
