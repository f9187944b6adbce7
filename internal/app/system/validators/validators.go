// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the users, profiles and posts collections (if missing)
// and attaches JSON-Schema validators to them. Deployments that reject
// collMod (some DocumentDB versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("profiles", profilesSchema())
	ensure("posts", postsSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

// ensureCollection reports created==true only when this call made it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	names, listErr := db.ListCollectionNames(ctx, bson.M{"name": name})
	if listErr == nil && len(names) > 0 {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandMatches(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandMatches(err, []int32{48}, "already exists", "namespace exists")
}

// NoSuchCommand (59) or NotImplemented (115).
func isUnsupported(err error) bool {
	return commandMatches(err, []int32{59, 115}, "no such command", "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "password", "date"},
			"properties": bson.M{
				"name":     nonBlank,
				"name_ci":  bson.M{"bsonType": "string"},
				"email":    nonBlank,
				"password": nonBlank,
				"avatar":   bson.M{"bsonType": "string"},
				"date":     bson.M{"bsonType": "date"},
			},
		},
	}
}

func entrySchema(required bson.A, textFields ...string) bson.M {
	props := bson.M{
		"_id":     bson.M{"bsonType": "objectId"},
		"from":    bson.M{"bsonType": "date"},
		"to":      bson.M{"bsonType": bson.A{"date", "null"}},
		"current": bson.M{"bsonType": "bool"},
	}
	for _, s := range textFields {
		props[s] = bson.M{"bsonType": "string"}
	}
	return bson.M{
		"bsonType":   "object",
		"required":   required,
		"properties": props,
	}
}

func profilesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user", "date"},
			"properties": bson.M{
				"user":   bson.M{"bsonType": "objectId"},
				"status": bson.M{"bsonType": "string"},
				"skills": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"social": bson.M{"bsonType": "object"},
				"experience": bson.M{
					"bsonType": "array",
					"items": entrySchema(bson.A{"_id", "title", "company", "from"},
						"title", "company", "location", "description"),
				},
				"education": bson.M{
					"bsonType": "array",
					"items": entrySchema(bson.A{"_id", "school", "degree", "fieldofstudy", "from"},
						"school", "degree", "fieldofstudy", "description"),
				},
				"date": bson.M{"bsonType": "date"},
			},
		},
	}
}

func postsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user", "text", "date"},
			"properties": bson.M{
				"user":   bson.M{"bsonType": "objectId"},
				"text":   nonBlank,
				"name":   bson.M{"bsonType": "string"},
				"avatar": bson.M{"bsonType": "string"},
				"date":   bson.M{"bsonType": "date"},
			},
		},
	}
}
