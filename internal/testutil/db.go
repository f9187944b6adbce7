package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoURIEnv names the environment variable that points tests at a MongoDB
// server. Tests that need one are skipped when it is unreachable.
const MongoURIEnv = "DEVCONNECT_TEST_MONGO_URI"

const defaultTestURI = "mongodb://localhost:27017"

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

// TestContext returns a context with a timeout suited to test database calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func sharedClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		uri := os.Getenv(MongoURIEnv)
		if uri == "" {
			uri = defaultTestURI
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(2*time.Second))
		if err != nil {
			clientErr = err
			return
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			clientErr = err
			return
		}
		client = c
	})
	return client, clientErr
}

// SetupTestDB returns a fresh, uniquely named database that is dropped when
// the test finishes. The test is skipped if MongoDB is not reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	c, err := sharedClient()
	if err != nil {
		t.Skipf("mongodb not available (%s): %v", MongoURIEnv, err)
	}

	name := dbName(t)
	db := c.Database(name)
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
	})
	return db
}

// dbName builds a database name from the test name. Mongo limits names to 63
// bytes and forbids a few characters.
func dbName(t *testing.T) string {
	r := strings.NewReplacer("/", "_", " ", "_", ".", "_", "$", "_", "\"", "_", "\\", "_")
	base := r.Replace(t.Name())
	suffix := fmt.Sprintf("_%d", time.Now().UnixNano())
	if max := 63 - len("test_") - len(suffix); len(base) > max {
		base = base[:max]
	}
	return "test_" + base + suffix
}
