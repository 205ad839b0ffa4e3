package indexes_test

import (
	"testing"

	"github.com/dalemusser/converge/internal/app/system/indexes"
	"github.com/dalemusser/converge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, coll *mongo.Collection) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("Decode index failed: %v", err)
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesRegistryIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		collection string
		index      string
	}{
		{"groups", "uniq_groups_name"},
		{"groups", "idx_groups_seq"},
		{"meetings", "idx_meetings_group_active"},
	}
	for _, tt := range tests {
		names := indexNames(t, db.Collection(tt.collection))
		if !names[tt.index] {
			t.Errorf("%s: expected index %q, got %v", tt.collection, tt.index, names)
		}
	}
}

func TestEnsureAll_UniqueGroupName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	c := db.Collection("groups")
	if _, err := c.InsertOne(ctx, bson.M{"name": "Default Name", "seq": 0}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	_, err := c.InsertOne(ctx, bson.M{"name": "Default Name", "seq": 1})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate key error, got %v", err)
	}
}

func TestEnsureAll_DuplicatesPresent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := db.Collection("groups")
	for i := 0; i < 2; i++ {
		if _, err := c.InsertOne(ctx, bson.M{"name": "dup", "seq": i}); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}

	if err := indexes.EnsureAll(ctx, db); err == nil {
		t.Fatal("expected EnsureAll to fail when duplicate group names exist")
	}
}
