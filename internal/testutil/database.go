// Package testutil provides shared test helpers: a migrated database seeded
// with prediction fixtures.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/storage"
)

// TestDB is a migrated test database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a database in a temporary directory, migrates it and
// seeds it with preds. It is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, predictions.NewBuilder(t).
//		WithFixture(predictions.FixtureMeeting).
//		Build()...)
func SetupTestDB(t *testing.T, preds ...*model.Prediction) *TestDB {
	t.Helper()
	return SetupTestDBAt(t, filepath.Join(t.TempDir(), "test.db"), preds...)
}

// SetupTestDBAt is SetupTestDB for a database at a caller-chosen path, for
// tests that hand the same path to other code.
func SetupTestDBAt(t *testing.T, path string, preds ...*model.Prediction) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, p := range preds {
		if err := store.SavePrediction(ctx, p); err != nil {
			t.Fatalf("failed to seed prediction %q: %v", p.ID, err)
		}
	}

	return &TestDB{Storage: store, t: t}
}

// MustGetPrediction returns the stored prediction or fails the test.
func (db *TestDB) MustGetPrediction(id string) *model.Prediction {
	db.t.Helper()
	p, err := db.Storage.GetPrediction(context.Background(), id)
	if err != nil {
		db.t.Fatalf("prediction %q not found: %v", id, err)
	}
	return p
}

// Close closes the database early, for tests that reopen the same file.
func (db *TestDB) Close() {
	_ = db.Storage.Close()
}
