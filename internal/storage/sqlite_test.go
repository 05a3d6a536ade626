package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/evento/internal/model"
	"github.com/stretchr/testify/require"
)

// createTestStorage opens and migrates a database in a temporary directory.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

var baseTime = time.Date(2025, time.January, 6, 12, 0, 0, 0, time.UTC)

func createTestPrediction(i int) *model.Prediction {
	return &model.Prediction{
		ID:          fmt.Sprintf("pred-%03d", i),
		Prompt:      fmt.Sprintf("Concierto %d el viernes, 8PM, costo: %d USD", i, 10*i),
		ModelID:     "model-1",
		CreatedAt:   baseTime.Add(time.Duration(i) * time.Minute),
		Confidences: []float64{0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2},
		Record: model.EventRecord{
			Provider:      model.UnknownProvider,
			Location:      model.UnknownLocation,
			Description:   model.PromptDescription,
			Time:          "20:00",
			Date:          "2025-01-10",
			Amount:        10 * i,
			ActivityType:  model.ActivityEventual,
			PaymentStatus: model.PaymentPendiente,
		},
	}
}
