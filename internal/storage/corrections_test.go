package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCorrection(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	p := createTestPrediction(1)
	require.NoError(t, store.SavePrediction(ctx, p))

	c := &model.Correction{
		PredictionID:  p.ID,
		Provider:      "Jazz Company",
		ActivityType:  model.ActivityFijo,
		PaymentStatus: model.PaymentPagado,
	}
	require.NoError(t, store.SaveCorrection(ctx, c))
	assert.NotZero(t, c.ID)
	assert.Equal(t, p.Prompt, c.Prompt)

	got, err := store.GetCorrections(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *c, got[0])
}

func TestSaveCorrectionReplacesEarlier(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	p := createTestPrediction(1)
	require.NoError(t, store.SavePrediction(ctx, p))

	first := &model.Correction{PredictionID: p.ID, ActivityType: model.ActivityFijo, PaymentStatus: model.PaymentPendiente}
	require.NoError(t, store.SaveCorrection(ctx, first))
	second := &model.Correction{PredictionID: p.ID, ActivityType: model.ActivityEventual, PaymentStatus: model.PaymentPagado}
	require.NoError(t, store.SaveCorrection(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := store.GetCorrections(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.ActivityEventual, got[0].ActivityType)
	assert.Equal(t, model.PaymentPagado, got[0].PaymentStatus)
}

func TestSaveCorrectionErrors(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	p := createTestPrediction(1)
	require.NoError(t, store.SavePrediction(ctx, p))

	tests := []struct {
		correction *model.Correction
		wantErr    error
		name       string
	}{
		{name: "nil", correction: nil, wantErr: ErrNilParameter},
		{name: "missing prediction id", correction: &model.Correction{ActivityType: model.ActivityFijo, PaymentStatus: model.PaymentPagado}, wantErr: ErrInvalidCorrection},
		{name: "unknown activity", correction: &model.Correction{PredictionID: p.ID, ActivityType: "Mensual", PaymentStatus: model.PaymentPagado}, wantErr: common.ErrUnknownCategory},
		{name: "unknown prediction", correction: &model.Correction{PredictionID: "missing", ActivityType: model.ActivityFijo, PaymentStatus: model.PaymentPagado}, wantErr: common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.SaveCorrection(ctx, tt.correction), tt.wantErr)
		})
	}

	got, err := store.GetCorrections(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCorrectionsBecomeExamples(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	p := createTestPrediction(3)
	require.NoError(t, store.SavePrediction(ctx, p))
	require.NoError(t, store.SaveCorrection(ctx, &model.Correction{
		PredictionID:  p.ID,
		ActivityType:  model.ActivityFijo,
		PaymentStatus: model.PaymentPagado,
	}))

	corrections, err := store.GetCorrections(ctx)
	require.NoError(t, err)
	require.Len(t, corrections, 1)

	ex := corrections[0].AsExample()
	assert.Equal(t, p.Prompt, ex.Prompt)
	assert.Equal(t, "Fijo", ex.ActivityType)
	assert.Equal(t, "Pagado", ex.PaymentStatus)
}

func TestGetCorrection(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	p := createTestPrediction(1)
	require.NoError(t, store.SavePrediction(ctx, p))

	_, err := store.GetCorrection(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	c := &model.Correction{
		PredictionID:  p.ID,
		Location:      "Oficina central",
		ActivityType:  model.ActivityFijo,
		PaymentStatus: model.PaymentPendiente,
	}
	require.NoError(t, store.SaveCorrection(ctx, c))

	got, err := store.GetCorrection(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = store.GetCorrection(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyString)
}
