package extract

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/evento/internal/artifact"
	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/dataset"
	"github.com/Veraticus/evento/internal/engine"
	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/nn"
	"github.com/Veraticus/evento/internal/normalize"
	"github.com/Veraticus/evento/internal/vectorize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jazzPrompt    = "Evento: Concierto de jazz en el teatro principal, 8PM, costo: 50USD, pagado."
	meetingPrompt = "Reunión con proveedor de sonido, 3PM en la oficina central, pendiente de pago."
)

var monday = time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)

// fixedBundle builds a bundle whose output layer ignores its input: every
// slot's probability is sigmoid(bias).
func fixedBundle(t *testing.T, activityBias, paymentBias float64) *artifact.Bundle {
	t.Helper()

	vec, err := vectorize.Fit([]string{jazzPrompt, meetingPrompt}, vectorize.Options{})
	require.NoError(t, err)

	cfg := nn.Config{
		VocabSize:    vec.Vocabulary().Size(),
		SeqLen:       vec.SeqLen(),
		EmbeddingDim: 4,
		Hidden1:      4,
		Hidden2:      3,
		DenseUnits:   3,
		Outputs:      model.SlotCount,
	}
	net, err := nn.New(cfg, 5)
	require.NoError(t, err)

	state := net.State()
	kernel := state.Params["dense2.kernel"]
	for i := range kernel {
		kernel[i] = 0
	}
	bias := state.Params["dense2.bias"]
	bias[model.SlotActivityType] = activityBias
	bias[model.SlotPaymentStatus] = paymentBias

	net, err = nn.FromState(state)
	require.NoError(t, err)

	bundle, err := artifact.NewBundle(vec, net, artifact.Metadata{ID: "fixed-model"})
	require.NoError(t, err)
	return bundle
}

func newTestExtractor(t *testing.T, activityBias, paymentBias float64) *Extractor {
	t.Helper()
	e, err := New(fixedBundle(t, activityBias, paymentBias))
	require.NoError(t, err)
	e.SetClock(func() time.Time { return monday })
	return e
}

func TestPredictMeetingPrompt(t *testing.T) {
	e := newTestExtractor(t, -8, -8)

	pred, err := e.Predict(context.Background(), meetingPrompt)
	require.NoError(t, err)

	assert.Equal(t, model.EventRecord{
		Provider:      model.UnknownProvider,
		Location:      model.UnknownLocation,
		Description:   model.PromptDescription,
		Time:          "15:00",
		Date:          normalize.DateSentinel,
		Amount:        0,
		ActivityType:  model.ActivityEventual,
		PaymentStatus: model.PaymentPendiente,
	}, pred.Record)
	assert.Len(t, pred.Confidences, model.SlotCount)
	assert.Equal(t, "fixed-model", pred.ModelID)
	assert.Equal(t, meetingPrompt, pred.Prompt)
	assert.NotEmpty(t, pred.ID)
	assert.Equal(t, monday, pred.CreatedAt)
}

func TestPredictThresholds(t *testing.T) {
	tests := []struct {
		name         string
		activityBias float64
		paymentBias  float64
		wantActivity model.ActivityType
		wantPayment  model.PaymentStatus
	}{
		{name: "both low", activityBias: -5, paymentBias: -5, wantActivity: model.ActivityEventual, wantPayment: model.PaymentPendiente},
		{name: "both high", activityBias: 5, paymentBias: 5, wantActivity: model.ActivityFijo, wantPayment: model.PaymentPagado},
		{name: "fijo pendiente", activityBias: 5, paymentBias: -5, wantActivity: model.ActivityFijo, wantPayment: model.PaymentPendiente},
		{name: "exactly one half stays low", activityBias: 0, paymentBias: 0, wantActivity: model.ActivityEventual, wantPayment: model.PaymentPendiente},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(t, tt.activityBias, tt.paymentBias)
			pred, err := e.Predict(context.Background(), jazzPrompt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantActivity, pred.Record.ActivityType)
			assert.Equal(t, tt.wantPayment, pred.Record.PaymentStatus)
		})
	}
}

func TestDecodeSlot(t *testing.T) {
	tests := []struct {
		confidence   float64
		wantCode     int
		wantActivity model.ActivityType
		wantPayment  model.PaymentStatus
	}{
		{confidence: 0, wantCode: 0, wantActivity: model.ActivityEventual, wantPayment: model.PaymentPendiente},
		{confidence: Threshold, wantCode: 0, wantActivity: model.ActivityEventual, wantPayment: model.PaymentPendiente},
		{confidence: 0.51, wantCode: 1, wantActivity: model.ActivityFijo, wantPayment: model.PaymentPagado},
		{confidence: 1, wantCode: 1, wantActivity: model.ActivityFijo, wantPayment: model.PaymentPagado},
	}

	for _, tt := range tests {
		code := decodeSlot(tt.confidence)
		assert.Equal(t, tt.wantCode, code, "confidence %v", tt.confidence)

		activity, err := model.ActivityTypeFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, tt.wantActivity, activity)

		payment, err := model.PaymentStatusFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, tt.wantPayment, payment)
	}
}

func TestPredictNormalizedFields(t *testing.T) {
	e := newTestExtractor(t, -5, -5)

	tests := []struct {
		prompt     string
		wantTime   string
		wantDate   string
		wantAmount int
	}{
		{prompt: jazzPrompt, wantTime: "20:00", wantDate: normalize.DateSentinel, wantAmount: 50},
		{prompt: "Cena el viernes a las 9:30pm, 120 pesos", wantTime: "21:30", wantDate: "2025-01-10", wantAmount: 120},
		{prompt: "", wantTime: normalize.TimeSentinel, wantDate: normalize.DateSentinel, wantAmount: 0},
		{prompt: "🎷🎺 ¿¿??", wantTime: normalize.TimeSentinel, wantDate: normalize.DateSentinel, wantAmount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			pred, err := e.Predict(context.Background(), tt.prompt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTime, pred.Record.Time)
			assert.Equal(t, tt.wantDate, pred.Record.Date)
			assert.Equal(t, tt.wantAmount, pred.Record.Amount)
		})
	}
}

func TestPredictCanceledContext(t *testing.T) {
	e := newTestExtractor(t, 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Predict(ctx, jazzPrompt)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsInvalidBundle(t *testing.T) {
	_, err := New(&artifact.Bundle{})
	assert.ErrorIs(t, err, common.ErrArtifactMismatch)
}

func TestPredictConcurrent(t *testing.T) {
	e := newTestExtractor(t, 3, -3)
	want, err := e.Predict(context.Background(), jazzPrompt)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Predict(context.Background(), jazzPrompt)
			assert.NoError(t, err)
			assert.Equal(t, want.Record, got.Record)
			assert.Equal(t, want.Confidences, got.Confidences)
		}()
	}
	wg.Wait()
}

func TestPredictWithTrainedModel(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Epochs = 5
	cfg.EmbeddingDim = 8
	cfg.Hidden1 = 8
	cfg.Hidden2 = 4
	cfg.DenseUnits = 4

	bundle, _, err := engine.NewWithConfig(cfg, nil).Train(context.Background(), dataset.Builtin())
	require.NoError(t, err)

	e, err := New(bundle)
	require.NoError(t, err)

	pred, err := e.Predict(context.Background(), meetingPrompt)
	require.NoError(t, err)
	assert.Equal(t, "15:00", pred.Record.Time)
	assert.Equal(t, 0, pred.Record.Amount)
	assert.Equal(t, bundle.Metadata.ID, pred.ModelID)
	for _, c := range pred.Confidences {
		assert.True(t, c > 0 && c < 1)
	}
}
