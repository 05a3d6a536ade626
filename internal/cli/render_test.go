package cli

import (
	"bytes"
	"testing"

	"github.com/Veraticus/evento/internal/artifact"
	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/nn"
	"github.com/Veraticus/evento/internal/testutil/predictions"
	"github.com/Veraticus/evento/internal/vectorize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrediction(t *testing.T) *model.Prediction {
	t.Helper()
	return predictions.NewBuilder(t).
		WithFixture(predictions.FixtureMeeting).
		Modify(func(p *model.Prediction) { p.ID = "3f1c2a4e-0000-4000-8000-000000000001" }).
		BuildOne()
}

func TestRenderPrediction(t *testing.T) {
	out := RenderPrediction(testPrediction(t))

	for _, want := range []string{"Desconocido", "Extraído del prompt", "15:00", "YYYY-MM-DD", "Eventual", "Pendiente", "payment=0.03", "3f1c2a4e"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderConfidencesExtraSlots(t *testing.T) {
	out := RenderConfidences([]float64{0.5, 0.25, 0, 0, 0, 0, 0, 0, 0.75})
	assert.Contains(t, out, "provider=0.50")
	assert.Contains(t, out, "8=0.75")
}

func TestRenderHistory(t *testing.T) {
	assert.Contains(t, RenderHistory(nil, 0), "No predictions yet")

	p := testPrediction(t)
	out := RenderHistory([]model.Prediction{*p}, 3)
	assert.Contains(t, out, "Predictions (1 of 3)")
	assert.Contains(t, out, p.ID)
	assert.Contains(t, out, "Pendiente")
	assert.Contains(t, out, "Reunión con proveedor")
	assert.Contains(t, out, "…")
}

func TestRenderTrainingSummary(t *testing.T) {
	vec, err := vectorize.Fit([]string{"concierto de jazz"}, vectorize.Options{})
	require.NoError(t, err)
	net, err := nn.New(nn.Config{VocabSize: vec.Vocabulary().Size(), SeqLen: 50, EmbeddingDim: 2, Hidden1: 2, Hidden2: 2, DenseUnits: 2, Outputs: 8}, 1)
	require.NoError(t, err)
	b, err := artifact.NewBundle(vec, net, artifact.Metadata{ID: "model-xyz", ExampleCount: 2, Epochs: 50, FinalLoss: 0.1234, FinalAccuracy: 0.875})
	require.NoError(t, err)

	out := RenderTrainingSummary(b, "/tmp/event.model")
	for _, want := range []string{"model-xyz", "0.1234", "87.50%", "/tmp/event.model"} {
		assert.Contains(t, out, want)
	}
}

func TestTrainingProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewTrainingProgress(&buf)

	p.Epoch(nn.EpochStats{Epoch: 1, Loss: 2})
	p.Start(2)
	p.Epoch(nn.EpochStats{Epoch: 1, Loss: 1.5, Accuracy: 0.5})
	p.Epoch(nn.EpochStats{Epoch: 2, Loss: 1.25, Accuracy: 0.75})
	p.Finish()

	assert.Equal(t, nn.EpochStats{Epoch: 2, Loss: 1.25, Accuracy: 0.75}, p.Last())
	assert.NotEmpty(t, buf.String())
}
