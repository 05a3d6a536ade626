// Package predictions provides a fluent builder for prediction fixtures in tests.
//
// Example usage:
//
//	preds := predictions.NewBuilder(t).
//		WithFixture(predictions.FixtureMeeting).
//		WithFixture(predictions.FixtureConcert).
//		Build()
package predictions

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/evento/internal/model"
)

// BaseTime is the creation time of the first built prediction. Each later
// prediction is one minute newer.
var BaseTime = time.Date(2025, time.January, 6, 12, 0, 0, 0, time.UTC)

// Builder provides a fluent interface for constructing test predictions.
type Builder interface {
	// WithFixture adds a prediction from a predefined fixture.
	WithFixture(fixture Fixture) Builder

	// WithPrompt adds a prediction for prompt with placeholder fields and
	// sentinel time and date.
	WithPrompt(prompt string) Builder

	// Modify applies fn to the most recently added prediction.
	Modify(fn func(*model.Prediction)) Builder

	// Build returns the predictions in the order they were added.
	Build() []*model.Prediction

	// BuildOne returns the single prediction added, failing the test otherwise.
	BuildOne() *model.Prediction
}

type predictionBuilder struct {
	t           *testing.T
	predictions []*model.Prediction
}

// NewBuilder creates a new prediction builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &predictionBuilder{t: t}
}

func (b *predictionBuilder) WithFixture(fixture Fixture) Builder {
	p := fixture.Prediction()
	b.add(&p)
	return b
}

func (b *predictionBuilder) WithPrompt(prompt string) Builder {
	b.add(&model.Prediction{
		Prompt: prompt,
		Record: model.EventRecord{
			Provider:      model.UnknownProvider,
			Location:      model.UnknownLocation,
			Description:   model.PromptDescription,
			Time:          "00:00",
			Date:          "YYYY-MM-DD",
			ActivityType:  model.ActivityEventual,
			PaymentStatus: model.PaymentPendiente,
		},
		Confidences: make([]float64, model.SlotCount),
	})
	return b
}

func (b *predictionBuilder) Modify(fn func(*model.Prediction)) Builder {
	b.t.Helper()
	if len(b.predictions) == 0 {
		b.t.Fatal("Modify called before any prediction was added")
	}
	fn(b.predictions[len(b.predictions)-1])
	return b
}

func (b *predictionBuilder) Build() []*model.Prediction {
	return b.predictions
}

func (b *predictionBuilder) BuildOne() *model.Prediction {
	b.t.Helper()
	if len(b.predictions) != 1 {
		b.t.Fatalf("BuildOne: builder holds %d predictions", len(b.predictions))
	}
	return b.predictions[0]
}

func (b *predictionBuilder) add(p *model.Prediction) {
	n := len(b.predictions)
	p.ID = fmt.Sprintf("pred-%03d", n+1)
	if p.ModelID == "" {
		p.ModelID = "model-test"
	}
	p.CreatedAt = BaseTime.Add(time.Duration(n) * time.Minute)
	b.predictions = append(b.predictions, p)
}
