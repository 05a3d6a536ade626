// Package extract decodes the network's output for a prompt into an event record.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/evento/internal/artifact"
	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/normalize"
	"github.com/google/uuid"
)

// Threshold is the confidence above which a categorical slot takes its
// second value (Fijo, Pagado).
const Threshold = 0.5

// Predictor accepts a free-text prompt and returns the extracted record.
type Predictor interface {
	Predict(ctx context.Context, prompt string) (*model.Prediction, error)
}

// Extractor serves predictions from one immutable model snapshot and is
// safe for concurrent use.
type Extractor struct {
	bundle *artifact.Bundle
	now    func() time.Time
}

// New creates an extractor over a validated bundle.
func New(bundle *artifact.Bundle) (*Extractor, error) {
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{bundle: bundle, now: time.Now}, nil
}

// Load reads an artifact from path and wraps it in an extractor.
func Load(path string) (*Extractor, error) {
	bundle, err := artifact.Load(path)
	if err != nil {
		return nil, err
	}
	return New(bundle)
}

// SetClock replaces the clock used to resolve weekday names.
func (e *Extractor) SetClock(now func() time.Time) {
	e.now = now
}

// ModelID identifies the snapshot this extractor serves.
func (e *Extractor) ModelID() string {
	return e.bundle.Metadata.ID
}

// Bundle returns the snapshot this extractor serves.
func (e *Extractor) Bundle() *artifact.Bundle {
	return e.bundle
}

// Predict extracts an event record from prompt. Any string is accepted;
// fields that cannot be found take their sentinel values.
//
// Time, date and amount come from the normalizers applied to the prompt
// itself, with the clock expression cut out before the amount is read. The
// categorical fields come from thresholding the last two output slots. The
// free-text fields are fixed placeholders.
func (e *Extractor) Predict(ctx context.Context, prompt string) (*model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seq, err := e.bundle.Vectorizer.Vectorize(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize prompt: %w", err)
	}
	confidences, err := e.bundle.Network.Predict(seq)
	if err != nil {
		return nil, fmt.Errorf("failed to run model: %w", err)
	}

	activity, err := model.ActivityTypeFromCode(decodeSlot(confidences[model.SlotActivityType]))
	if err != nil {
		return nil, err
	}
	payment, err := model.PaymentStatusFromCode(decodeSlot(confidences[model.SlotPaymentStatus]))
	if err != nil {
		return nil, err
	}

	now := e.now()
	return &model.Prediction{
		ID:          uuid.NewString(),
		CreatedAt:   now.UTC(),
		Prompt:      prompt,
		ModelID:     e.ModelID(),
		Confidences: confidences,
		Record: model.EventRecord{
			Provider:      model.UnknownProvider,
			Location:      model.UnknownLocation,
			Description:   model.PromptDescription,
			Time:          normalize.Time(prompt),
			Date:          normalize.Date(prompt, now),
			Amount:        normalize.Amount(normalize.WithoutTime(prompt)),
			ActivityType:  activity,
			PaymentStatus: payment,
		},
	}, nil
}

// decodeSlot turns a categorical confidence into its binary code.
func decodeSlot(confidence float64) int {
	if confidence > Threshold {
		return 1
	}
	return 0
}
