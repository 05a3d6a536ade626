// Package labels encodes annotated training examples into typed label
// records and network targets.
package labels

import (
	"fmt"
	"time"

	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/normalize"
)

// Encoder turns annotated examples into labels. Dates are resolved
// relative to Now, so a fixed clock gives reproducible labels.
type Encoder struct {
	Now func() time.Time
}

// NewEncoder creates an encoder using the wall clock.
func NewEncoder() *Encoder {
	return &Encoder{Now: time.Now}
}

// Encode validates the categorical labels of ex and normalizes its
// reference fragments.
func (e *Encoder) Encode(ex model.AnnotatedExample) (model.Labels, error) {
	activity, err := model.ParseActivityType(ex.ActivityType)
	if err != nil {
		return model.Labels{}, err
	}
	payment, err := model.ParsePaymentStatus(ex.PaymentStatus)
	if err != nil {
		return model.Labels{}, err
	}

	now := time.Now
	if e != nil && e.Now != nil {
		now = e.Now
	}

	return model.Labels{
		Provider:      ex.Provider,
		Location:      ex.Location,
		Description:   ex.Description,
		Time:          normalize.Time(ex.TimeText),
		Date:          normalize.Date(ex.DayText, now()),
		Amount:        normalize.Amount(ex.AmountText),
		ActivityType:  activity,
		PaymentStatus: payment,
	}, nil
}

// EncodeAll encodes every example and returns the labels together with the
// matching network targets. The first unknown category aborts the whole set.
func (e *Encoder) EncodeAll(examples []model.AnnotatedExample) ([]model.Labels, [][]float64, error) {
	labels := make([]model.Labels, 0, len(examples))
	targets := make([][]float64, 0, len(examples))

	for i, ex := range examples {
		l, err := e.Encode(ex)
		if err != nil {
			return nil, nil, fmt.Errorf("example %d: %w", i, err)
		}
		t, err := l.Targets()
		if err != nil {
			return nil, nil, fmt.Errorf("example %d: %w", i, err)
		}
		labels = append(labels, l)
		targets = append(targets, t)
	}

	return labels, targets, nil
}
