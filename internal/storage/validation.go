package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/evento/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidPrediction = errors.New("invalid prediction")
	ErrInvalidCorrection = errors.New("invalid correction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePrediction validates a prediction before it is stored.
func validatePrediction(p *model.Prediction) error {
	if p == nil {
		return fmt.Errorf("%w: prediction", ErrNilParameter)
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidPrediction)
	}
	if strings.TrimSpace(p.ModelID) == "" {
		return fmt.Errorf("%w: missing model ID", ErrInvalidPrediction)
	}
	if len(p.Confidences) != model.SlotCount {
		return fmt.Errorf("%w: %d confidences, want %d", ErrInvalidPrediction, len(p.Confidences), model.SlotCount)
	}
	if _, err := p.Record.ActivityType.Code(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrediction, err)
	}
	if _, err := p.Record.PaymentStatus.Code(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrediction, err)
	}
	return nil
}

// validateCorrection validates a correction before it is stored.
func validateCorrection(c *model.Correction) error {
	if c == nil {
		return fmt.Errorf("%w: correction", ErrNilParameter)
	}
	if strings.TrimSpace(c.PredictionID) == "" {
		return fmt.Errorf("%w: missing prediction ID", ErrInvalidCorrection)
	}
	if _, err := c.ActivityType.Code(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCorrection, err)
	}
	if _, err := c.PaymentStatus.Code(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCorrection, err)
	}
	return nil
}
