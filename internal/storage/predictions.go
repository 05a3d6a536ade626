package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/model"
)

// SavePrediction stores a prediction. Saving the same ID twice is an error.
func (s *SQLiteStorage) SavePrediction(ctx context.Context, p *model.Prediction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePrediction(p); err != nil {
		return err
	}

	confidences, err := json.Marshal(p.Confidences)
	if err != nil {
		return fmt.Errorf("failed to encode confidences: %w", err)
	}

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO predictions (
			id, prompt, model_id, provider, location, description,
			event_time, event_date, amount, activity_type, payment_status,
			confidences, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Prompt, p.ModelID,
		p.Record.Provider, p.Record.Location, p.Record.Description,
		p.Record.Time, p.Record.Date, p.Record.Amount,
		string(p.Record.ActivityType), string(p.Record.PaymentStatus),
		string(confidences), createdAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: prediction %s", common.ErrDuplicateEntry, p.ID)
		}
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// GetPrediction retrieves a prediction by ID.
func (s *SQLiteStorage) GetPrediction(ctx context.Context, id string) (*model.Prediction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getPredictionTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getPredictionTx(ctx context.Context, q queryable, id string) (*model.Prediction, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+predictionColumns+`
		FROM predictions
		WHERE id = ?
	`, id)

	p, err := scanPrediction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: prediction %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return p, nil
}

// ListPredictions returns the most recent predictions first. A limit of zero
// or less returns all of them.
func (s *SQLiteStorage) ListPredictions(ctx context.Context, limit int) ([]model.Prediction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+predictionColumns+`
		FROM predictions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var predictions []model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, *p)
	}
	return predictions, rows.Err()
}

// CountPredictions returns the number of stored predictions.
func (s *SQLiteStorage) CountPredictions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return count, nil
}

const predictionColumns = `id, prompt, model_id, provider, location, description,
			event_time, event_date, amount, activity_type, payment_status,
			confidences, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row scanner) (*model.Prediction, error) {
	var (
		p           model.Prediction
		activity    string
		payment     string
		confidences string
	)
	err := row.Scan(
		&p.ID,
		&p.Prompt,
		&p.ModelID,
		&p.Record.Provider,
		&p.Record.Location,
		&p.Record.Description,
		&p.Record.Time,
		&p.Record.Date,
		&p.Record.Amount,
		&activity,
		&payment,
		&confidences,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Record.ActivityType = model.ActivityType(activity)
	p.Record.PaymentStatus = model.PaymentStatus(payment)
	if err := json.Unmarshal([]byte(confidences), &p.Confidences); err != nil {
		return nil, fmt.Errorf("failed to decode confidences: %w", err)
	}
	return &p, nil
}
