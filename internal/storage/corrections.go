package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/model"
	"github.com/mattn/go-sqlite3"
)

// SaveCorrection records a user fix for a stored prediction. A later
// correction of the same prediction replaces the earlier one. The stored
// prediction's prompt is copied into c.
func (s *SQLiteStorage) SaveCorrection(ctx context.Context, c *model.Correction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCorrection(c); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prediction, err := s.getPredictionTx(ctx, tx, c.PredictionID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO corrections (prediction_id, provider, location, description, activity_type, payment_status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(prediction_id) DO UPDATE SET
			provider = excluded.provider,
			location = excluded.location,
			description = excluded.description,
			activity_type = excluded.activity_type,
			payment_status = excluded.payment_status,
			updated_at = CURRENT_TIMESTAMP
	`, c.PredictionID, c.Provider, c.Location, c.Description, string(c.ActivityType), string(c.PaymentStatus))
	if err != nil {
		return fmt.Errorf("failed to save correction: %w", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM corrections WHERE prediction_id = ?`, c.PredictionID).Scan(&id); err != nil {
		return fmt.Errorf("failed to read correction id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit correction: %w", err)
	}

	c.ID = id
	c.Prompt = prediction.Prompt
	return nil
}

// GetCorrection returns the correction recorded for a prediction, or
// common.ErrNotFound when the prediction has none.
func (s *SQLiteStorage) GetCorrection(ctx context.Context, predictionID string) (*model.Correction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(predictionID, "predictionID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.prediction_id, p.prompt, c.provider, c.location, c.description,
			c.activity_type, c.payment_status
		FROM corrections c
		JOIN predictions p ON p.id = c.prediction_id
		WHERE c.prediction_id = ?
	`, predictionID)

	c, err := scanCorrection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: correction for prediction %s", common.ErrNotFound, predictionID)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCorrections returns every correction together with the prompt of the
// prediction it fixes, oldest first.
func (s *SQLiteStorage) GetCorrections(ctx context.Context) ([]model.Correction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.prediction_id, p.prompt, c.provider, c.location, c.description,
			c.activity_type, c.payment_status
		FROM corrections c
		JOIN predictions p ON p.id = c.prediction_id
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var corrections []model.Correction
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		corrections = append(corrections, *c)
	}
	return corrections, rows.Err()
}

func scanCorrection(row scanner) (*model.Correction, error) {
	var (
		c        model.Correction
		activity string
		payment  string
	)
	err := row.Scan(&c.ID, &c.PredictionID, &c.Prompt, &c.Provider, &c.Location, &c.Description, &activity, &payment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan correction: %w", err)
	}
	c.ActivityType = model.ActivityType(activity)
	c.PaymentStatus = model.PaymentStatus(payment)
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
