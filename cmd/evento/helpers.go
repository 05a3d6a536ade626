package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/config"
	"github.com/Veraticus/evento/internal/extract"
	"github.com/Veraticus/evento/internal/storage"
)

// initStorage opens the prediction database and brings its schema up to date.
func initStorage(ctx context.Context, cfg config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadExtractor loads the trained model, pointing the user at `evento train`
// when there is none yet.
func loadExtractor(cfg config.Config) (*extract.Extractor, error) {
	e, err := extract.Load(cfg.ModelPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, common.NewUserError(
			fmt.Sprintf("No model found at %s. Run 'evento train' first.", cfg.ModelPath), err)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
