package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/evento/internal/extract"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive prompt window and blocks until the user quits
// or ctx is canceled.
func Run(ctx context.Context, predictor extract.Predictor, opts ...Option) error {
	if predictor == nil {
		return fmt.Errorf("predictor is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Predictor = predictor

	p := tea.NewProgram(newModel(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
