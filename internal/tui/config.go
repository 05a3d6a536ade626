package tui

import (
	"context"

	"github.com/Veraticus/evento/internal/extract"
	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/tui/themes"
)

// PredictionSaver stores submitted predictions.
type PredictionSaver interface {
	SavePrediction(ctx context.Context, p *model.Prediction) error
}

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Predictor extract.Predictor
	Saver     PredictionSaver
	Reloads   <-chan ReloadEvent
	Width     int
	Height    int
	History   int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:   themes.Default,
		Width:   80,
		Height:  24,
		History: 5,
	}
}

// WithSaver stores every prediction made in the session.
func WithSaver(saver PredictionSaver) Option {
	return func(c *Config) {
		c.Saver = saver
	}
}

// WithReloads shows model reload events as they arrive.
func WithReloads(reloads <-chan ReloadEvent) Option {
	return func(c *Config) {
		c.Reloads = reloads
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithHistory sets how many earlier predictions stay on screen.
func WithHistory(n int) Option {
	return func(c *Config) {
		c.History = n
	}
}
