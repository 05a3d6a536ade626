package tui

import "github.com/Veraticus/evento/internal/model"

// ReloadEvent reports that the served model changed or failed to reload.
type ReloadEvent struct {
	Err     error
	ModelID string
}

type predictionMsg struct {
	err        error
	prediction *model.Prediction
	saveErr    error
}

type reloadMsg struct {
	event ReloadEvent
	ok    bool
}
