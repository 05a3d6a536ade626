package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// predict runs the predictor off the UI goroutine and stores the result.
func (m Model) predict(prompt string) tea.Cmd {
	ctx := m.ctx
	predictor := m.config.Predictor
	saver := m.config.Saver

	return func() tea.Msg {
		pred, err := predictor.Predict(ctx, prompt)
		if err != nil {
			return predictionMsg{err: err}
		}
		msg := predictionMsg{prediction: pred}
		if saver != nil {
			msg.saveErr = saver.SavePrediction(ctx, pred)
		}
		return msg
	}
}

// waitForReload delivers the next reload event, or nothing once the
// channel is closed.
func waitForReload(ctx context.Context, reloads <-chan ReloadEvent) tea.Cmd {
	if reloads == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return reloadMsg{}
		case ev, ok := <-reloads:
			return reloadMsg{event: ev, ok: ok}
		}
	}
}
