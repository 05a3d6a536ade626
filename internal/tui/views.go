package tui

import (
	"strings"

	"github.com/Veraticus/evento/internal/cli"
	"github.com/Veraticus/evento/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render(cli.EventIcon + " evento"),
		m.theme.FocusedBox.Render(m.input.View()),
		m.renderStatus(),
	}
	if len(m.history) > 0 {
		sections = append(sections, m.renderLatest(m.history[0]))
		if len(m.history) > 1 {
			sections = append(sections, m.renderEarlier(m.history[1:]))
		}
	}
	sections = append(sections, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatus() string {
	switch {
	case m.busy:
		return m.theme.StatusPending.Render("Extrayendo...")
	case m.lastErr != nil:
		return m.theme.StatusError.Render("Error: " + m.lastErr.Error())
	case m.status != "":
		return m.theme.StatusInfo.Render(m.status)
	default:
		return ""
	}
}

func (m Model) renderLatest(p model.Prediction) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		cli.RenderRecord(p.Record),
		"",
		cli.RenderConfidences(p.Confidences),
	)
	return m.theme.RoundedBox.Render(content)
}

func (m Model) renderEarlier(preds []model.Prediction) string {
	lines := make([]string, 0, len(preds)+1)
	lines = append(lines, m.theme.Subtitle.Render("Anteriores"))
	for _, p := range preds {
		r := p.Record
		lines = append(lines, m.theme.Normal.Render(strings.Join([]string{
			r.Date, r.Time, string(r.ActivityType), string(r.PaymentStatus),
		}, "  "))+"  "+m.theme.Subtitle.Render(firstLine(p.Prompt)))
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}
