package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/evento/internal/artifact"
	"github.com/Veraticus/evento/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var slotNames = [model.SlotCount]string{
	"provider", "location", "description", "time", "date", "amount", "activity", "payment",
}

// RenderRecord formats an event record as labelled lines.
func RenderRecord(r model.EventRecord) string {
	rows := [][2]string{
		{"Proveedor", r.Provider},
		{"Ubicación", r.Location},
		{"Descripción", r.Description},
		{"Hora", r.Time},
		{"Fecha", r.Date},
		{"Monto", strconv.Itoa(r.Amount)},
		{"Tipo", string(r.ActivityType)},
		{"Pago", string(r.PaymentStatus)},
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(row[0]), row[1])
	}
	return strings.Join(lines, "\n")
}

// RenderConfidences formats the raw per-slot model output.
func RenderConfidences(confidences []float64) string {
	parts := make([]string, 0, len(confidences))
	for i, c := range confidences {
		name := strconv.Itoa(i)
		if i < len(slotNames) {
			name = slotNames[i]
		}
		parts = append(parts, fmt.Sprintf("%s=%.2f", name, c))
	}
	return SubtleStyle.Render(strings.Join(parts, " "))
}

// RenderPrediction formats a prediction in a box.
func RenderPrediction(p *model.Prediction) string {
	content := RenderRecord(p.Record) + "\n\n" +
		RenderConfidences(p.Confidences) + "\n" +
		SubtleStyle.Render("id "+p.ID)
	return RenderBox(EventIcon+" Evento", content)
}

// RenderHistory formats stored predictions as a table, newest first, under a
// title counting them against total, the number of stored predictions.
func RenderHistory(predictions []model.Prediction, total int) string {
	if len(predictions) == 0 {
		return FormatInfo("No predictions yet")
	}

	header := []string{"ID", "Fecha", "Hora", "Monto", "Tipo", "Pago", "Prompt"}
	rows := make([][]string, len(predictions))
	for i, p := range predictions {
		rows[i] = []string{
			p.ID,
			p.Record.Date,
			p.Record.Time,
			strconv.Itoa(p.Record.Amount),
			string(p.Record.ActivityType),
			string(p.Record.PaymentStatus),
			truncate(p.Prompt, 40),
		}
	}
	title := FormatTitle(fmt.Sprintf("Predictions (%d of %d)", len(predictions), total))
	return title + "\n" + renderTable(header, rows)
}

// RenderTrainingSummary describes a freshly trained model.
func RenderTrainingSummary(b *artifact.Bundle, path string) string {
	m := b.Metadata
	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render("Model"), m.ID),
		lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render("Examples"), strconv.Itoa(m.ExampleCount)),
		lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render("Vocabulary"), strconv.Itoa(b.Vectorizer.Vocabulary().Size())),
		lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render("Epochs"), strconv.Itoa(m.Epochs)),
		lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render("Loss"), fmt.Sprintf("%.4f", m.FinalLoss)),
		lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render("Accuracy"), fmt.Sprintf("%.2f%%", m.FinalAccuracy*100)),
		lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render("Saved to"), path),
	}
	return RenderBox(BrainIcon+" Training complete", strings.Join(lines, "\n"))
}

func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			rendered[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	lines := []string{renderRow(header, TableHeaderStyle)}
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
