package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/evento/internal/nn"
	"github.com/schollz/progressbar/v3"
)

// TrainingProgress draws a progress bar over training epochs.
type TrainingProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	last   nn.EpochStats
}

// NewTrainingProgress creates a progress display writing to writer.
func NewTrainingProgress(writer io.Writer) *TrainingProgress {
	if writer == nil {
		writer = os.Stderr
	}
	return &TrainingProgress{writer: writer}
}

// Start creates the bar for totalEpochs epochs.
func (p *TrainingProgress) Start(totalEpochs int) {
	p.bar = progressbar.NewOptions(totalEpochs,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Training...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// Epoch advances the bar and shows the latest loss.
func (p *TrainingProgress) Epoch(stats nn.EpochStats) {
	p.last = stats
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("[cyan][bold]Training[reset] loss=%.4f acc=%.2f", stats.Loss, stats.Accuracy))
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish closes the bar.
func (p *TrainingProgress) Finish() {
	if p.bar == nil {
		return
	}
	if err := p.bar.Close(); err != nil {
		slog.Warn("Failed to close progress bar", "error", err)
	}
}

// Last returns the stats of the most recent epoch.
func (p *TrainingProgress) Last() nn.EpochStats {
	return p.last
}
