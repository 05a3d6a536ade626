// Package engine runs the offline training phase that turns annotated
// examples into a model artifact.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/evento/internal/artifact"
	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/labels"
	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/nn"
	"github.com/Veraticus/evento/internal/vectorize"
)

// Config holds the training hyperparameters and layer sizes.
type Config struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         uint64
	MaxVocab     int
	SeqLen       int
	EmbeddingDim int
	Hidden1      int
	Hidden2      int
	DenseUnits   int
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{
		Epochs:       50,
		BatchSize:    2,
		LearningRate: 0.001,
		Seed:         1,
		MaxVocab:     vectorize.DefaultMaxVocab,
		SeqLen:       vectorize.DefaultSeqLen,
		EmbeddingDim: 64,
		Hidden1:      64,
		Hidden2:      32,
		DenseUnits:   32,
	}
}

// Trainer fits a vectorizer and network on a set of annotated examples.
// Only one Train call may run at a time.
type Trainer struct {
	observer EpochObserver
	now      func() time.Time
	config   Config
	mu       sync.Mutex
}

// New creates a trainer with the default configuration.
func New(observer EpochObserver) *Trainer {
	return NewWithConfig(DefaultConfig(), observer)
}

// NewWithConfig creates a trainer with custom configuration.
func NewWithConfig(config Config, observer EpochObserver) *Trainer {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Trainer{
		config:   config,
		observer: observer,
		now:      time.Now,
	}
}

// SetClock replaces the clock used to resolve weekday names in the examples.
func (t *Trainer) SetClock(now func() time.Time) {
	t.now = now
}

// Train encodes the examples, fits a fresh vectorizer on their prompts and
// trains a new network. The returned bundle is a complete snapshot ready to
// be saved or served; nothing is modified in place.
func (t *Trainer) Train(ctx context.Context, examples []model.AnnotatedExample) (*artifact.Bundle, nn.History, error) {
	if !t.mu.TryLock() {
		return nil, nil, common.ErrTrainingBusy
	}
	defer t.mu.Unlock()

	if len(examples) == 0 {
		return nil, nil, fmt.Errorf("%w: no training examples", common.ErrShapeMismatch)
	}

	slog.Info("Starting training",
		"examples", len(examples),
		"epochs", t.config.Epochs,
		"batch_size", t.config.BatchSize)

	encoder := &labels.Encoder{Now: t.now}
	_, targets, err := encoder.EncodeAll(examples)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode labels: %w", err)
	}

	prompts := make([]string, len(examples))
	for i, ex := range examples {
		prompts[i] = ex.Prompt
	}

	vec, err := vectorize.Fit(prompts, vectorize.Options{MaxVocab: t.config.MaxVocab, SeqLen: t.config.SeqLen})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}
	seqs, err := vec.VectorizeAll(prompts)
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("Fitted vocabulary", "size", vec.Vocabulary().Size())

	net, err := nn.New(nn.Config{
		VocabSize:    vec.Vocabulary().Size(),
		SeqLen:       vec.SeqLen(),
		EmbeddingDim: t.config.EmbeddingDim,
		Hidden1:      t.config.Hidden1,
		Hidden2:      t.config.Hidden2,
		DenseUnits:   t.config.DenseUnits,
		Outputs:      model.SlotCount,
	}, t.config.Seed)
	if err != nil {
		return nil, nil, err
	}

	t.observer.Start(t.config.Epochs)
	history, err := net.Fit(ctx, seqs, targets, nn.FitOptions{
		Epochs:       t.config.Epochs,
		BatchSize:    t.config.BatchSize,
		LearningRate: t.config.LearningRate,
		Seed:         t.config.Seed,
		OnEpoch: func(stats nn.EpochStats) {
			slog.Info("Epoch complete",
				"epoch", stats.Epoch,
				"loss", stats.Loss,
				"accuracy", stats.Accuracy)
			t.observer.Epoch(stats)
		},
	})
	t.observer.Finish()
	if err != nil {
		return nil, history, fmt.Errorf("training stopped after %d epochs: %w", len(history), err)
	}

	final := history.Final()
	bundle, err := artifact.NewBundle(vec, net, artifact.Metadata{
		CreatedAt:     t.now().UTC(),
		ExampleCount:  len(examples),
		Epochs:        len(history),
		FinalLoss:     final.Loss,
		FinalAccuracy: final.Accuracy,
	})
	if err != nil {
		return nil, history, err
	}

	slog.Info("Training complete",
		"model_id", bundle.Metadata.ID,
		"loss", final.Loss,
		"accuracy", final.Accuracy)

	return bundle, history, nil
}
