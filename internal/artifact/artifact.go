// Package artifact persists a trained network together with the vocabulary it
// was trained with, as one versioned file.
package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/evento/internal/common"
	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/nn"
	"github.com/Veraticus/evento/internal/vectorize"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// FormatVersion is the artifact layout this build reads and writes.
const FormatVersion = 1

// Metadata describes how an artifact was produced.
type Metadata struct {
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"id"`
	ExampleCount  int       `json:"example_count"`
	Epochs        int       `json:"epochs"`
	FinalLoss     float64   `json:"final_loss"`
	FinalAccuracy float64   `json:"final_accuracy"`
}

// Bundle pairs a fitted vectorizer with the network trained on its ids.
// A Bundle is never mutated after construction.
type Bundle struct {
	Vectorizer *vectorize.Vectorizer
	Network    *nn.Network
	Metadata   Metadata
}

// NewBundle checks that vec and net belong together and stamps a fresh ID
// when meta has none.
func NewBundle(vec *vectorize.Vectorizer, net *nn.Network, meta Metadata) (*Bundle, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}

	b := &Bundle{Vectorizer: vec, Network: net, Metadata: meta}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate reports ErrArtifactMismatch when the vocabulary and network disagree.
func (b *Bundle) Validate() error {
	if b == nil || b.Vectorizer == nil || b.Network == nil {
		return fmt.Errorf("%w: incomplete bundle", common.ErrArtifactMismatch)
	}

	cfg := b.Network.Config()
	if size := b.Vectorizer.Vocabulary().Size(); size != cfg.VocabSize {
		return fmt.Errorf("%w: vocabulary has %d ids but embedding has %d rows", common.ErrArtifactMismatch, size, cfg.VocabSize)
	}
	if b.Vectorizer.SeqLen() != cfg.SeqLen {
		return fmt.Errorf("%w: vectorizer emits %d ids but network expects %d", common.ErrArtifactMismatch, b.Vectorizer.SeqLen(), cfg.SeqLen)
	}
	if cfg.Outputs != model.SlotCount {
		return fmt.Errorf("%w: network has %d outputs, want %d", common.ErrArtifactMismatch, cfg.Outputs, model.SlotCount)
	}
	return nil
}

type fileFormat struct {
	Network       nn.State `json:"network"`
	Metadata      Metadata `json:"metadata"`
	Vocabulary    []string `json:"vocabulary"`
	FormatVersion int      `json:"format_version"`
	MaxVocab      int      `json:"max_vocab"`
	SeqLen        int      `json:"seq_len"`
}

// Encode writes b to w as zstd-compressed JSON.
func Encode(w io.Writer, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}

	ff := fileFormat{
		FormatVersion: FormatVersion,
		Metadata:      b.Metadata,
		Vocabulary:    b.Vectorizer.Vocabulary().Tokens(),
		MaxVocab:      b.Vectorizer.MaxVocab(),
		SeqLen:        b.Vectorizer.SeqLen(),
		Network:       b.Network.State(),
	}
	if err := json.NewEncoder(enc).Encode(ff); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	return enc.Close()
}

// Decode reads a bundle written by Encode and verifies the pairing.
func Decode(r io.Reader) (*Bundle, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dec.Close()

	var ff fileFormat
	if err := json.NewDecoder(dec).Decode(&ff); err != nil {
		return nil, fmt.Errorf("%w: failed to decode artifact: %w", common.ErrArtifactMismatch, err)
	}
	if ff.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: format version %d, want %d", common.ErrArtifactMismatch, ff.FormatVersion, FormatVersion)
	}

	vec, err := vectorize.Restore(ff.Vocabulary, vectorize.Options{MaxVocab: ff.MaxVocab, SeqLen: ff.SeqLen})
	if err != nil {
		return nil, err
	}
	net, err := nn.FromState(ff.Network)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Vectorizer: vec, Network: net, Metadata: ff.Metadata}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Save writes b to path, replacing any existing file atomically.
func Save(path string, b *Bundle) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary artifact: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := Encode(tmp, b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	slog.Info("Saved model artifact",
		"path", path,
		"id", b.Metadata.ID,
		"vocabulary", b.Vectorizer.Vocabulary().Size())
	return nil
}

// Load reads the artifact at path.
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path) // #nosec G304 -- model path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return b, nil
}
