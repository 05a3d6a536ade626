package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/evento/internal/artifact"
	"github.com/Veraticus/evento/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderDelegatesToCurrent(t *testing.T) {
	low := newTestExtractor(t, -5, -5)
	high := newTestExtractor(t, 5, 5)

	h := NewHolder(low)
	pred, err := h.Predict(context.Background(), jazzPrompt)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPendiente, pred.Record.PaymentStatus)

	h.Swap(high)
	assert.Same(t, high, h.Current())
	pred, err = h.Predict(context.Background(), jazzPrompt)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPagado, pred.Record.PaymentStatus)
}

func TestHolderWatchReloadsArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event.model")

	first := fixedBundle(t, -5, -5)
	first.Metadata.ID = "first"
	require.NoError(t, artifact.Save(path, first))

	e, err := Load(path)
	require.NoError(t, err)
	h := NewHolder(e)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.Watch(ctx, path, Load))

	second := fixedBundle(t, 5, 5)
	second.Metadata.ID = "second"
	require.NoError(t, artifact.Save(path, second))

	assert.Eventually(t, func() bool {
		return h.Current().ModelID() == "second"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestHolderKeepsSnapshotOnFailedReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event.model")

	original := newTestExtractor(t, -5, -5)
	h := NewHolder(original)

	var failures atomic.Int32
	h.OnReload = func(_ *Extractor, err error) {
		if err != nil {
			failures.Add(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.Watch(ctx, path, Load))

	require.NoError(t, os.WriteFile(path, []byte("corrupt"), 0o600))

	assert.Eventually(t, func() bool {
		return failures.Load() > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Same(t, original, h.Current())
}

func TestHolderWatchMissingDirectory(t *testing.T) {
	h := NewHolder(newTestExtractor(t, 0, 0))
	err := h.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "event.model"), func(string) (*Extractor, error) {
		return nil, errors.New("unused")
	})
	assert.Error(t, err)
}
