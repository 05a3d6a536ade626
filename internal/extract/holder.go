package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/Veraticus/evento/internal/model"
	"github.com/fsnotify/fsnotify"
)

// Holder publishes the current extractor. Readers always see a complete
// snapshot; a reload replaces the whole extractor at once.
type Holder struct {
	// OnReload, if set, is called after every reload attempt.
	OnReload func(*Extractor, error)
	current  atomic.Pointer[Extractor]
}

// NewHolder creates a holder serving e.
func NewHolder(e *Extractor) *Holder {
	h := &Holder{}
	h.current.Store(e)
	return h
}

// Current returns the extractor currently being served.
func (h *Holder) Current() *Extractor {
	return h.current.Load()
}

// Swap installs e as the current extractor.
func (h *Holder) Swap(e *Extractor) {
	old := h.current.Swap(e)
	if old != nil {
		slog.Info("Model snapshot replaced", "old_model", old.ModelID(), "new_model", e.ModelID())
	}
}

// Predict delegates to the current extractor.
func (h *Holder) Predict(ctx context.Context, prompt string) (*model.Prediction, error) {
	return h.Current().Predict(ctx, prompt)
}

// Watch reloads the artifact at path whenever it is created or rewritten,
// using load to build the new extractor. A failed load keeps the current
// snapshot. Watching starts before Watch returns and stops when ctx is done.
func (h *Holder) Watch(ctx context.Context, path string, load func(string) (*Extractor, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch model directory: %w", err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target || evt.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				h.reload(target, load)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Model watcher error", "error", err)
			}
		}
	}()

	return nil
}

func (h *Holder) reload(path string, load func(string) (*Extractor, error)) {
	e, err := load(path)
	if err != nil {
		slog.Warn("Keeping current model after failed reload", "path", path, "error", err)
	} else {
		h.Swap(e)
	}
	if h.OnReload != nil {
		h.OnReload(e, err)
	}
}
