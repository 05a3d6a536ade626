// Package tui implements the interactive prompt window: a text area for a
// free-text event description, a submit key, and a panel showing the
// extracted record.
package tui

import (
	"context"
	"strings"

	"github.com/Veraticus/evento/internal/model"
	"github.com/Veraticus/evento/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the TUI state.
type Model struct {
	ctx      context.Context
	lastErr  error
	input    textarea.Model
	help     help.Model
	theme    themes.Theme
	status   string
	config   Config
	keymap   KeyMap
	history  []model.Prediction
	width    int
	height   int
	busy     bool
	quitting bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	keymap := DefaultKeyMap()

	input := textarea.New()
	input.Placeholder = "Describe el evento: Concierto de jazz el viernes, 8PM, costo: 50USD, pagado."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.KeyMap.InsertNewline = keymap.Newline
	input.SetHeight(3)
	input.Focus()

	m := Model{
		ctx:    ctx,
		input:  input,
		help:   help.New(),
		theme:  cfg.Theme,
		config: cfg,
		keymap: keymap,
	}
	m.resize(cfg.Width, cfg.Height)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForReload(m.ctx, m.config.Reloads))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Submit):
			return m.submit()
		case key.Matches(msg, m.keymap.Clear):
			m.input.Reset()
			m.history = nil
			m.lastErr = nil
			m.status = ""
			return m, nil
		}

	case predictionMsg:
		m.busy = false
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.lastErr = msg.saveErr
		m.status = ""
		m.pushHistory(*msg.prediction)
		m.input.Reset()
		return m, nil

	case reloadMsg:
		if !msg.ok {
			return m, nil
		}
		if msg.event.Err != nil {
			m.status = "Model reload failed, still serving the previous model"
		} else {
			m.status = "Model reloaded: " + msg.event.ModelID
		}
		return m, waitForReload(m.ctx, m.config.Reloads)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.input.Value())
	if m.busy || prompt == "" {
		return m, nil
	}
	m.busy = true
	m.lastErr = nil
	return m, m.predict(prompt)
}

func (m *Model) pushHistory(p model.Prediction) {
	m.history = append([]model.Prediction{p}, m.history...)
	if limit := max(m.config.History, 1); len(m.history) > limit {
		m.history = m.history[:limit]
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(max(width-4, 20))
	m.help.Width = width
}
