package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/typingthrower/overlay/internal/background"
	"github.com/typingthrower/overlay/internal/countdown"
)

// Model is the root Bubble Tea model: a full-screen background with the
// countdown label drawn over its centre.
type Model struct {
	ctx        context.Context //nolint:containedctx // Bounds countdown runs started from key presses.
	controller *countdown.Controller
	frames     <-chan countdown.Frame
	background *background.Image
	start      int
	exitOnDone bool

	frame  countdown.Frame
	width  int
	height int
	bgRows []string

	err         error
	status      string
	helpVisible bool
	quitting    bool

	keys keyMap
	help help.Model
}

// NewModel constructs a Model. bg may be nil for a blank backdrop. frames
// must be the channel the controller's Display writes to.
func NewModel(ctx context.Context, c *countdown.Controller, frames <-chan countdown.Frame, bg *background.Image, start int, exitOnDone bool) Model {
	return Model{
		ctx:        ctx,
		controller: c,
		frames:     frames,
		background: bg,
		start:      start,
		exitOnDone: exitOnDone,
		keys:       newKeyMap(),
		help:       help.New(),
	}
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenForFrames(),
		m.startCountdown(),
	)
}

// listenForFrames returns a Tea command that waits for the next frame.
func (m Model) listenForFrames() tea.Cmd {
	return func() tea.Msg {
		f, ok := <-m.frames
		if !ok {
			return nil
		}
		return frameMsg{Frame: f}
	}
}

// startCountdown starts a run from the configured number.
func (m Model) startCountdown() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{Err: m.controller.Start(m.ctx, m.start)}
	}
}
