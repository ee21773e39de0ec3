package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/typingthrower/overlay/internal/countdown"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.bgRows = m.renderBackground()
		m.help.Width = x.Width
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(x)
		return m, cmd

	case startedMsg:
		switch {
		case x.Err == nil:
			m.status = ""
		case errors.Is(x.Err, countdown.ErrAlreadyRunning):
			m.status = x.Err.Error()
		default:
			m.err = x.Err
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case frameMsg:
		m.frame = x.Frame
		// Stopping by hand keeps the window open so the status stays visible.
		if x.Frame.Finished && m.exitOnDone {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.listenForFrames()
	}

	return m, nil
}
