package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.controller.Stop()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Stop):
		if m.controller.Running() {
			m.controller.Stop()
			m.status = "countdown stopped"
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if m.controller.Running() {
			m.status = "countdown already running"
			return m, nil
		}
		return m, m.startCountdown()

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil
	}

	return m, nil
}

// renderBackground rasterises the backdrop for the current window size.
func (m Model) renderBackground() []string {
	w, h := m.size()
	if m.background == nil {
		return blankRows(w, h)
	}
	return m.background.Render(w, h)
}

func (m Model) size() (width, height int) {
	width, height = m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	return width, height
}
