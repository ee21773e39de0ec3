package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w, h := m.size()
	rows := m.bgRows
	if len(rows) != h {
		rows = m.renderBackground()
	}
	if m.frame.Visible {
		rows = overlay(rows, m.frame.Lines, w, labelStyle.Render)
	}
	if footer := m.renderFooter(w); footer != "" && len(rows) > 0 {
		rows = append(rows[:len(rows)-1:len(rows)-1], footer)
	}
	return strings.Join(rows, "\n")
}

// renderFooter returns the bottom line: an error, the help, or a status.
func (m Model) renderFooter(width int) string {
	var line string
	switch {
	case m.err != nil:
		line = errorStyle.Render(m.err.Error())
	case m.helpVisible:
		line = m.help.View(m.keys)
	case m.status != "":
		line = statusStyle.Render(m.status)
	default:
		return ""
	}
	return ansi.Truncate(line, width, "…")
}
