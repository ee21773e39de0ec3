package tui

import "github.com/charmbracelet/lipgloss"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// frameBufferSize bounds the frames queued between the countdown and the
	// UI loop. A countdown produces one frame per second.
	frameBufferSize = 16

	// Terminal size used until the first WindowSizeMsg arrives.
	defaultWidth  = 80
	defaultHeight = 24
)

//nolint:gochecknoglobals // Shared styles.
var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)
