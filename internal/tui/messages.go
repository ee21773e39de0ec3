package tui

import "github.com/typingthrower/overlay/internal/countdown"

// Message types for Bubble Tea update loop.

// frameMsg carries the next overlay label from the countdown.
type frameMsg struct{ Frame countdown.Frame }

// startedMsg reports the outcome of starting a countdown run.
type startedMsg struct{ Err error }
