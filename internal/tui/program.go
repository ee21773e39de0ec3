package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/typingthrower/overlay/internal/background"
	"github.com/typingthrower/overlay/internal/countdown"
)

// Options configure Run.
type Options struct {
	Fonts      countdown.FontSource
	Countdown  countdown.Options
	Scheduler  countdown.Scheduler
	Background *background.Image
	Start      int
	// ExitOnDone quits once the label is hidden.
	ExitOnDone bool
	// KeepLogs leaves logrus output alone while the TUI owns the terminal.
	KeepLogs bool
	// ProgramOptions are appended to the defaults, mainly for tests.
	ProgramOptions []tea.ProgramOption
}

// channelDisplay hands frames to the UI loop without blocking the
// countdown controller.
type channelDisplay chan countdown.Frame

// Render implements countdown.Display.
func (d channelDisplay) Render(f countdown.Frame) {
	select {
	case d <- f:
	default:
		logrus.WithField("run", f.Run).Warn("overlay frame dropped")
	}
}

// Run starts the Bubble Tea program and blocks until the user quits, the
// countdown ends with ExitOnDone set, or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	sched := opts.Scheduler
	if sched == nil {
		sched = countdown.Ticker{}
	}
	frames := make(channelDisplay, frameBufferSize)
	c := countdown.New(opts.Fonts, frames, sched, opts.Countdown)
	defer c.Stop()

	model := NewModel(ctx, c, frames, opts.Background, opts.Start, opts.ExitOnDone)
	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)...)

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	if !opts.KeepLogs {
		prevOut := logrus.StandardLogger().Out
		logrus.SetOutput(io.Discard)
		defer logrus.SetOutput(prevOut)
	}

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
