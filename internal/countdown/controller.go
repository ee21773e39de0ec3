// Package countdown drives the "3, 2, 1, TYPE" overlay label. A Controller
// advances an explicit State once per period on an injected Scheduler and
// pushes a Frame to a Display after every tick.
package countdown

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/typingthrower/overlay/internal/font"
)

// Errors returned by Start.
var (
	ErrAlreadyRunning = errors.New("countdown already running")
	ErrNoFont         = errors.New("countdown font unavailable")
)

const (
	DefaultPeriod     = time.Second
	DefaultNumberSize = 24.0
	// DefaultTextScale sizes TypeLabel relative to the numbers.
	DefaultTextScale = 0.75
)

// Frame is what the overlay should show after a tick. A frame with Visible
// false removes the label; Finished is set on it only when the run counted
// all the way through, not when it was stopped or cancelled.
type Frame struct {
	Run      string
	Phase    Phase
	Text     string
	Lines    []string
	Visible  bool
	Finished bool
}

// reasonFinished marks a run that reached its last tick.
const reasonFinished = "finished"

// Display receives frames. Render is called with the controller's lock
// held: it must not block and must not call back into the Controller.
type Display interface {
	Render(f Frame)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(Frame)

// Render implements Display.
func (fn DisplayFunc) Render(f Frame) { fn(f) }

// FontSource provides fonts by name; *font.Provider implements it.
type FontSource interface {
	Font(name string) (*font.Font, error)
}

// Options configure a Controller. Zero values select the defaults.
type Options struct {
	FontName   string
	NumberSize float64
	TextScale  float64
	Period     time.Duration
	Delay      time.Duration
}

func (o Options) withDefaults() Options {
	if o.NumberSize <= 0 {
		o.NumberSize = DefaultNumberSize
	}
	if o.TextScale <= 0 {
		o.TextScale = DefaultTextScale
	}
	if o.Period <= 0 {
		o.Period = DefaultPeriod
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	return o
}

// Controller runs at most one countdown at a time. Starting while a run is
// active is rejected with ErrAlreadyRunning; a finished or stopped
// controller can be started again.
type Controller struct {
	fonts   FontSource
	display Display
	sched   Scheduler
	opts    Options

	mu         sync.Mutex
	numberFace *font.Face
	textFace   *font.Face
	state      State
	run        string
	running    bool
	cancel     func()
	stopAfter  func() bool
	done       chan struct{}
}

// New returns an idle Controller.
func New(fonts FontSource, display Display, sched Scheduler, opts Options) *Controller {
	done := make(chan struct{})
	close(done)
	return &Controller{
		fonts:   fonts,
		display: display,
		sched:   sched,
		opts:    opts.withDefaults(),
		state:   State{Phase: Done},
		done:    done,
	}
}

// Start begins a countdown from n, ticking immediately and then once per
// period. It fails fast with ErrNoFont when the countdown font cannot be
// loaded. Cancelling ctx stops the run.
func (c *Controller) Start(ctx context.Context, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrAlreadyRunning
	}
	if err := c.loadFaces(); err != nil {
		return fmt.Errorf("%w: %w", ErrNoFont, err)
	}

	run := uuid.NewString()
	c.run = run
	c.state = Begin(n)
	c.running = true
	c.done = make(chan struct{})
	c.cancel = c.sched.Schedule(ctx, c.opts.Delay, c.opts.Period, func() { c.tick(run) })
	c.stopAfter = context.AfterFunc(ctx, func() { c.stopRun(run, "context done") })

	logrus.WithFields(logrus.Fields{"run": run, "start": n, "period": c.opts.Period}).Debug("countdown started")
	return nil
}

// Stop ends the active run, hiding the label. It is safe to call at any
// time and more than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.finish("stopped")
	}
}

// Running reports whether a run is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// State returns the state the next tick will display.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run returns the ID of the current or most recent run.
func (c *Controller) Run() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run
}

// Done returns a channel closed when the current run ends. It is already
// closed when no run is active.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *Controller) loadFaces() error {
	if c.numberFace != nil && c.textFace != nil {
		return nil
	}
	f, err := c.fonts.Font(c.opts.FontName)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("font %q: provider returned nothing", c.opts.FontName)
	}
	number, err := f.Face(c.opts.NumberSize)
	if err != nil {
		return err
	}
	text, err := number.Derive(c.opts.TextScale)
	if err != nil {
		_ = number.Close()
		return err
	}
	c.numberFace, c.textFace = number, text
	return nil
}

func (c *Controller) tick(run string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || c.run != run {
		return
	}

	switch c.state.Phase {
	case Counting:
		c.show(c.numberFace)
	case Typing:
		c.show(c.textFace)
	case Done:
		c.finish(reasonFinished)
		return
	}
	c.state = c.state.Next()
}

func (c *Controller) show(face *font.Face) {
	text := c.state.Label()
	c.display.Render(Frame{
		Run:     c.run,
		Phase:   c.state.Phase,
		Text:    text,
		Lines:   face.Render(text),
		Visible: true,
	})
}

func (c *Controller) stopRun(run, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running && c.run == run {
		c.finish(reason)
	}
}

// finish hides the label and tears the run down. Callers hold c.mu.
func (c *Controller) finish(reason string) {
	c.display.Render(Frame{Run: c.run, Phase: Done, Finished: reason == reasonFinished})
	c.cancel()
	c.stopAfter()
	c.state = State{Phase: Done}
	c.running = false
	close(c.done)
	logrus.WithField("run", c.run).Debugf("countdown %s", reason)
}
