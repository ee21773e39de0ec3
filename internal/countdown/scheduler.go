package countdown

import (
	"context"
	"time"
)

// Scheduler runs a task repeatedly at a fixed period after an initial delay
// until the returned cancel func is called or ctx is done. Cancel may be
// called from inside the task.
type Scheduler interface {
	Schedule(ctx context.Context, delay, period time.Duration, task func()) (cancel func())
}

// Ticker is the wall-clock Scheduler. Each schedule owns one goroutine.
type Ticker struct{}

// Schedule implements Scheduler.
func (Ticker) Schedule(ctx context.Context, delay, period time.Duration, task func()) func() {
	if period <= 0 {
		period = DefaultPeriod
	}
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		}

		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			if ctx.Err() != nil {
				return
			}
			task()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}
