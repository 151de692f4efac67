package experiment

import (
	"context"
	"sync"
	"time"
)

// Ticker is advanced by elapsed wall-clock time.
type Ticker interface {
	Tick(dt time.Duration)
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Interval between ticks. Defaults to 100ms.
	Interval time.Duration
}

// Runner owns a Ticker on a single goroutine. Ticks and every call made
// through Do run on that goroutine, one at a time.
type Runner struct {
	target   Ticker
	interval time.Duration

	calls   chan call
	started sync.Once
	stopped chan struct{}
}

type call struct {
	fn   func()
	done chan struct{}
}

// NewRunner wraps target.
func NewRunner(target Ticker, opts RunnerOptions) *Runner {
	interval := opts.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Runner{
		target:   target,
		interval: interval,
		calls:    make(chan call),
		stopped:  make(chan struct{}),
	}
}

// Run ticks the target with the wall-clock time elapsed since the last
// tick and serves Do calls until ctx ends. A runner runs at most once.
func (r *Runner) Run(ctx context.Context) error {
	ran := false
	r.started.Do(func() { ran = true })
	if !ran {
		return ErrRunnerStopped
	}
	defer close(r.stopped)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			r.target.Tick(now.Sub(last))
			last = now
		case c := <-r.calls:
			c.fn()
			close(c.done)
		}
	}
}

// Do runs fn on the runner goroutine and waits for it to finish.
func (r *Runner) Do(ctx context.Context, fn func()) error {
	c := call{fn: fn, done: make(chan struct{})}
	select {
	case r.calls <- c:
	case <-r.stopped:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-c.done
	return nil
}
