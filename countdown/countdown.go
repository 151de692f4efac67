// Package countdown implements cooperative, externally ticked timers.
package countdown

import (
	"errors"
	"time"
)

var (
	// ErrInvalidDuration indicates Start was given a non-positive duration.
	ErrInvalidDuration = errors.New("countdown duration must be positive")
	// ErrAlreadyStarted indicates Start was called on a used countdown.
	ErrAlreadyStarted = errors.New("countdown already started")
)

// State is the lifecycle position of a countdown.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateExpired State = "expired"
	StateStopped State = "stopped"
)

// Done reports whether the countdown will never tick again.
func (s State) Done() bool {
	return s == StateExpired || s == StateStopped
}

// Countdown counts elapsed time toward a fixed duration. It never reads the
// clock: time only passes through Tick.
type Countdown struct {
	// OnTick receives the remaining time after every effective tick and
	// once when the countdown starts.
	OnTick func(remaining time.Duration)
	// OnExpire runs once when the elapsed time reaches the duration.
	OnExpire func()

	state    State
	paused   bool
	duration time.Duration
	elapsed  time.Duration
}

// Start moves an idle countdown to running with zero elapsed time.
func (c *Countdown) Start(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidDuration
	}
	if c.State() != StateIdle {
		return ErrAlreadyStarted
	}
	c.state = StateRunning
	c.duration = d
	c.elapsed = 0
	if c.OnTick != nil {
		c.OnTick(d)
	}
	return nil
}

// Tick advances a running, unpaused countdown by dt. Negative deltas and
// ticks in any other state are ignored.
func (c *Countdown) Tick(dt time.Duration) {
	if c.state != StateRunning || c.paused || dt < 0 {
		return
	}
	c.elapsed += dt
	if c.elapsed > c.duration {
		c.elapsed = c.duration
	}
	if c.OnTick != nil {
		c.OnTick(c.Remaining())
	}
	// OnTick may have stopped the countdown.
	if c.state == StateRunning && c.elapsed >= c.duration {
		c.state = StateExpired
		if c.OnExpire != nil {
			c.OnExpire()
		}
	}
}

// Pause freezes elapsed time until Resume.
func (c *Countdown) Pause() {
	if c.state == StateRunning {
		c.paused = true
	}
}

// Resume undoes Pause.
func (c *Countdown) Resume() {
	c.paused = false
}

// Stop halts the countdown in any state. No callbacks run afterward.
func (c *Countdown) Stop() {
	if c.state == StateExpired {
		return
	}
	c.state = StateStopped
	c.paused = false
}

// State returns the lifecycle state.
func (c *Countdown) State() State {
	if c.state == "" {
		return StateIdle
	}
	return c.state
}

// Paused reports whether ticks are currently ignored.
func (c *Countdown) Paused() bool {
	return c.paused
}

// Duration returns the configured total.
func (c *Countdown) Duration() time.Duration {
	return c.duration
}

// Elapsed returns the time counted so far.
func (c *Countdown) Elapsed() time.Duration {
	return c.elapsed
}

// Remaining returns duration minus elapsed, never negative.
func (c *Countdown) Remaining() time.Duration {
	return c.duration - c.elapsed
}
