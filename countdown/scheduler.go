package countdown

import (
	"slices"
	"time"
)

// Scheduler ticks a set of countdowns from one external driver.
type Scheduler struct {
	entries []*Countdown
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers c. Countdowns are ticked in the order they were added;
// adding one that is already registered does nothing.
func (s *Scheduler) Add(c *Countdown) {
	if c == nil || slices.Contains(s.entries, c) {
		return
	}
	s.entries = append(s.entries, c)
}

// After schedules fn to run once d of ticked time has passed. The returned
// countdown can be stopped to cancel it.
func (s *Scheduler) After(d time.Duration, fn func()) (*Countdown, error) {
	c := &Countdown{OnExpire: fn}
	if err := c.Start(d); err != nil {
		return nil, err
	}
	s.Add(c)
	return c, nil
}

// Tick advances every live countdown by dt and forgets the finished ones.
// Countdowns added by a callback during Tick start with the next Tick.
func (s *Scheduler) Tick(dt time.Duration) {
	current := slices.Clone(s.entries)
	for _, c := range current {
		c.Tick(dt)
	}
	s.entries = slices.DeleteFunc(s.entries, func(c *Countdown) bool {
		return c.State().Done()
	})
}

// Len returns the number of registered countdowns that have not finished.
func (s *Scheduler) Len() int {
	n := 0
	for _, c := range s.entries {
		if !c.State().Done() {
			n++
		}
	}
	return n
}
