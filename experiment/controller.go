// Package experiment runs one shopping session from setup to completion
// code.
package experiment

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Adnanskuyy/ShoppingABTest/analytics"
	"github.com/Adnanskuyy/ShoppingABTest/bus"
	"github.com/Adnanskuyy/ShoppingABTest/cart"
	"github.com/Adnanskuyy/ShoppingABTest/catalog"
	"github.com/Adnanskuyy/ShoppingABTest/countdown"
	"github.com/Adnanskuyy/ShoppingABTest/participant"
	"github.com/Adnanskuyy/ShoppingABTest/signals"
)

// Options configures a Controller.
type Options struct {
	Bus *bus.Bus
	// Scheduler ticks the session countdown. Other countdowns may share it.
	Scheduler *countdown.Scheduler
	Source    participant.Source
	Sink      analytics.Sink
	// Duration defaults to DefaultDuration.
	Duration time.Duration
	// PauseOnConfirm freezes the countdown while the end confirmation is
	// open.
	PauseOnConfirm bool
	Logger         *zap.Logger
	RunID          string
	// Now stamps analytics events. Defaults to time.Now.
	Now func() time.Time
}

// Controller is the session state machine. It is not safe for concurrent
// use; see Runner.
type Controller struct {
	bus            *bus.Bus
	scheduler      *countdown.Scheduler
	source         participant.Source
	sink           analytics.Sink
	duration       time.Duration
	pauseOnConfirm bool
	logger         *zap.Logger
	runID          string
	now            func() time.Time

	ctx       context.Context
	state     State
	ending    bool
	disposed  bool
	session   participant.Session
	cart      *cart.Cart
	timer     *countdown.Countdown
	lastAdded *catalog.Product
	confirm   bool
	paused    bool
	result    *Result
	subs      []func()
}

// New creates a controller. Nothing happens until Initialize.
func New(opts Options) *Controller {
	b := opts.Bus
	if b == nil {
		b = bus.New(bus.Options{Logger: opts.Logger})
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = countdown.NewScheduler()
	}
	sink := opts.Sink
	if sink == nil {
		sink = analytics.Nop{}
	}
	duration := opts.Duration
	if duration == 0 {
		duration = DefaultDuration
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		bus:            b,
		scheduler:      scheduler,
		source:         opts.Source,
		sink:           sink,
		duration:       duration,
		pauseOnConfirm: opts.PauseOnConfirm,
		logger:         logger,
		runID:          opts.RunID,
		now:            now,
		state:          StateNotStarted,
		cart:           cart.New(b),
	}
}

// Initialize starts the countdown, resolves the participant, reports the
// session start and begins listening for input. A countdown that cannot
// start leaves the controller untouched.
func (c *Controller) Initialize(ctx context.Context) error {
	if c.state != StateNotStarted || c.disposed {
		return ErrAlreadyInitialized
	}
	timer := &countdown.Countdown{
		OnTick: func(remaining time.Duration) {
			bus.Emit(c.bus, signals.UpdateTimer, remaining)
		},
		OnExpire: func() {
			c.terminate(ReasonExpired)
		},
	}
	if err := timer.Start(c.duration); err != nil {
		return fmt.Errorf("start countdown: %w", err)
	}
	c.ctx = ctx

	c.session = participant.Resolve(c.source)
	if err := c.session.Err(); err != nil {
		c.logger.Warn("participant bootstrap failed; using defaults",
			zap.String("participant", c.session.ID()),
			zap.Error(err),
		)
	}
	c.logger.Info("session started",
		zap.String("participant", c.session.ID()),
		zap.String("variant", c.session.Variant().String()),
		zap.String("run", c.runID),
	)

	c.cart = cart.New(c.bus)
	c.timer = timer
	c.scheduler.Add(timer)
	c.report(analytics.SessionStart(c.runID, c.session, c.now()))

	c.listen()
	c.state = StateRunning
	return nil
}

func (c *Controller) listen() {
	addSub := bus.Listen(c.bus, signals.AddToCartRequested, c.AddItemToCart)
	requestSub := bus.Listen(c.bus, signals.EndRequested, func(signals.Empty) { c.RequestEnd() })
	confirmSub := bus.Listen(c.bus, signals.EndConfirmed, func(signals.Empty) { c.ConfirmEnd() })
	cancelSub := bus.Listen(c.bus, signals.EndCancelled, func(signals.Empty) { c.CancelEnd() })
	c.subs = append(c.subs,
		func() { bus.Forget(c.bus, signals.AddToCartRequested, addSub) },
		func() { bus.Forget(c.bus, signals.EndRequested, requestSub) },
		func() { bus.Forget(c.bus, signals.EndConfirmed, confirmSub) },
		func() { bus.Forget(c.bus, signals.EndCancelled, cancelSub) },
	)
}

// Tick advances the scheduler, and with it the session countdown.
func (c *Controller) Tick(dt time.Duration) {
	c.scheduler.Tick(dt)
}

// AddItemToCart adds product to the cart and reports it.
func (c *Controller) AddItemToCart(product catalog.Product) {
	if !c.active("add item") {
		return
	}
	c.lastAdded = &product
	c.cart.Add(product.Name)
	c.report(analytics.ProductAdded(c.runID, c.session, product.Name, c.now()))
	bus.Emit(c.bus, signals.ShowNotification, signals.Notification{
		Text: fmt.Sprintf("%s has been added to cart.", product.Name),
	})
}

// RequestEnd asks the participant to confirm finishing early.
func (c *Controller) RequestEnd() {
	if !c.active("request end") {
		return
	}
	c.confirm = true
	if c.pauseOnConfirm && !c.timer.Paused() {
		c.timer.Pause()
		c.paused = true
	}
	bus.Emit(c.bus, signals.ShowConfirmPanel, signals.Empty{})
}

// CancelEnd dismisses the confirmation and keeps shopping.
func (c *Controller) CancelEnd() {
	if !c.active("cancel end") {
		return
	}
	c.confirm = false
	if c.paused {
		c.timer.Resume()
		c.paused = false
	}
	bus.Emit(c.bus, signals.HideConfirmPanel, signals.Empty{})
}

// ConfirmEnd finishes the experiment.
func (c *Controller) ConfirmEnd() {
	if !c.active("confirm end") {
		return
	}
	c.terminate(ReasonConfirmed)
}

// Dispose stops listening for input and stops the countdown. It does not
// end the experiment.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	for _, forget := range c.subs {
		forget()
	}
	c.subs = nil
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Controller) terminate(reason Reason) {
	if c.state != StateRunning || c.ending {
		c.logger.Debug("termination ignored", zap.String("reason", string(reason)), zap.String("state", string(c.state)))
		return
	}
	c.ending = true
	c.timer.Stop()
	bus.Emit(c.bus, signals.SetPlayerMovement, false)

	elapsed := c.timer.Elapsed()
	total := c.cart.Total()
	code := CompletionCode(c.session.ID(), elapsed, total)
	c.result = &Result{
		Code:          code,
		Reason:        reason,
		Elapsed:       elapsed,
		Items:         c.cart.Items(),
		Lines:         c.cart.Lines(),
		TotalItems:    total,
		ParticipantID: c.session.ID(),
		Variant:       c.session.Variant(),
		RunID:         c.runID,
	}
	c.confirm = false
	c.state = StateEnded
	c.logger.Info("experiment ended",
		zap.String("code", code),
		zap.String("reason", string(reason)),
		zap.Duration("elapsed", elapsed),
		zap.Int("items", total),
	)
	bus.Emit(c.bus, signals.ExperimentEnded, signals.Ended{Code: code, Reason: string(reason)})
}

func (c *Controller) active(op string) bool {
	if c.state == StateRunning && !c.ending && !c.disposed {
		return true
	}
	c.logger.Debug("operation ignored",
		zap.String("op", op),
		zap.String("state", string(c.state)),
		zap.Bool("disposed", c.disposed),
	)
	return false
}

func (c *Controller) report(event analytics.Event) {
	defer func() {
		if recovered := recover(); recovered != nil {
			c.logger.Error("analytics sink panicked",
				zap.String("event", event.Name),
				zap.Any("panic", recovered),
			)
		}
	}()
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.sink.Send(ctx, event); err != nil {
		c.logger.Warn("analytics delivery failed",
			zap.String("event", event.Name),
			zap.Error(err),
		)
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool {
	return c.disposed
}

// Session returns the resolved participant session. It is the zero value
// before Initialize.
func (c *Controller) Session() participant.Session {
	return c.session
}

// RunID returns the identifier analytics events are tagged with.
func (c *Controller) RunID() string {
	return c.runID
}

// Items returns a copy of the cart contents.
func (c *Controller) Items() map[string]int {
	return c.cart.Items()
}

// Lines returns the cart contents in insertion order.
func (c *Controller) Lines() []cart.Line {
	return c.cart.Lines()
}

// TotalItems returns the number of items in the cart.
func (c *Controller) TotalItems() int {
	return c.cart.Total()
}

// LastAdded returns the most recently added product.
func (c *Controller) LastAdded() (catalog.Product, bool) {
	if c.lastAdded == nil {
		return catalog.Product{}, false
	}
	return *c.lastAdded, true
}

// ConfirmOpen reports whether an end request awaits an answer.
func (c *Controller) ConfirmOpen() bool {
	return c.confirm
}

// Remaining returns the time left on the countdown.
func (c *Controller) Remaining() time.Duration {
	if c.timer == nil {
		return c.duration
	}
	return c.timer.Remaining()
}

// Elapsed returns the time counted so far.
func (c *Controller) Elapsed() time.Duration {
	if c.timer == nil {
		return 0
	}
	return c.timer.Elapsed()
}

// Result returns the outcome once the experiment has ended.
func (c *Controller) Result() (Result, bool) {
	if c.result == nil {
		return Result{}, false
	}
	result := *c.result
	result.Items = maps.Clone(result.Items)
	result.Lines = slices.Clone(result.Lines)
	return result, true
}
