// Package hud keeps the on-screen state of a session: prompts, panels,
// notifications, counters and the timer. It changes only in response to
// bus signals and the participant's panel buttons.
package hud

import (
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Adnanskuyy/ShoppingABTest/bus"
	"github.com/Adnanskuyy/ShoppingABTest/cart"
	"github.com/Adnanskuyy/ShoppingABTest/catalog"
	"github.com/Adnanskuyy/ShoppingABTest/countdown"
	"github.com/Adnanskuyy/ShoppingABTest/internal/ui"
	"github.com/Adnanskuyy/ShoppingABTest/signals"
)

// DefaultNotificationDuration is how long a notification stays visible.
const DefaultNotificationDuration = 2500 * time.Millisecond

// Options configures a HUD.
type Options struct {
	Bus       *bus.Bus
	Scheduler *countdown.Scheduler
	// Add is called with the panel's product when the participant adds it.
	// Defaults to publishing AddToCartRequested.
	Add                  func(catalog.Product)
	NotificationDuration time.Duration
	Logger               *zap.Logger
}

// HUD is the presentation state of one session.
type HUD struct {
	bus       *bus.Bus
	scheduler *countdown.Scheduler
	add       func(catalog.Product)
	noteFor   time.Duration
	logger    *zap.Logger

	prompt      *signals.Prompt
	panel       *signals.ProductPanel
	confirm     bool
	note        string
	noteTimer   *countdown.Countdown
	lines       []cart.Line
	items       map[string]int
	total       int
	remaining   time.Duration
	canMove     bool
	ended       *signals.Ended
	unsubscribe []func()
}

// View is a snapshot of the HUD for rendering.
type View struct {
	Prompt         string           `json:"prompt,omitempty"`
	Panel          *catalog.Product `json:"panel,omitempty"`
	PanelSource    string           `json:"panel_source,omitempty"`
	ConfirmVisible bool             `json:"confirm_visible"`
	Notification   string           `json:"notification,omitempty"`
	Lines          []cart.Line      `json:"lines"`
	Items          map[string]int   `json:"items"`
	TotalItems     int              `json:"total_items"`
	Remaining      time.Duration    `json:"remaining"`
	Clock          string           `json:"clock"`
	CanMove        bool             `json:"can_move"`
	Ended          bool             `json:"ended"`
	Code           string           `json:"code,omitempty"`
	Reason         string           `json:"reason,omitempty"`
}

// New creates a HUD and subscribes it to b.
func New(opts Options) *HUD {
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = countdown.NewScheduler()
	}
	noteFor := opts.NotificationDuration
	if noteFor <= 0 {
		noteFor = DefaultNotificationDuration
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &HUD{
		bus:       opts.Bus,
		scheduler: scheduler,
		add:       opts.Add,
		noteFor:   noteFor,
		logger:    logger,
		items:     map[string]int{},
		canMove:   true,
	}
	if h.add == nil {
		h.add = func(product catalog.Product) {
			bus.Emit(h.bus, signals.AddToCartRequested, product)
		}
	}
	h.subscribe()
	return h
}

func (h *HUD) subscribe() {
	on := func(forget func()) {
		h.unsubscribe = append(h.unsubscribe, forget)
	}
	listen(h, on, signals.ShowInteractionPrompt, h.onShowPrompt)
	listen(h, on, signals.HideInteractionPrompt, func(signals.Empty) { h.prompt = nil })
	listen(h, on, signals.ShowProductPanel, h.onShowPanel)
	listen(h, on, signals.HideProductPanel, func(signals.Empty) { h.onHidePanel() })
	listen(h, on, signals.UpdateTimer, func(remaining time.Duration) { h.remaining = remaining })
	listen(h, on, signals.SetPlayerMovement, func(enabled bool) { h.canMove = enabled })
	listen(h, on, signals.CartUpdated, h.onCartUpdated)
	listen(h, on, signals.ShowConfirmPanel, func(signals.Empty) {
		if h.ended == nil {
			h.confirm = true
		}
	})
	listen(h, on, signals.HideConfirmPanel, func(signals.Empty) { h.confirm = false })
	listen(h, on, signals.ShowNotification, h.onShowNotification)
	listen(h, on, signals.HideNotification, func(signals.Empty) { h.note = "" })
	listen(h, on, signals.ExperimentEnded, h.onEnded)
}

func listen[T any](h *HUD, on func(func()), topic bus.Topic[T], fn func(T)) {
	sub := bus.Listen(h.bus, topic, fn)
	on(func() { bus.Forget(h.bus, topic, sub) })
}

// Dispose unsubscribes from the bus and cancels the notification timer.
func (h *HUD) Dispose() {
	for _, forget := range h.unsubscribe {
		forget()
	}
	h.unsubscribe = nil
	if h.noteTimer != nil {
		h.noteTimer.Stop()
		h.noteTimer = nil
	}
}

func (h *HUD) onShowPrompt(prompt signals.Prompt) {
	if h.panel != nil || h.ended != nil {
		return
	}
	h.prompt = &prompt
}

func (h *HUD) onShowPanel(panel signals.ProductPanel) {
	if h.ended != nil {
		return
	}
	h.prompt = nil
	h.panel = &panel
	bus.Emit(h.bus, signals.SetPlayerMovement, false)
}

func (h *HUD) onHidePanel() {
	if h.panel == nil {
		return
	}
	h.panel = nil
	if h.ended == nil {
		bus.Emit(h.bus, signals.SetPlayerMovement, true)
	}
}

func (h *HUD) onCartUpdated(update signals.CartUpdate) {
	h.items = update.Items
	h.lines = update.Lines
	h.total = update.Total
}

func (h *HUD) onShowNotification(note signals.Notification) {
	if h.noteTimer != nil {
		h.noteTimer.Stop()
		h.noteTimer = nil
	}
	h.note = note.Text
	duration := note.Duration
	if duration <= 0 {
		duration = h.noteFor
	}
	timer, err := h.scheduler.After(duration, func() {
		h.noteTimer = nil
		bus.Emit(h.bus, signals.HideNotification, signals.Empty{})
	})
	if err != nil {
		h.logger.Warn("notification timer not started", zap.Error(err))
		return
	}
	h.noteTimer = timer
}

func (h *HUD) onEnded(ended signals.Ended) {
	h.ended = &ended
	h.prompt = nil
	h.panel = nil
	h.confirm = false
	h.canMove = false
}

// Close dismisses the product panel and re-enables movement.
func (h *HUD) Close() {
	if h.panel == nil {
		return
	}
	bus.Emit(h.bus, signals.HideProductPanel, signals.Empty{})
}

// AddSelected adds the panel's product and closes the panel. It reports
// whether a panel was open.
func (h *HUD) AddSelected() bool {
	if h.panel == nil || h.ended != nil {
		return false
	}
	product := h.panel.Product
	h.add(product)
	h.Close()
	return true
}

// PanelOpen reports whether the product panel is visible.
func (h *HUD) PanelOpen() bool {
	return h.panel != nil
}

// View returns a snapshot of the HUD.
func (h *HUD) View() View {
	view := View{
		ConfirmVisible: h.confirm,
		Notification:   h.note,
		Lines:          slices.Clone(h.lines),
		Items:          maps.Clone(h.items),
		TotalItems:     h.total,
		Remaining:      h.remaining,
		Clock:          ui.FormatClock(h.remaining),
		CanMove:        h.canMove,
	}
	if view.Lines == nil {
		view.Lines = []cart.Line{}
	}
	if h.prompt != nil {
		view.Prompt = h.prompt.Text
	}
	if h.panel != nil {
		product := h.panel.Product
		view.Panel = &product
		view.PanelSource = h.panel.Source
	}
	if h.ended != nil {
		view.Ended = true
		view.Code = h.ended.Code
		view.Reason = h.ended.Reason
	}
	return view
}
