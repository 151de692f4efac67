// Package scene wires one complete shopping session: the bus, the shared
// scheduler, the products on the shelves, the participant's interactor,
// the HUD and the experiment controller.
package scene

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Adnanskuyy/ShoppingABTest/analytics"
	"github.com/Adnanskuyy/ShoppingABTest/bus"
	"github.com/Adnanskuyy/ShoppingABTest/catalog"
	"github.com/Adnanskuyy/ShoppingABTest/countdown"
	"github.com/Adnanskuyy/ShoppingABTest/experiment"
	"github.com/Adnanskuyy/ShoppingABTest/hud"
	"github.com/Adnanskuyy/ShoppingABTest/interact"
	"github.com/Adnanskuyy/ShoppingABTest/participant"
	"github.com/Adnanskuyy/ShoppingABTest/signals"
)

// ErrUnknownProduct indicates a product name that is not on the shelves.
var ErrUnknownProduct = errors.New("unknown product")

// Options configures a Scene.
type Options struct {
	Catalog              *catalog.Catalog
	Source               participant.Source
	Sink                 analytics.Sink
	Duration             time.Duration
	PauseOnConfirm       bool
	NotificationDuration time.Duration
	RunID                string
	Logger               *zap.Logger
	Now                  func() time.Time
}

// Scene is one session with all of its collaborators.
type Scene struct {
	Bus        *bus.Bus
	Scheduler  *countdown.Scheduler
	Catalog    *catalog.Catalog
	Products   []*interact.Product
	Interactor *interact.Interactor
	HUD        *hud.HUD
	Controller *experiment.Controller

	logger *zap.Logger
}

// New builds the scene. Call Initialize to start the session.
func New(opts Options) *Scene {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	b := bus.New(bus.Options{Logger: logger.Named("bus")})
	scheduler := countdown.NewScheduler()

	s := &Scene{
		Bus:       b,
		Scheduler: scheduler,
		Catalog:   cat,
		Products:  interact.Scene(b, cat),
		logger:    logger,
	}
	s.HUD = hud.New(hud.Options{
		Bus:                  b,
		Scheduler:            scheduler,
		NotificationDuration: opts.NotificationDuration,
		Logger:               logger.Named("hud"),
	})
	s.Interactor = interact.NewInteractor(b)
	s.Controller = experiment.New(experiment.Options{
		Bus:            b,
		Scheduler:      scheduler,
		Source:         opts.Source,
		Sink:           opts.Sink,
		Duration:       opts.Duration,
		PauseOnConfirm: opts.PauseOnConfirm,
		Logger:         logger.Named("experiment"),
		RunID:          opts.RunID,
		Now:            opts.Now,
	})
	return s
}

// Initialize starts the session.
func (s *Scene) Initialize(ctx context.Context) error {
	return s.Controller.Initialize(ctx)
}

// Dispose detaches every component from the bus.
func (s *Scene) Dispose() {
	s.Controller.Dispose()
	s.HUD.Dispose()
	s.Interactor.Close()
}

// Tick advances the shared scheduler.
func (s *Scene) Tick(dt time.Duration) {
	s.Controller.Tick(dt)
}

// Product finds a product on the shelves by name.
func (s *Scene) Product(name string) (*interact.Product, error) {
	item, err := s.Catalog.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, name)
	}
	for _, product := range s.Products {
		if product.Item.Name == item.Name {
			return product, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, name)
}

// Look focuses the named product.
func (s *Scene) Look(name string) error {
	product, err := s.Product(name)
	if err != nil {
		return err
	}
	s.Interactor.Focus(product)
	return nil
}

// LookAway clears the focus.
func (s *Scene) LookAway() {
	s.Interactor.Clear()
}

// Interact presses the interact key on the focused product.
func (s *Scene) Interact() bool {
	return s.Interactor.Press()
}

// Buy adds the product in the open panel.
func (s *Scene) Buy() bool {
	return s.HUD.AddSelected()
}

// Close dismisses the product panel.
func (s *Scene) Close() {
	s.HUD.Close()
}

// Add requests the named product be added without opening its panel.
func (s *Scene) Add(name string) error {
	product, err := s.Product(name)
	if err != nil {
		return err
	}
	bus.Emit(s.Bus, signals.AddToCartRequested, product.Item)
	return nil
}

// RequestEnd asks to finish early.
func (s *Scene) RequestEnd() {
	bus.Emit(s.Bus, signals.EndRequested, signals.Empty{})
}

// ConfirmEnd answers yes to the finish confirmation.
func (s *Scene) ConfirmEnd() {
	bus.Emit(s.Bus, signals.EndConfirmed, signals.Empty{})
}

// CancelEnd answers no to the finish confirmation.
func (s *Scene) CancelEnd() {
	bus.Emit(s.Bus, signals.EndCancelled, signals.Empty{})
}

// Ended reports whether the session is over.
func (s *Scene) Ended() bool {
	return s.Controller.State() == experiment.StateEnded
}

// Snapshot is the complete observable state of a scene.
type Snapshot struct {
	RunID         string              `json:"run_id,omitempty"`
	ParticipantID string              `json:"participant_id"`
	Variant       participant.Variant `json:"variant"`
	ShowTrolley   bool                `json:"show_trolley"`
	State         experiment.State    `json:"state"`
	Focused       string              `json:"focused,omitempty"`
	HUD           hud.View            `json:"hud"`
	Result        *experiment.Result  `json:"result,omitempty"`
}

// Snapshot captures the scene for rendering.
func (s *Scene) Snapshot() Snapshot {
	session := s.Controller.Session()
	snap := Snapshot{
		RunID:         s.Controller.RunID(),
		ParticipantID: session.ID(),
		Variant:       session.Variant(),
		ShowTrolley:   session.Variant().ShowsTrolley(),
		State:         s.Controller.State(),
		HUD:           s.HUD.View(),
	}
	if focused := s.Interactor.Focused(); focused != nil {
		snap.Focused = focused.Ref()
	}
	if result, ok := s.Controller.Result(); ok {
		snap.Result = &result
	}
	return snap
}
