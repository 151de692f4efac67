package interact

import (
	"github.com/Adnanskuyy/ShoppingABTest/bus"
	"github.com/Adnanskuyy/ShoppingABTest/signals"
)

// Interactor tracks what the participant is looking at.
type Interactor struct {
	bus     *bus.Bus
	focused Interactable
	canMove bool
	sub     bus.Subscription
}

// NewInteractor creates an interactor that follows SetPlayerMovement on b.
func NewInteractor(b *bus.Bus) *Interactor {
	in := &Interactor{bus: b, canMove: true}
	in.sub = bus.Listen(b, signals.SetPlayerMovement, func(enabled bool) {
		in.canMove = enabled
	})
	return in
}

// Close stops following movement changes.
func (in *Interactor) Close() {
	bus.Forget(in.bus, signals.SetPlayerMovement, in.sub)
}

// Focused returns the current target, or nil.
func (in *Interactor) Focused() Interactable {
	return in.focused
}

// CanMove reports whether movement and interaction are enabled.
func (in *Interactor) CanMove() bool {
	return in.canMove
}

// Focus looks at target. The prompt is published only when the focus
// changes. A nil target clears the focus.
func (in *Interactor) Focus(target Interactable) {
	if !in.canMove {
		return
	}
	if target == nil {
		in.Clear()
		return
	}
	if in.focused != nil && in.focused.Ref() == target.Ref() {
		return
	}
	in.focused = target
	bus.Emit(in.bus, signals.ShowInteractionPrompt, signals.Prompt{
		Target: target.Ref(),
		Text:   target.Prompt(),
	})
}

// Clear looks away from the current target.
func (in *Interactor) Clear() {
	if in.focused == nil {
		return
	}
	in.focused = nil
	bus.Emit(in.bus, signals.HideInteractionPrompt, signals.Empty{})
}

// Press interacts with the focused target.
func (in *Interactor) Press() bool {
	if !in.canMove || in.focused == nil {
		return false
	}
	return in.focused.Interact(in)
}
