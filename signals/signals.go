// Package signals declares the typed bus topics exchanged between the
// experiment core and its presentation layers.
package signals

import (
	"time"

	"github.com/Adnanskuyy/ShoppingABTest/bus"
	"github.com/Adnanskuyy/ShoppingABTest/catalog"
)

// Prompt asks the presentation layer to show an interaction hint.
type Prompt struct {
	Target string
	Text   string
}

// ProductPanel opens the detail panel for a product.
type ProductPanel struct {
	Product catalog.Product
	// Source identifies the scene object the panel was opened from.
	Source string
}

// CartLine is one product and its quantity.
type CartLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CartUpdate carries a full snapshot of the cart after an add.
type CartUpdate struct {
	Items map[string]int
	// Lines lists the items in insertion order.
	Lines []CartLine
	Added string
	Total int
}

// Ended reports the completion code of a finished experiment.
type Ended struct {
	Code   string
	Reason string
}

// Notification is a transient message shown to the participant.
type Notification struct {
	Text     string
	Duration time.Duration
}

// Empty is the payload of channels that carry no data.
type Empty struct{}

// Presentation topics, produced by the core.
var (
	ShowInteractionPrompt = bus.NewTopic[Prompt]("ShowInteractionPrompt")
	HideInteractionPrompt = bus.NewTopic[Empty]("HideInteractionPrompt")
	ShowProductPanel      = bus.NewTopic[ProductPanel]("ShowProductPanel")
	HideProductPanel      = bus.NewTopic[Empty]("HideProductPanel")
	UpdateTimer           = bus.NewTopic[time.Duration]("UpdateTimer")
	SetPlayerMovement     = bus.NewTopic[bool]("SetPlayerMovement")
	CartUpdated           = bus.NewTopic[CartUpdate]("CartUpdated")
	ExperimentEnded       = bus.NewTopic[Ended]("ExperimentEnded")
	ShowConfirmPanel      = bus.NewTopic[Empty]("ShowConfirmPanel")
	HideConfirmPanel      = bus.NewTopic[Empty]("HideConfirmPanel")
	ShowNotification      = bus.NewTopic[Notification]("ShowNotification")
	HideNotification      = bus.NewTopic[Empty]("HideNotification")
)

// Input topics, consumed by the experiment controller.
var (
	AddToCartRequested = bus.NewTopic[catalog.Product]("AddToCartRequested")
	EndRequested       = bus.NewTopic[Empty]("EndRequested")
	EndConfirmed       = bus.NewTopic[Empty]("EndConfirmed")
	EndCancelled       = bus.NewTopic[Empty]("EndCancelled")
)
