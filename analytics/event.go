// Package analytics records experiment events and forwards them to sinks.
package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/Adnanskuyy/ShoppingABTest/participant"
)

// Event names reported to the analytics service.
const (
	EventSessionStart = "Session_Start"
	EventProductAdded = "Product_Added_To_Cart"
)

// Parameter keys.
const (
	ParamVariant       = "Variant"
	ParamParticipantID = "ParticipantID"
	ParamProductName   = "ProductName"
)

// Event is one analytics record.
type Event struct {
	ID     string            `json:"id"`
	RunID  string            `json:"run_id,omitempty"`
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
	Time   time.Time         `json:"time"`
}

// NewEvent creates an event with a fresh id.
func NewEvent(runID, name string, params map[string]string, at time.Time) Event {
	return Event{
		ID:     uuid.NewString(),
		RunID:  runID,
		Name:   name,
		Params: params,
		Time:   at.UTC(),
	}
}

// SessionStart reports the resolved session.
func SessionStart(runID string, session participant.Session, at time.Time) Event {
	return NewEvent(runID, EventSessionStart, map[string]string{
		ParamVariant:       session.Variant().Label(),
		ParamParticipantID: session.ID(),
	}, at)
}

// ProductAdded reports a product added to the cart.
func ProductAdded(runID string, session participant.Session, product string, at time.Time) Event {
	return NewEvent(runID, EventProductAdded, map[string]string{
		ParamProductName:   product,
		ParamParticipantID: session.ID(),
		ParamVariant:       session.Variant().Label(),
	}, at)
}

// Variant returns the variant label carried by the event, if any.
func (e Event) Variant() string {
	return e.Params[ParamVariant]
}
