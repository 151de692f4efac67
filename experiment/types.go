package experiment

import (
	"errors"
	"time"

	"github.com/Adnanskuyy/ShoppingABTest/cart"
	"github.com/Adnanskuyy/ShoppingABTest/participant"
)

var (
	// ErrAlreadyInitialized indicates Initialize was called twice.
	ErrAlreadyInitialized = errors.New("experiment already initialized")
	// ErrRunnerStopped indicates a call to a runner that is not running.
	ErrRunnerStopped = errors.New("experiment runner stopped")
	// ErrNotRunning indicates an experiment that was never started or has
	// been disposed.
	ErrNotRunning = errors.New("experiment not running")
)

// DefaultDuration is the session length when none is configured.
const DefaultDuration = 3 * time.Minute

// State is the lifecycle position of an experiment.
type State string

const (
	StateNotStarted State = "not-started"
	StateRunning    State = "running"
	StateEnded      State = "ended"
)

// Reason explains why an experiment ended.
type Reason string

const (
	ReasonConfirmed Reason = "user confirmed"
	ReasonExpired   Reason = "timer expired"
)

// Result is the frozen outcome of a finished experiment.
type Result struct {
	Code          string              `json:"code"`
	Reason        Reason              `json:"reason"`
	Elapsed       time.Duration       `json:"elapsed"`
	Items         map[string]int      `json:"items"`
	Lines         []cart.Line         `json:"lines"`
	TotalItems    int                 `json:"total_items"`
	ParticipantID string              `json:"participant_id"`
	Variant       participant.Variant `json:"variant"`
	RunID         string              `json:"run_id,omitempty"`
}
