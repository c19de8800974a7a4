// Package event defines the game's event types and the bus that carries them
// between the game controller and the target surface.
package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns the wire identifier for this event type
	// (e.g., "state-update", "target-click").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers. These are also the "type" values on the wire.
const (
	TypeStateUpdate = "state-update"
	TypeTargetClick = "target-click"
)

// NoCycle marks an event that is not bound to a specific cycle.
const NoCycle = -1

// GameState is the value carried by a state-update event.
type GameState string

const (
	StateStopped  GameState = "stopped"
	StateStarted  GameState = "started"
	StateNewCycle GameState = "new-cycle"
)

// Valid reports whether s is one of the known game states.
func (s GameState) Valid() bool {
	switch s {
	case StateStopped, StateStarted, StateNewCycle:
		return true
	}
	return false
}

func (s GameState) String() string { return string(s) }

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Game Events
// -----------------------------------------------------------------------------

// StateUpdateEvent announces a session or cycle transition.
type StateUpdateEvent struct {
	baseEvent
	State GameState // New state
	Cycle int       // Index of the announced cycle for new-cycle, NoCycle otherwise
}

// NewStateUpdateEvent creates a StateUpdateEvent that is not tied to a cycle.
func NewStateUpdateEvent(state GameState) StateUpdateEvent {
	return StateUpdateEvent{
		baseEvent: newBaseEvent(TypeStateUpdate),
		State:     state,
		Cycle:     NoCycle,
	}
}

// NewCycleEvent creates the state-update announcing cycle index.
func NewCycleEvent(index int) StateUpdateEvent {
	return StateUpdateEvent{
		baseEvent: newBaseEvent(TypeStateUpdate),
		State:     StateNewCycle,
		Cycle:     index,
	}
}

// TargetClickEvent reports the outcome of the user's selection.
type TargetClickEvent struct {
	baseEvent
	IsValidTargetHit bool // Whether the selected target was the valid one
	Cycle            int  // Cycle the selection answers, NoCycle if unknown
}

// NewTargetClickEvent creates a TargetClickEvent for the given cycle.
func NewTargetClickEvent(valid bool, cycle int) TargetClickEvent {
	return TargetClickEvent{
		baseEvent:        newBaseEvent(TypeTargetClick),
		IsValidTargetHit: valid,
		Cycle:            cycle,
	}
}
