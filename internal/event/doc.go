// Package event provides the pub-sub event bus that decouples the game
// controller from the target surface.
//
// The controller publishes state-updates; the target generator reacts to them
// and publishes target-clicks; the controller reacts to those. Neither side
// holds a reference to the other.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//   - [Envelope]: JSON wire form used by the websocket bridge
//
// # Events
//
//   - [StateUpdateEvent] ("state-update"): session start/stop and new-cycle announcements
//   - [TargetClickEvent] ("target-click"): the outcome of the user's selection
//
// Payload shape is fixed by the Go type, so a mismatched payload cannot be
// constructed in-process. On the wire, [Decode] rejects unknown types and
// states with a protocol error instead of guessing.
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called synchronously
// on the publisher's goroutine and protected against panics - a panicking
// handler will not prevent other handlers from being called.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//
//	bus.Subscribe(event.TypeStateUpdate, func(e event.Event) {
//	    su := e.(event.StateUpdateEvent)
//	    if su.State == event.StateNewCycle {
//	        field.Regenerate(su.Cycle)
//	    }
//	})
//
//	bus.Publish(event.NewTargetClickEvent(true, 3))
package event
