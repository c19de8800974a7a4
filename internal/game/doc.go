// Package game implements the game controller: the state machine, cycle
// scheduler and scoring rules of a Whac-a-Console session.
//
// The [Controller] is the only owner of the game state and score. It talks to
// the target generator exclusively through the event bus: it publishes
// state-update events (started, stopped, new-cycle) and consumes target-click
// events. Presentation side effects go to a [shell.Shell] and are best-effort.
//
// # Cycles
//
// A session runs a heartbeat of cycles. Each tick scores the cycle that just
// ended (an expired cycle costs 5 points), announces a new cycle, and arms the
// next tick after the cycle period. A click cuts the cycle short: it is scored
// (+10 or -10) and the next tick is re-armed after the shorter hold delay.
//
// Only one tick is ever pending. Ticks are armed through a [schedule.Slot]
// whose tokens let a tick that already started running detect that it was
// superseded or that the session stopped.
//
// # Concurrency
//
// Controller methods are safe for concurrent use. State changes happen under a
// mutex; bus publications and shell calls are queued under that mutex and run
// in order once it is released, so a synchronous bus subscriber may call back
// into the controller.
package game
