// Package bridge exposes a game session over HTTP and websockets.
//
// A websocket client at GET /ws receives every state-update published on the
// bus, encoded as an [event.Envelope]. It may send target-click envelopes,
// which are published on the bus as if a local target generator had produced
// them, and started/stopped state-updates, which drive the [Host]. Any other
// inbound envelope is a protocol violation: it is logged and the connection
// stays open.
//
// Plain HTTP endpoints cover hosts without websocket support:
//
//	GET  /state   current snapshot as JSON
//	POST /start   start a session
//	POST /stop    stop the session
//
// Lifecycle:
//
//	s := bridge.New(ctl, bus, bridge.WithLogger(logger))
//	s.Start(ctx)             // subscribes to the bus, accepts websocket clients
//	http.Serve(ln, s.Handler())
//	s.Stop()                 // closes clients, waits for their goroutines
package bridge
