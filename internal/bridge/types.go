package bridge

import (
	"context"

	"github.com/Iron-Ham/whacaconsole/internal/game"
)

// Host is the game controller surface the bridge drives.
type Host interface {
	// Start begins a session. Starting a running session is a no-op.
	Start(ctx context.Context)

	// Stop ends the session. Stopping a stopped session is a no-op.
	Stop(ctx context.Context)

	// Snapshot returns the current session state.
	Snapshot() game.Snapshot
}

var _ Host = (*game.Controller)(nil)
