// Package logging provides structured logging for game sessions.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation, so a run of the game can be reconstructed afterwards:
// every entry can carry the session ID, the emitting component and the cycle
// index it concerns.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers created
// via With* methods share the underlying writer safely.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	sessionLogger := logger.WithSession(sessionID).WithComponent("controller")
//	sessionLogger.WithCycle(3).Info("target hit", "points", 10, "score", 25)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"target hit","session_id":"...","component":"controller","cycle":3,"points":10,"score":25}
//
// # Log Levels
//
//   - DEBUG: stale or duplicate clicks, tick scheduling
//   - INFO: session start/stop, scoring outcomes
//   - WARN: collaborator (shell) failures
//   - ERROR: protocol violations, handler panics
//
// When no directory is configured the logger writes to stderr. Use
// [NopLogger] in tests.
package logging
