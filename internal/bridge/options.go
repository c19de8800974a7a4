package bridge

import (
	"time"

	"github.com/Iron-Ham/whacaconsole/internal/logging"
)

const (
	// defaultMaxClients bounds concurrent websocket clients.
	defaultMaxClients = 16
	// defaultSendBuffer is the number of frames queued per client before it is
	// considered too slow and dropped.
	defaultSendBuffer = 64
	// defaultPingInterval is how often idle clients are pinged.
	defaultPingInterval = 25 * time.Second
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// maxFrameSize bounds inbound frames; envelopes are tiny.
	maxFrameSize = 4096
)

// Option configures a Server.
type Option func(*config)

type config struct {
	maxClients   int
	sendBuffer   int
	pingInterval time.Duration
	logger       *logging.Logger
	checkOrigin  func(origin string) bool
}

// WithMaxClients bounds the number of concurrent websocket clients.
// Zero means unlimited; negative values are replaced with the default (16).
func WithMaxClients(n int) Option {
	return func(c *config) {
		c.maxClients = n
	}
}

// WithPingInterval sets how often clients are pinged.
// A zero or negative value is replaced with the default (25s).
func WithPingInterval(d time.Duration) Option {
	return func(c *config) {
		c.pingInterval = d
	}
}

// WithSendBuffer sets the per-client outbound queue length.
func WithSendBuffer(n int) Option {
	return func(c *config) {
		c.sendBuffer = n
	}
}

// WithOriginCheck sets the websocket origin policy. By default every origin
// is accepted, which suits a bridge bound to localhost.
func WithOriginCheck(fn func(origin string) bool) Option {
	return func(c *config) {
		c.checkOrigin = fn
	}
}

// WithLogger sets the logger for the bridge.
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
