package game

import (
	"runtime/debug"
	"sync"

	"github.com/Iron-Ham/whacaconsole/internal/logging"
)

// outbox runs side effects in the order they were queued.
//
// Effects are queued while the controller lock is held, so queue order matches
// the order of state transitions. They run after the lock is released. drain
// is not reentrant: a call made while another drain is in progress (from a
// nested bus handler or another goroutine) returns at once and leaves its
// effects to the running drain.
type outbox struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
	logger   *logging.Logger
}

func (o *outbox) push(fx func()) {
	o.mu.Lock()
	o.queue = append(o.queue, fx)
	o.mu.Unlock()
}

func (o *outbox) drain() {
	o.mu.Lock()
	if o.draining {
		o.mu.Unlock()
		return
	}
	o.draining = true
	for len(o.queue) > 0 {
		fx := o.queue[0]
		o.queue[0] = nil
		o.queue = o.queue[1:]
		o.mu.Unlock()

		o.run(fx)

		o.mu.Lock()
	}
	o.draining = false
	o.mu.Unlock()
}

func (o *outbox) run(fx func()) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("side effect panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fx()
}
