package event

import (
	"runtime/debug"
	"slices"
	"strconv"
	"sync"

	"github.com/Iron-Ham/whacaconsole/internal/logging"
)

// Handler is a function that handles an event.
type Handler func(Event)

type subscriber struct {
	id      string
	handler Handler
}

// Bus is a synchronous pub-sub event bus keyed by event type. The controller
// and the target surface talk only through it.
//
// Subscriber lists are copy-on-write: Publish takes the current list under
// the lock and calls handlers without it, so a handler may publish, subscribe
// or unsubscribe.
type Bus struct {
	logger *logging.Logger

	mu     sync.Mutex
	byType map[string][]subscriber
	owner  map[string]string // subscription ID -> event type
	seq    uint64
}

// NewBus creates an event bus. A nil logger discards handler panics.
func NewBus(logger *logging.Logger) *Bus {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Bus{
		logger: logger.WithComponent("bus"),
		byType: make(map[string][]subscriber),
		owner:  make(map[string]string),
	}
}

// Subscribe registers handler for events of eventType and returns an ID for
// Unsubscribe. Handlers of one type run in subscription order.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	id := eventType + "#" + strconv.FormatUint(b.seq, 10)
	subs := b.byType[eventType]
	b.byType[eventType] = append(subs[:len(subs):len(subs)], subscriber{id: id, handler: handler})
	b.owner[id] = eventType
	return id
}

// Unsubscribe removes a subscription and reports whether it existed. An event
// already being delivered still reaches the removed handler.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	eventType, ok := b.owner[id]
	if !ok {
		return false
	}
	delete(b.owner, id)
	b.byType[eventType] = slices.DeleteFunc(slices.Clone(b.byType[eventType]), func(s subscriber) bool {
		return s.id == id
	})
	if len(b.byType[eventType]) == 0 {
		delete(b.byType, eventType)
	}
	return true
}

// Publish delivers e to every handler of its type on the calling goroutine.
// A panicking handler is logged and the remaining handlers still run.
// Successive publishes from one goroutine arrive in publish order.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := b.byType[e.EventType()]
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s, e)
	}
}

func (b *Bus) deliver(s subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event_type", e.EventType(),
				"subscription", s.id,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	s.handler(e)
}
