package bridge

import "sync"

// clientLimiter is a non-blocking, resizable counter of connection slots.
//
// A limit of 0 means unlimited. Lowering the limit never evicts connections
// that already hold a slot; it only refuses new ones until enough are
// released.
type clientLimiter struct {
	mu       sync.Mutex
	limit    int // 0 = unlimited
	acquired int
}

// newClientLimiter creates a limiter with the given limit. Negative values are
// clamped to 0.
func newClientLimiter(limit int) *clientLimiter {
	if limit < 0 {
		limit = 0
	}
	return &clientLimiter{limit: limit}
}

// TryAcquire takes a slot if one is free and reports whether it did.
func (l *clientLimiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limit > 0 && l.acquired >= l.limit {
		return false
	}
	l.acquired++
	return true
}

// Release frees a slot.
func (l *clientLimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.acquired > 0 {
		l.acquired--
	}
}

// SetLimit adjusts the capacity. Negative values are clamped to 0 (unlimited).
func (l *clientLimiter) SetLimit(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n < 0 {
		n = 0
	}
	l.limit = n
}

// Limit returns the current limit (0 = unlimited).
func (l *clientLimiter) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

// Acquired returns the number of slots in use.
func (l *clientLimiter) Acquired() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acquired
}
