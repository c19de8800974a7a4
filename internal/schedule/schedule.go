// Package schedule provides the cancellable-timer abstraction used by the
// cycle scheduler. A Scheduler hands out a Handle for every delayed callback;
// the Handle is the only way to cancel it.
package schedule

import "time"

// Handle is a pending delayed callback.
type Handle interface {
	// Cancel prevents the callback from running if it has not started yet.
	// It reports whether the call stopped the callback.
	Cancel() bool
}

// Scheduler runs callbacks after a delay and reports the current time.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Handle
}

// System is the Scheduler backed by the runtime timer.
type System struct{}

// Now returns the wall-clock time.
func (System) Now() time.Time { return time.Now() }

// AfterFunc runs f on its own goroutine once d has elapsed.
func (System) AfterFunc(d time.Duration, f func()) Handle {
	return systemHandle{time.AfterFunc(d, f)}
}

type systemHandle struct{ t *time.Timer }

func (h systemHandle) Cancel() bool { return h.t.Stop() }

// Slot holds at most one pending callback. Arming the slot always cancels the
// callback it held before, so two callbacks armed through the same Slot can
// never both be pending.
//
// Every Arm returns a token. Cancelling or re-arming invalidates earlier
// tokens, which lets a callback that already started running (and so could
// not be stopped) detect that it has been superseded.
//
// Slot is not safe for concurrent use; callers guard it with their own lock.
type Slot struct {
	sched  Scheduler
	handle Handle
	token  uint64
}

// NewSlot creates an empty slot on the given scheduler.
func NewSlot(s Scheduler) *Slot {
	return &Slot{sched: s}
}

// Arm cancels any pending callback and schedules f after d. f receives the
// token of this arming, which stays current until the next Arm or Cancel.
func (s *Slot) Arm(d time.Duration, f func(token uint64)) uint64 {
	s.Cancel()
	token := s.token
	s.handle = s.sched.AfterFunc(d, func() { f(token) })
	return token
}

// Cancel cancels the pending callback, if any, and invalidates the current
// token. It reports whether a pending callback was stopped before it started.
func (s *Slot) Cancel() bool {
	s.token++
	if s.handle == nil {
		return false
	}
	stopped := s.handle.Cancel()
	s.handle = nil
	return stopped
}

// Current reports whether token is the one returned by the latest Arm and
// has not been cancelled since.
func (s *Slot) Current(token uint64) bool {
	return s.handle != nil && token == s.token
}

// Pending reports whether the slot holds a callback.
func (s *Slot) Pending() bool {
	return s.handle != nil
}

// Release drops the handle of the callback armed with token once that
// callback is running; there is nothing left to cancel.
func (s *Slot) Release(token uint64) {
	if token == s.token {
		s.handle = nil
	}
}
