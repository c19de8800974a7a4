// Package testutil provides deterministic doubles for the scheduler and the
// host shell so that game timing can be tested without sleeping.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Iron-Ham/whacaconsole/internal/schedule"
	"github.com/Iron-Ham/whacaconsole/internal/shell"
)

// -----------------------------------------------------------------------------
// FakeScheduler
// -----------------------------------------------------------------------------

// FakeScheduler is a manual clock. Callbacks run synchronously inside Advance,
// in due-time order, on the caller's goroutine.
type FakeScheduler struct {
	mu         sync.Mutex
	now        time.Time
	timers     []*fakeTimer
	nextID     int
	scheduled  int
	cancelled  int
	maxPending int
	delays     []time.Duration
}

type fakeTimer struct {
	s    *FakeScheduler
	id   int
	at   time.Time
	f    func()
	done bool
}

// NewFakeScheduler creates a FakeScheduler starting at a fixed instant.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

var _ schedule.Scheduler = (*FakeScheduler)(nil)

// Now returns the fake current time.
func (s *FakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// AfterFunc registers f to run once the clock has advanced by d.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) schedule.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t := &fakeTimer{s: s, id: s.nextID, at: s.now.Add(d), f: f}
	s.timers = append(s.timers, t)
	s.scheduled++
	s.delays = append(s.delays, d)
	if len(s.timers) > s.maxPending {
		s.maxPending = len(s.timers)
	}
	return t
}

// Cancel removes the timer if it has not fired.
func (t *fakeTimer) Cancel() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	t.s.remove(t)
	t.s.cancelled++
	return true
}

// remove drops t from the pending list. Caller holds s.mu.
func (s *FakeScheduler) remove(t *fakeTimer) {
	for i, p := range s.timers {
		if p == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d, firing every callback that falls due
// on the way. Callbacks scheduled by fired callbacks also fire if they fall
// due within the window.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		due := s.nextDue(target)
		if due == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = due.at
		due.done = true
		s.remove(due)
		s.mu.Unlock()

		due.f()
	}
}

// nextDue returns the earliest timer due at or before target. Caller holds s.mu.
func (s *FakeScheduler) nextDue(target time.Time) *fakeTimer {
	candidates := make([]*fakeTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.at.After(target) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].at.Equal(candidates[j].at) {
			return candidates[i].id < candidates[j].id
		}
		return candidates[i].at.Before(candidates[j].at)
	})
	return candidates[0]
}

// Pending returns the number of callbacks waiting to fire.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// MaxPending returns the largest number of callbacks ever pending at once.
func (s *FakeScheduler) MaxPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxPending
}

// Scheduled returns how many callbacks were ever registered.
func (s *FakeScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// Cancelled returns how many callbacks were cancelled before firing.
func (s *FakeScheduler) Cancelled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// LastDelay returns the delay of the most recently registered callback.
func (s *FakeScheduler) LastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.delays) == 0 {
		return 0
	}
	return s.delays[len(s.delays)-1]
}

// -----------------------------------------------------------------------------
// RecordingShell
// -----------------------------------------------------------------------------

// ShellCall is one recorded call on a RecordingShell.
type ShellCall struct {
	Op        string // "highlight", "notify", "open", "close"
	SurfaceID string
	Severity  shell.Severity
	Duration  time.Duration
	Title     string
	Message   string
}

// RecordingShell records every call and can be told to fail or panic.
type RecordingShell struct {
	mu    sync.Mutex
	calls []ShellCall

	// Errors returned per op; nil means success.
	Errs map[string]error
	// PanicOn makes the named op panic.
	PanicOn map[string]bool
}

// NewRecordingShell creates an empty RecordingShell.
func NewRecordingShell() *RecordingShell {
	return &RecordingShell{
		Errs:    make(map[string]error),
		PanicOn: make(map[string]bool),
	}
}

var _ shell.Shell = (*RecordingShell)(nil)

func (r *RecordingShell) record(c ShellCall) error {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	err := r.Errs[c.Op]
	panics := r.PanicOn[c.Op]
	r.mu.Unlock()

	if panics {
		panic("recording shell: " + c.Op)
	}
	return err
}

func (r *RecordingShell) RequestHighlight(surfaceID string, sev shell.Severity, d time.Duration) error {
	return r.record(ShellCall{Op: "highlight", SurfaceID: surfaceID, Severity: sev, Duration: d})
}

func (r *RecordingShell) NotifyUser(title, message string, sev shell.Severity) error {
	return r.record(ShellCall{Op: "notify", Title: title, Message: message, Severity: sev})
}

func (r *RecordingShell) OpenSurface(ctx context.Context, desc shell.SurfaceDescriptor) error {
	return r.record(ShellCall{Op: "open", SurfaceID: desc.ID})
}

func (r *RecordingShell) CloseSurface(ctx context.Context, surfaceID string) error {
	return r.record(ShellCall{Op: "close", SurfaceID: surfaceID})
}

// Calls returns a copy of the recorded calls.
func (r *RecordingShell) Calls() []ShellCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ShellCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsOf returns the recorded calls for one op.
func (r *RecordingShell) CallsOf(op string) []ShellCall {
	var out []ShellCall
	for _, c := range r.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls.
func (r *RecordingShell) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
