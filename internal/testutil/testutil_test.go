package testutil

import (
	"testing"
	"time"
)

func TestFakeScheduler_FiresInOrder(t *testing.T) {
	s := NewFakeScheduler()
	var order []string

	s.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	s.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	s.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })

	s.Advance(250 * time.Millisecond)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order after 250ms = %v, want [a b]", order)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}

	s.Advance(50 * time.Millisecond)
	if len(order) != 3 {
		t.Errorf("order after 300ms = %v, want [a b c]", order)
	}
}

func TestFakeScheduler_NestedScheduling(t *testing.T) {
	s := NewFakeScheduler()
	start := s.Now()
	var fired []time.Duration

	var tick func()
	tick = func() {
		fired = append(fired, s.Now().Sub(start))
		s.AfterFunc(100*time.Millisecond, tick)
	}
	s.AfterFunc(100*time.Millisecond, tick)

	s.Advance(350 * time.Millisecond)

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	if len(fired) != len(want) {
		t.Fatalf("fired = %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired[%d] = %v, want %v", i, fired[i], want[i])
		}
	}
	if got := s.Now().Sub(start); got != 350*time.Millisecond {
		t.Errorf("Now() advanced by %v, want 350ms", got)
	}
}

func TestFakeScheduler_Cancel(t *testing.T) {
	s := NewFakeScheduler()
	fired := false
	h := s.AfterFunc(time.Second, func() { fired = true })

	if !h.Cancel() {
		t.Error("first Cancel() should report true")
	}
	if h.Cancel() {
		t.Error("second Cancel() should report false")
	}
	s.Advance(2 * time.Second)

	if fired {
		t.Error("cancelled callback fired")
	}
	if s.Cancelled() != 1 || s.Scheduled() != 1 {
		t.Errorf("Scheduled/Cancelled = %d/%d, want 1/1", s.Scheduled(), s.Cancelled())
	}
}

func TestRecordingShell(t *testing.T) {
	r := NewRecordingShell()
	r.PanicOn["notify"] = true

	_ = r.RequestHighlight("Game_Tab", "warning", time.Second)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("NotifyUser should panic when configured")
			}
		}()
		_ = r.NotifyUser("t", "m", "info")
	}()

	if got := len(r.CallsOf("highlight")); got != 1 {
		t.Errorf("highlight calls = %d, want 1", got)
	}
	if got := len(r.Calls()); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
	r.Reset()
	if len(r.Calls()) != 0 {
		t.Error("Reset() should clear calls")
	}
}
