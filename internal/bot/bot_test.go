package bot

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Iron-Ham/whacaconsole/internal/errors"
	"github.com/Iron-Ham/whacaconsole/internal/event"
	"github.com/Iron-Ham/whacaconsole/internal/targets"
	"github.com/Iron-Ham/whacaconsole/internal/testutil"
)

type fixture struct {
	bus    *event.Bus
	gen    *targets.Generator
	sched  *testutil.FakeScheduler
	bot    *Bot
	clicks []event.TargetClickEvent
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		bus:   event.NewBus(nil),
		sched: testutil.NewFakeScheduler(),
	}
	f.gen = targets.New(f.bus, targets.WithRand(rand.New(rand.NewPCG(7, 7))))
	t.Cleanup(f.gen.Close)

	b, err := New(f.gen, f.sched, cfg, WithRand(rand.New(rand.NewPCG(3, 4))))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b.Attach()
	f.bot = b

	f.bus.Subscribe(event.TypeTargetClick, func(e event.Event) {
		f.clicks = append(f.clicks, e.(event.TargetClickEvent))
	})
	return f
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"perfect instant", Config{Accuracy: 1}, false},
		{"accuracy too high", Config{Accuracy: 1.5}, true},
		{"accuracy negative", Config{Accuracy: -0.1}, true},
		{"negative reaction", Config{Accuracy: 0.5, MinReaction: -time.Second}, true},
		{"inverted range", Config{Accuracy: 0.5, MinReaction: time.Second, MaxReaction: time.Millisecond}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	gen := targets.New(event.NewBus(nil))
	if _, err := New(gen, nil, Config{Accuracy: 2}); err == nil {
		t.Error("New() should reject an invalid config")
	}
}

func TestBot_ReactsWithinRange(t *testing.T) {
	cfg := Config{Accuracy: 1, MinReaction: 200 * time.Millisecond, MaxReaction: 400 * time.Millisecond}
	f := newFixture(t, cfg)

	f.bus.Publish(event.NewCycleEvent(0))

	d := f.sched.LastDelay()
	if d < cfg.MinReaction || d > cfg.MaxReaction {
		t.Fatalf("reaction delay %v outside [%v, %v]", d, cfg.MinReaction, cfg.MaxReaction)
	}

	f.sched.Advance(d - time.Millisecond)
	if len(f.clicks) != 0 {
		t.Fatal("bot clicked before its reaction delay")
	}
	f.sched.Advance(time.Millisecond)
	if len(f.clicks) != 1 {
		t.Fatalf("got %d clicks, want 1", len(f.clicks))
	}
	if !f.clicks[0].IsValidTargetHit || f.clicks[0].Cycle != 0 {
		t.Errorf("click = %+v, want a hit on cycle 0", f.clicks[0])
	}
}

func TestBot_ZeroAccuracyPicksDecoys(t *testing.T) {
	f := newFixture(t, Config{Accuracy: 0, MinReaction: time.Millisecond, MaxReaction: time.Millisecond})

	for i := range 50 {
		f.bus.Publish(event.NewCycleEvent(i))
		f.sched.Advance(time.Millisecond)
	}

	if len(f.clicks) != 50 {
		t.Fatalf("got %d clicks, want 50", len(f.clicks))
	}
	for _, c := range f.clicks {
		if c.IsValidTargetHit {
			t.Fatalf("zero-accuracy bot hit the valid target: %+v", c)
		}
	}
	if s := f.bot.Stats(); s.Decoys != 50 || s.Aimed != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestBot_NewFieldSupersedesPendingReaction(t *testing.T) {
	f := newFixture(t, Config{Accuracy: 1, MinReaction: time.Second, MaxReaction: time.Second})

	f.bus.Publish(event.NewCycleEvent(0))
	f.sched.Advance(500 * time.Millisecond)
	f.bus.Publish(event.NewCycleEvent(1))
	f.sched.Advance(time.Second)

	if len(f.clicks) != 1 {
		t.Fatalf("got %d clicks, want 1", len(f.clicks))
	}
	if f.clicks[0].Cycle != 1 {
		t.Errorf("click answered cycle %d, want 1", f.clicks[0].Cycle)
	}
	if f.sched.MaxPending() != 1 {
		t.Errorf("MaxPending() = %d, want 1", f.sched.MaxPending())
	}
}

func TestBot_StoppedGameCancelsReaction(t *testing.T) {
	f := newFixture(t, Config{Accuracy: 1, MinReaction: time.Second, MaxReaction: time.Second})

	f.bus.Publish(event.NewCycleEvent(0))
	f.bus.Publish(event.NewStateUpdateEvent(event.StateStopped))
	f.sched.Advance(2 * time.Second)

	if len(f.clicks) != 0 {
		t.Errorf("bot clicked after the game stopped: %+v", f.clicks)
	}
}

func TestBot_Stop(t *testing.T) {
	f := newFixture(t, Config{Accuracy: 1, MinReaction: time.Second, MaxReaction: time.Second})

	f.bus.Publish(event.NewCycleEvent(0))
	f.bot.Stop()
	f.bus.Publish(event.NewCycleEvent(1))
	f.sched.Advance(5 * time.Second)

	if len(f.clicks) != 0 {
		t.Errorf("stopped bot clicked: %+v", f.clicks)
	}
	if f.sched.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", f.sched.Pending())
	}
}

func TestBot_RejectedSelection(t *testing.T) {
	f := newFixture(t, Config{Accuracy: 1, MinReaction: time.Second, MaxReaction: time.Second})

	f.bus.Publish(event.NewCycleEvent(0))
	// The player got there first.
	if err := f.gen.Select(0); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	f.sched.Advance(time.Second)

	if len(f.clicks) != 1 {
		t.Errorf("got %d clicks, want only the manual one", len(f.clicks))
	}
	if s := f.bot.Stats(); s.Rejected != 1 {
		t.Errorf("Stats().Rejected = %d, want 1", s.Rejected)
	}
}

func TestBot_DecisionOnReplacedFieldIsRejected(t *testing.T) {
	f := newFixture(t, Config{Accuracy: 1, MinReaction: time.Second, MaxReaction: time.Second})

	f.bus.Publish(event.NewCycleEvent(0))
	old, ok := f.gen.Field()
	if !ok {
		t.Fatal("no field for cycle 0")
	}
	f.bus.Publish(event.NewCycleEvent(1))

	// The bot still aims at cycle 0's layout when the generator has moved on.
	f.bot.onField(old)
	f.sched.Advance(time.Second)

	if len(f.clicks) != 0 {
		t.Errorf("clicks = %+v, want none for a replaced field", f.clicks)
	}
	if s := f.bot.Stats(); s.Rejected != 1 {
		t.Errorf("Stats().Rejected = %d, want 1", s.Rejected)
	}
	if current, _ := f.gen.Field(); current.Cycle != 1 || current.Disabled {
		t.Errorf("current field = %+v, want cycle 1 still open", current)
	}
}

func TestBot_SetConfig(t *testing.T) {
	f := newFixture(t, Config{Accuracy: 1, MinReaction: time.Second, MaxReaction: time.Second})

	if err := f.bot.SetConfig(Config{Accuracy: 3}); err == nil {
		t.Error("SetConfig() should reject an invalid config")
	}
	if err := f.bot.SetConfig(Config{Accuracy: 1, MinReaction: 10 * time.Millisecond, MaxReaction: 10 * time.Millisecond}); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}

	f.bus.Publish(event.NewCycleEvent(0))
	if got := f.sched.LastDelay(); got != 10*time.Millisecond {
		t.Errorf("LastDelay() = %v, want 10ms", got)
	}
}
