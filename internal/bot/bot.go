// Package bot plays the game headlessly. It watches the target generator and,
// after a random reaction delay, selects a target: the valid one with a
// configurable accuracy, a decoy otherwise.
package bot

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Iron-Ham/whacaconsole/internal/errors"
	"github.com/Iron-Ham/whacaconsole/internal/logging"
	"github.com/Iron-Ham/whacaconsole/internal/schedule"
	"github.com/Iron-Ham/whacaconsole/internal/targets"
)

// Default player profile.
const (
	DefaultAccuracy    = 0.8
	DefaultMinReaction = 300 * time.Millisecond
	DefaultMaxReaction = 2500 * time.Millisecond
)

// Config describes how the bot plays.
type Config struct {
	// Accuracy is the probability of picking the valid target, in [0, 1].
	Accuracy float64
	// MinReaction and MaxReaction bound the delay before a selection.
	// Delays longer than the cycle period let the cycle expire.
	MinReaction time.Duration
	MaxReaction time.Duration
}

// DefaultConfig returns the default profile.
func DefaultConfig() Config {
	return Config{
		Accuracy:    DefaultAccuracy,
		MinReaction: DefaultMinReaction,
		MaxReaction: DefaultMaxReaction,
	}
}

// Validate checks the profile.
func (c Config) Validate() error {
	if c.Accuracy < 0 || c.Accuracy > 1 {
		return errors.NewValidationError("accuracy must be between 0 and 1").
			WithField("accuracy").WithValue(c.Accuracy).WithCause(errors.ErrInvalidInput)
	}
	if c.MinReaction < 0 {
		return errors.NewValidationError("reaction time must not be negative").
			WithField("min_reaction").WithValue(c.MinReaction).WithCause(errors.ErrInvalidInput)
	}
	if c.MaxReaction < c.MinReaction {
		return errors.NewValidationError("max reaction must not be below min reaction").
			WithField("max_reaction").WithValue(c.MaxReaction).WithCause(errors.ErrInvalidInput)
	}
	return nil
}

// Stats counts the bot's selections.
type Stats struct {
	Reactions int
	Aimed     int
	Decoys    int
	Rejected  int
}

// Option configures a Bot.
type Option func(*Bot)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(b *Bot) {
		if r != nil {
			b.rng = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(b *Bot) {
		if l != nil {
			b.logger = l.WithComponent("bot")
		}
	}
}

// Bot is a simulated player. Create one with New and attach it with Attach.
type Bot struct {
	gen    *targets.Generator
	logger *logging.Logger

	mu      sync.Mutex
	cfg     Config
	rng     *rand.Rand
	slot    *schedule.Slot
	field   targets.Field
	stats   Stats
	stopped bool
}

// New creates a bot playing on gen. It returns an error for an invalid cfg.
func New(gen *targets.Generator, sched schedule.Scheduler, cfg Config, opts ...Option) (*Bot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sched == nil {
		sched = schedule.System{}
	}
	b := &Bot{
		gen:    gen,
		logger: logging.NopLogger(),
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		slot:   schedule.NewSlot(sched),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Attach starts watching the generator's fields.
func (b *Bot) Attach() {
	b.gen.Watch(b.onField)
}

// SetConfig replaces the profile from the next field on. Invalid profiles are
// rejected.
func (b *Bot) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	b.cfg = cfg
	b.mu.Unlock()
	return nil
}

// Stop cancels the pending reaction and ignores later fields.
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	b.slot.Cancel()
}

// Stats returns the selection counters.
func (b *Bot) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *Bot) onField(f targets.Field) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped || f.Empty() {
		b.slot.Cancel()
		return
	}
	b.field = f
	b.slot.Arm(b.reactionLocked(), b.react)
}

// reactionLocked draws a delay in [MinReaction, MaxReaction]. Caller holds b.mu.
func (b *Bot) reactionLocked() time.Duration {
	span := b.cfg.MaxReaction - b.cfg.MinReaction
	if span <= 0 {
		return b.cfg.MinReaction
	}
	return b.cfg.MinReaction + time.Duration(b.rng.Int64N(int64(span)+1))
}

func (b *Bot) react(token uint64) {
	b.mu.Lock()
	if !b.slot.Current(token) {
		b.mu.Unlock()
		return
	}
	b.slot.Release(token)

	idx, aimed := b.chooseLocked()
	cycle := b.field.Cycle
	b.stats.Reactions++
	if aimed {
		b.stats.Aimed++
	} else {
		b.stats.Decoys++
	}
	b.mu.Unlock()

	// SelectIn publishes synchronously; the controller may react on this
	// goroutine, so b.mu is not held here. A field replaced in the meantime
	// rejects the selection.
	if err := b.gen.SelectIn(cycle, idx); err != nil {
		b.mu.Lock()
		b.stats.Rejected++
		b.mu.Unlock()
		b.logger.Debug("selection rejected", "cycle", cycle, "index", idx, "error", err)
		return
	}
	b.logger.Debug("selection made", "cycle", cycle, "index", idx, "aimed", aimed)
}

// chooseLocked picks a target index and reports whether it is the valid one.
// Caller holds b.mu.
func (b *Bot) chooseLocked() (int, bool) {
	n := len(b.field.Targets)
	if n < 2 || b.rng.Float64() < b.cfg.Accuracy {
		return b.field.ValidIndex, true
	}
	// Any index but the valid one.
	idx := b.rng.IntN(n - 1)
	if idx >= b.field.ValidIndex {
		idx++
	}
	return idx, false
}
