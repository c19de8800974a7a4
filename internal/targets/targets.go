// Package targets is the target generator: on every new cycle it lays out a
// field of selectable targets, exactly one of them valid, and reports the
// player's selection back over the event bus.
package targets

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/Iron-Ham/whacaconsole/internal/errors"
	"github.com/Iron-Ham/whacaconsole/internal/event"
	"github.com/Iron-Ham/whacaconsole/internal/logging"
)

// DefaultCount is the number of targets in a field.
const DefaultCount = 10

// Icons of a field.
const (
	IconTarget  = "utility:campaign"
	IconSuccess = "utility:check"
	IconFail    = "utility:close"
)

// decoyIcons are drawn at random for invalid targets.
var decoyIcons = []string{
	"utility:ban",
	"utility:block_visitor",
	"utility:away",
	"utility:bug",
	"utility:clear",
	"utility:contract",
	"utility:deprecate",
	"utility:error",
}

// Target is one selectable item.
type Target struct {
	Index        int    `json:"index"`
	Valid        bool   `json:"valid"`
	Icon         string `json:"icon"`
	SelectedIcon string `json:"selectedIcon"`
}

// Field is the set of targets presented for one cycle. A Field with no
// targets means the generator was cleared.
type Field struct {
	Cycle      int      `json:"cycle"`
	Targets    []Target `json:"targets"`
	ValidIndex int      `json:"validIndex"`
	Disabled   bool     `json:"disabled"`
	Selected   int      `json:"selected"`
}

// Empty reports whether the field holds no targets.
func (f Field) Empty() bool {
	return len(f.Targets) == 0
}

func (f Field) clone() Field {
	f.Targets = slices.Clone(f.Targets)
	return f
}

// Option configures a Generator.
type Option func(*Generator)

// WithCount sets the number of targets per field. Values below 2 are ignored.
func WithCount(n int) Option {
	return func(g *Generator) {
		if n >= 2 {
			g.count = n
		}
	}
}

// WithRand sets the random source, mostly for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l.WithComponent("targets")
		}
	}
}

// Generator reacts to new-cycle announcements by building a fresh Field.
type Generator struct {
	bus    *event.Bus
	logger *logging.Logger
	subID  string

	mu       sync.Mutex
	rng      *rand.Rand
	count    int
	field    *Field
	watchers []func(Field)
}

// New creates a Generator subscribed to state-updates on bus.
func New(bus *event.Bus, opts ...Option) *Generator {
	g := &Generator{
		bus:    bus,
		logger: logging.NopLogger(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		count:  DefaultCount,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.subID = bus.Subscribe(event.TypeStateUpdate, g.onStateUpdate)
	return g
}

// Watch registers fn to be called with a copy of every new field, and with an
// empty Field when the generator is cleared. fn runs on the publisher's
// goroutine.
func (g *Generator) Watch(fn func(Field)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.watchers = append(g.watchers, fn)
}

// SetCount changes the field size from the next cycle on.
func (g *Generator) SetCount(n int) {
	if n < 2 {
		return
	}
	g.mu.Lock()
	g.count = n
	g.mu.Unlock()
}

func (g *Generator) onStateUpdate(e event.Event) {
	su, ok := e.(event.StateUpdateEvent)
	if !ok {
		return
	}
	switch su.State {
	case event.StateNewCycle:
		g.generate(su.Cycle)
	case event.StateStopped:
		g.clear()
	}
}

func (g *Generator) generate(cycle int) {
	g.mu.Lock()
	n := g.count
	valid := g.rng.IntN(n)
	targets := make([]Target, n)
	for i := range targets {
		if i == valid {
			targets[i] = Target{Index: i, Valid: true, Icon: IconTarget, SelectedIcon: IconSuccess}
			continue
		}
		targets[i] = Target{
			Index:        i,
			Icon:         decoyIcons[g.rng.IntN(len(decoyIcons))],
			SelectedIcon: IconFail,
		}
	}
	g.field = &Field{Cycle: cycle, Targets: targets, ValidIndex: valid, Selected: -1}
	snapshot := g.field.clone()
	watchers := slices.Clone(g.watchers)
	g.mu.Unlock()

	g.logger.Debug("field generated", "cycle", cycle, "count", n, "valid_index", valid)
	for _, fn := range watchers {
		fn(snapshot)
	}
}

func (g *Generator) clear() {
	g.mu.Lock()
	if g.field == nil {
		g.mu.Unlock()
		return
	}
	g.field = nil
	watchers := slices.Clone(g.watchers)
	g.mu.Unlock()

	for _, fn := range watchers {
		fn(Field{Cycle: event.NoCycle, Selected: -1})
	}
}

// Field returns a copy of the current field and whether there is one.
func (g *Generator) Field() (Field, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.field == nil {
		return Field{}, false
	}
	return g.field.clone(), true
}

// Select records the player's choice of target i and publishes the outcome,
// stamped with the field's cycle. A field accepts one selection; later ones
// fail with errors.ErrFieldDisabled.
func (g *Generator) Select(i int) error {
	return g.selectTarget(event.NoCycle, i)
}

// SelectIn is Select for a decision made on the field of cycle. It fails with
// errors.ErrStaleField when that field has been replaced.
func (g *Generator) SelectIn(cycle, i int) error {
	return g.selectTarget(cycle, i)
}

func (g *Generator) selectTarget(cycle, i int) error {
	g.mu.Lock()
	if g.field == nil {
		g.mu.Unlock()
		return errors.ErrNoField
	}
	if cycle != event.NoCycle && cycle != g.field.Cycle {
		current := g.field.Cycle
		g.mu.Unlock()
		return errors.Wrapf(errors.ErrStaleField, "selection for cycle %d, field is cycle %d", cycle, current)
	}
	if g.field.Disabled {
		g.mu.Unlock()
		return errors.ErrFieldDisabled
	}
	if i < 0 || i >= len(g.field.Targets) {
		n := len(g.field.Targets)
		g.mu.Unlock()
		return errors.NewValidationError("target index out of range").
			WithField("index").
			WithValue(i).
			WithCause(errors.Wrapf(errors.ErrInvalidSelection, "field has %d targets", n))
	}
	g.field.Disabled = true
	g.field.Selected = i
	valid := g.field.Targets[i].Valid
	stamp := g.field.Cycle
	g.mu.Unlock()

	g.logger.Debug("target selected", "cycle", stamp, "index", i, "valid", valid)
	g.bus.Publish(event.NewTargetClickEvent(valid, stamp))
	return nil
}

// Close detaches the generator from the bus.
func (g *Generator) Close() {
	g.bus.Unsubscribe(g.subID)
}
