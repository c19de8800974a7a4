package game

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Iron-Ham/whacaconsole/internal/errors"
	"github.com/Iron-Ham/whacaconsole/internal/event"
	"github.com/Iron-Ham/whacaconsole/internal/i18n"
	"github.com/Iron-Ham/whacaconsole/internal/logging"
	"github.com/Iron-Ham/whacaconsole/internal/schedule"
	"github.com/Iron-Ham/whacaconsole/internal/shell"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l.WithComponent("game")
		}
	}
}

// WithTiming overrides the default durations.
func WithTiming(t Timing) Option {
	return func(c *Controller) {
		c.timing = t.withDefaults()
	}
}

// WithCatalog sets the catalog used for notification texts.
func WithCatalog(cat *i18n.Catalog) Option {
	return func(c *Controller) {
		if cat != nil {
			c.catalog = cat
		}
	}
}

// WithSurfaces overrides the game and welcome surface IDs.
func WithSurfaces(gameID, welcomeID string) Option {
	return func(c *Controller) {
		if gameID != "" {
			c.gameSurface = gameID
		}
		if welcomeID != "" {
			c.welcomeSurface = welcomeID
		}
	}
}

// Controller owns a game session. Create one with New.
type Controller struct {
	bus   *event.Bus
	shell shell.Shell
	sched schedule.Scheduler

	logger         *logging.Logger
	catalog        *i18n.Catalog
	gameSurface    string
	welcomeSurface string

	fx   *outbox
	subs []string

	mu        sync.Mutex
	timing    Timing
	slot      *schedule.Slot
	state     event.GameState
	score     int
	nextIndex int
	cycle     *Cycle
	stats     Stats
	sessionID string
	log       *logging.Logger
	closed    bool
}

// New creates a stopped controller and subscribes it to bus. A nil shell is
// replaced by shell.Nop and a nil scheduler by schedule.System.
func New(bus *event.Bus, sh shell.Shell, sched schedule.Scheduler, opts ...Option) *Controller {
	if sh == nil {
		sh = shell.Nop{}
	}
	if sched == nil {
		sched = schedule.System{}
	}
	c := &Controller{
		bus:            bus,
		shell:          sh,
		sched:          sched,
		logger:         logging.NopLogger(),
		catalog:        i18n.New("en"),
		gameSurface:    shell.GameSurfaceID,
		welcomeSurface: shell.WelcomeSurfaceID,
		timing:         DefaultTiming(),
		slot:           schedule.NewSlot(sched),
		state:          event.StateStopped,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.logger
	c.fx = &outbox{logger: c.logger}

	c.subs = []string{
		bus.Subscribe(event.TypeStateUpdate, c.onBusEvent),
		bus.Subscribe(event.TypeTargetClick, c.onBusEvent),
	}
	return c
}

// onBusEvent is the bus subscription. Protocol violations cannot be returned
// to a publisher, so they are logged.
func (c *Controller) onBusEvent(e event.Event) {
	if err := c.HandleEvent(e); err != nil {
		c.logger.Error("rejected event", "error", err, "severity", errors.GetSeverity(err).String())
	}
}

// Start starts a session and switches the host to the game surface. Starting
// a started or closed controller is a no-op and leaves the surfaces alone.
func (c *Controller) Start(ctx context.Context) {
	if c.begin(true) {
		c.switchSurfaces(ctx, shell.GameSurface(c.gameSurface), c.welcomeSurface)
	}
}

// Stop ends the session and switches the host back to the welcome surface.
// The pending tick is cancelled before Stop returns. Stopping a stopped
// controller is a no-op.
func (c *Controller) Stop(ctx context.Context) {
	if c.end(true) {
		c.switchSurfaces(ctx, shell.WelcomeSurface(c.welcomeSurface), c.gameSurface)
	}
}

// HandleEvent applies an event to the session. Unknown event types and game
// states return a *errors.ProtocolError and leave the session untouched.
func (c *Controller) HandleEvent(e event.Event) error {
	switch ev := e.(type) {
	case event.StateUpdateEvent:
		return c.handleStateUpdate(ev)
	case event.TargetClickEvent:
		c.handleClick(ev)
		return nil
	case nil:
		return errors.NewProtocolError("", errors.ErrUnknownEventType)
	default:
		return errors.NewProtocolError("", errors.ErrUnknownEventType).WithValue(e.EventType())
	}
}

func (c *Controller) handleStateUpdate(ev event.StateUpdateEvent) error {
	switch ev.State {
	case event.StateStarted:
		c.begin(false)
	case event.StateStopped:
		c.end(false)
	case event.StateNewCycle:
		// Our own announcement looping back.
	default:
		return errors.NewProtocolError(event.TypeStateUpdate, errors.ErrUnknownState).WithValue(string(ev.State))
	}
	return nil
}

// begin performs Stopped -> Started and reports whether a transition
// happened. announce publishes the started state-update; a transition caused
// by a state-update from the bus has already been seen by every subscriber.
func (c *Controller) begin(announce bool) bool {
	c.mu.Lock()
	if c.closed || c.state == event.StateStarted {
		c.mu.Unlock()
		return false
	}
	c.state = event.StateStarted
	c.score = 0
	c.nextIndex = 0
	c.cycle = nil
	c.stats = Stats{}
	c.sessionID = uuid.NewString()
	c.log = c.logger.WithSession(c.sessionID)
	c.log.Info("game started",
		"cycle_period", c.timing.CyclePeriod.String(),
		"hold", c.timing.Hold.String())

	if announce {
		c.publishLocked(event.NewStateUpdateEvent(event.StateStarted))
	}
	c.advanceLocked()
	c.mu.Unlock()

	c.fx.drain()
	return true
}

// end performs Started -> Stopped and reports whether a transition happened.
func (c *Controller) end(announce bool) bool {
	c.mu.Lock()
	if c.state != event.StateStarted {
		c.mu.Unlock()
		return false
	}
	c.slot.Cancel()
	c.state = event.StateStopped
	c.cycle = nil
	c.log.Info("game stopped",
		"score", c.score,
		"cycles", c.nextIndex,
		"hits", c.stats.Hits,
		"misses", c.stats.Misses,
		"expired", c.stats.Expired)

	if announce {
		c.publishLocked(event.NewStateUpdateEvent(event.StateStopped))
	}
	c.mu.Unlock()

	c.fx.drain()
	return true
}

// onTick is the scheduled heartbeat.
func (c *Controller) onTick(token uint64) {
	c.mu.Lock()
	if c.state != event.StateStarted || !c.slot.Current(token) {
		c.mu.Unlock()
		return
	}
	c.slot.Release(token)
	c.advanceLocked()
	c.mu.Unlock()

	c.fx.drain()
}

// advanceLocked scores the cycle that just ended, opens the next one and arms
// the next tick. Caller holds c.mu.
func (c *Controller) advanceLocked() {
	if c.cycle != nil && !c.cycle.HasInteraction {
		c.stats.Expired++
		c.log.WithCycle(c.cycle.Index).Debug("cycle expired")
		c.scoreLocked(expiredOutcome())
	}

	index := c.nextIndex
	c.publishLocked(event.NewCycleEvent(index))
	c.cycle = &Cycle{Index: index, StartedAt: c.sched.Now()}
	c.nextIndex++

	c.slot.Arm(c.timing.CyclePeriod, c.onTick)
}

func (c *Controller) handleClick(ev event.TargetClickEvent) {
	c.mu.Lock()
	switch {
	case c.state != event.StateStarted || c.cycle == nil:
		c.log.Debug("click ignored while stopped")
		c.mu.Unlock()
		return
	case ev.Cycle != event.NoCycle && ev.Cycle != c.cycle.Index:
		c.stats.Ignored++
		c.log.WithCycle(c.cycle.Index).Debug("stale click ignored", "click_cycle", ev.Cycle)
		c.mu.Unlock()
		return
	case c.cycle.HasInteraction:
		c.stats.Ignored++
		c.log.WithCycle(c.cycle.Index).Debug("duplicate click ignored")
		c.mu.Unlock()
		return
	}

	c.cycle.HasInteraction = true
	if ev.IsValidTargetHit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.scoreLocked(clickOutcome(ev.IsValidTargetHit))
	c.slot.Arm(c.timing.Hold, c.onTick)
	c.mu.Unlock()

	c.fx.drain()
}

// scoreLocked applies an outcome and queues its highlight and notification.
// Caller holds c.mu.
func (c *Controller) scoreLocked(o outcome) {
	c.score += o.points
	c.log.Debug("score changed", "delta", o.points, "score", c.score)

	surface := c.gameSurface
	d := c.timing.Highlight
	title := c.catalog.T(o.title)
	message := c.catalog.Tf(o.message, o.magnitude())

	c.fx.push(func() {
		c.callShell("highlight", surface, func() error {
			return c.shell.RequestHighlight(surface, o.severity, d)
		})
	})
	c.fx.push(func() {
		c.callShell("notify", "", func() error {
			return c.shell.NotifyUser(title, message, o.severity)
		})
	})
}

// publishLocked queues e for publication. Caller holds c.mu.
func (c *Controller) publishLocked(e event.Event) {
	c.fx.push(func() { c.bus.Publish(e) })
}

// State returns the current game state.
func (c *Controller) State() event.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Score returns the current score. It keeps the final score after a stop
// until the next start.
func (c *Controller) Score() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score
}

// CycleIndex returns the index of the current cycle, or event.NoCycle when
// no session is running.
func (c *Controller) CycleIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cycle == nil {
		return event.NoCycle
	}
	return c.cycle.Index
}

// Snapshot returns a consistent copy of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		SessionID: c.sessionID,
		State:     c.state,
		Score:     c.score,
		Stats:     c.stats,
	}
	if c.cycle != nil {
		cp := *c.cycle
		s.Cycle = &cp
	}
	return s
}

// Timing returns the durations in use.
func (c *Controller) Timing() Timing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timing
}

// SetTiming replaces the durations. The pending tick keeps its delay; the new
// values apply from the next one armed.
func (c *Controller) SetTiming(t Timing) {
	t = t.withDefaults()
	c.mu.Lock()
	c.timing = t
	c.mu.Unlock()
	c.logger.Info("timing updated",
		"cycle_period", t.CyclePeriod.String(),
		"hold", t.Hold.String(),
		"highlight", t.Highlight.String())
}

// Close stops a running session without touching the surfaces and detaches
// the controller from the bus. A closed controller cannot be started again.
func (c *Controller) Close() {
	c.end(true)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, id := range subs {
		c.bus.Unsubscribe(id)
	}
}
