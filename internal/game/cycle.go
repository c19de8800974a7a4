package game

import (
	"time"

	"github.com/Iron-Ham/whacaconsole/internal/event"
	"github.com/Iron-Ham/whacaconsole/internal/i18n"
	"github.com/Iron-Ham/whacaconsole/internal/shell"
)

// Score deltas.
const (
	PointsValidTarget   = 10
	PointsInvalidTarget = -10
	PointsTargetExpired = -5
)

// Default durations.
const (
	DefaultCyclePeriod       = 2000 * time.Millisecond
	DefaultHoldDuration      = 500 * time.Millisecond
	DefaultHighlightDuration = 500 * time.Millisecond
)

// Timing holds the scheduler's independent durations.
type Timing struct {
	// CyclePeriod is how long a cycle waits for a selection.
	CyclePeriod time.Duration
	// Hold is the delay between a selection and the next cycle.
	Hold time.Duration
	// Highlight is how long a highlight request lasts.
	Highlight time.Duration
}

// DefaultTiming returns the stock durations.
func DefaultTiming() Timing {
	return Timing{
		CyclePeriod: DefaultCyclePeriod,
		Hold:        DefaultHoldDuration,
		Highlight:   DefaultHighlightDuration,
	}
}

// withDefaults fills zero or negative durations with the defaults.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.CyclePeriod <= 0 {
		t.CyclePeriod = d.CyclePeriod
	}
	if t.Hold <= 0 {
		t.Hold = d.Hold
	}
	if t.Highlight <= 0 {
		t.Highlight = d.Highlight
	}
	return t
}

// Cycle is one round of target presentation.
type Cycle struct {
	Index          int       `json:"index"`
	StartedAt      time.Time `json:"startedAt"`
	HasInteraction bool      `json:"hasInteraction"`
}

// outcome is the scoring result of a cycle.
type outcome struct {
	points   int
	severity shell.Severity
	title    string
	message  string
}

func (o outcome) magnitude() int {
	if o.points < 0 {
		return -o.points
	}
	return o.points
}

func clickOutcome(valid bool) outcome {
	if valid {
		return outcome{points: PointsValidTarget, severity: shell.SeveritySuccess, title: i18n.HitTitle, message: i18n.HitMessage}
	}
	return outcome{points: PointsInvalidTarget, severity: shell.SeverityError, title: i18n.MissTitle, message: i18n.MissMessage}
}

func expiredOutcome() outcome {
	return outcome{points: PointsTargetExpired, severity: shell.SeverityWarning, title: i18n.SlowTitle, message: i18n.SlowMessage}
}

// Stats counts cycle outcomes within a session.
type Stats struct {
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Expired int `json:"expired"`
	Ignored int `json:"ignored"` // stale or duplicate clicks
}

// Snapshot is a consistent read-only view of the controller.
type Snapshot struct {
	SessionID string          `json:"sessionId,omitempty"`
	State     event.GameState `json:"state"`
	Score     int             `json:"score"`
	Cycle     *Cycle          `json:"cycle,omitempty"`
	Stats     Stats           `json:"stats"`
}
