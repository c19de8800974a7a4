// Package shell defines the host-shell collaborator the game controller talks
// to for presentation side effects: opening and closing surfaces, highlighting
// them and notifying the user. Every call is best-effort.
package shell

import (
	"context"
	"time"
)

// Severity selects the styling of a highlight or notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// SurfaceDescriptor describes a presentation surface the shell can open.
type SurfaceDescriptor struct {
	ID    string
	URL   string
	Label string
	Icon  string
	Focus bool
}

// Shell is implemented by the host that owns the presentation surfaces.
type Shell interface {
	// RequestHighlight emphasizes a surface for d. Fire-and-forget.
	RequestHighlight(surfaceID string, sev Severity, d time.Duration) error
	// NotifyUser shows a transient notification. Fire-and-forget.
	NotifyUser(title, message string, sev Severity) error
	// OpenSurface opens (or focuses) a surface.
	OpenSurface(ctx context.Context, desc SurfaceDescriptor) error
	// CloseSurface closes a surface. Closing a surface that is not open is
	// not an error.
	CloseSurface(ctx context.Context, surfaceID string) error
}

// Surface IDs used by the default host layout.
const (
	GameSurfaceID    = "Game_Tab"
	WelcomeSurfaceID = "Whac_a_Console_App_Welcome"
)

// GameSurface returns the descriptor of the surface showing the target field.
func GameSurface(id string) SurfaceDescriptor {
	return SurfaceDescriptor{
		ID:    id,
		URL:   "/lightning/n/" + id,
		Label: "Game",
		Icon:  "action:new_campaign",
		Focus: true,
	}
}

// WelcomeSurface returns the descriptor of the surface shown while stopped.
func WelcomeSurface(id string) SurfaceDescriptor {
	return SurfaceDescriptor{
		ID:    id,
		URL:   "/lightning/n/" + id,
		Label: "Welcome",
		Focus: true,
	}
}

// Nop is a Shell that does nothing.
type Nop struct{}

func (Nop) RequestHighlight(string, Severity, time.Duration) error { return nil }
func (Nop) NotifyUser(string, string, Severity) error              { return nil }
func (Nop) OpenSurface(context.Context, SurfaceDescriptor) error   { return nil }
func (Nop) CloseSurface(context.Context, string) error             { return nil }
