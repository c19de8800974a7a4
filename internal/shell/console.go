package shell

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// MaxMessageWidth caps the visible width of a notification message.
const MaxMessageWidth = 72

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	severityStyles = map[Severity]lipgloss.Style{
		SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Bold(true),
		SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true),
		SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")).Bold(true),
		SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")),
	}
)

// truncate shortens s to maxWidth visible columns, keeping escape sequences
// intact and ending with "...".
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

func styleFor(sev Severity) lipgloss.Style {
	if s, ok := severityStyles[sev]; ok {
		return s
	}
	return severityStyles[SeverityInfo]
}

// Console is a Shell that reports side effects as styled lines on a writer.
// It keeps track of which surfaces are open so that closing an absent surface
// is a no-op, as with a tab strip.
type Console struct {
	mu   sync.Mutex
	out  io.Writer
	open map[string]SurfaceDescriptor
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:  out,
		open: make(map[string]SurfaceDescriptor),
	}
}

// RequestHighlight prints the highlight request.
func (c *Console) RequestHighlight(surfaceID string, sev Severity, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	label := surfaceID
	if desc, ok := c.open[surfaceID]; ok && desc.Label != "" {
		label = desc.Label
	}
	_, err := fmt.Fprintf(c.out, "%s %s %s\n",
		labelStyle.Render("["+label+"]"),
		styleFor(sev).Render("▌ "+string(sev)),
		mutedStyle.Render(d.String()))
	return err
}

// NotifyUser prints the notification.
func (c *Console) NotifyUser(title, message string, sev Severity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.out, "%s %s\n", styleFor(sev).Render(title), truncate(message, MaxMessageWidth))
	return err
}

// OpenSurface records the surface as open.
func (c *Console) OpenSurface(ctx context.Context, desc SurfaceDescriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open[desc.ID] = desc
	_, err := fmt.Fprintf(c.out, "%s %s\n", mutedStyle.Render("open"), labelStyle.Render(desc.Label))
	return err
}

// CloseSurface forgets the surface if it is open.
func (c *Console) CloseSurface(ctx context.Context, surfaceID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	desc, ok := c.open[surfaceID]
	if !ok {
		return nil
	}
	delete(c.open, surfaceID)
	_, err := fmt.Fprintf(c.out, "%s %s\n", mutedStyle.Render("close"), labelStyle.Render(desc.Label))
	return err
}

// IsOpen reports whether the surface is currently open.
func (c *Console) IsOpen(surfaceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.open[surfaceID]
	return ok
}
