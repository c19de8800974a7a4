package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestConsole_SurfaceLifecycle(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	ctx := context.Background()

	if err := c.CloseSurface(ctx, WelcomeSurfaceID); err != nil {
		t.Fatalf("CloseSurface on absent surface: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("closing an absent surface should print nothing, got %q", buf.String())
	}

	if err := c.OpenSurface(ctx, GameSurface(GameSurfaceID)); err != nil {
		t.Fatalf("OpenSurface: %v", err)
	}
	if !c.IsOpen(GameSurfaceID) {
		t.Fatal("game surface should be open")
	}

	if err := c.CloseSurface(ctx, GameSurfaceID); err != nil {
		t.Fatalf("CloseSurface: %v", err)
	}
	if c.IsOpen(GameSurfaceID) {
		t.Error("game surface should be closed")
	}
	if !strings.Contains(buf.String(), "Game") {
		t.Errorf("output should mention the surface label, got %q", buf.String())
	}
}

func TestConsole_CanceledContext(t *testing.T) {
	c := NewConsole(&bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.OpenSurface(ctx, GameSurface(GameSurfaceID)); err == nil {
		t.Error("OpenSurface with canceled context should fail")
	}
	if c.IsOpen(GameSurfaceID) {
		t.Error("surface should not be recorded as open")
	}
}

func TestConsole_HighlightAndNotify(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	_ = c.OpenSurface(context.Background(), GameSurface(GameSurfaceID))
	buf.Reset()

	if err := c.RequestHighlight(GameSurfaceID, SeverityWarning, 500*time.Millisecond); err != nil {
		t.Fatalf("RequestHighlight: %v", err)
	}
	if err := c.NotifyUser("Too Slow", "You lose 5 points", SeverityWarning); err != nil {
		t.Fatalf("NotifyUser: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"[Game]", "warning", "500ms", "Too Slow", "You lose 5 points"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestGameAndWelcomeSurfaces(t *testing.T) {
	g := GameSurface("Game_Tab")
	if g.URL != "/lightning/n/Game_Tab" || g.Icon == "" || !g.Focus {
		t.Errorf("GameSurface() = %+v", g)
	}
	w := WelcomeSurface(WelcomeSurfaceID)
	if w.Label != "Welcome" || w.Icon != "" {
		t.Errorf("WelcomeSurface() = %+v", w)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "You lose 5 points", 20, "You lose 5 points"},
		{"exact", "abcdef", 6, "abcdef"},
		{"cut", "abcdefghij", 6, "abc..."},
		{"tiny width", "abcdef", 2, "..."},
		{"styled", lipgloss.NewStyle().Bold(true).Render("abcdefghij"), 6, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxWidth)
			if tt.want != "" && got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
			if w := lipgloss.Width(got); w > tt.maxWidth && tt.maxWidth > 3 {
				t.Errorf("truncate(%q, %d) width = %d", tt.input, tt.maxWidth, w)
			}
		})
	}
}

func TestConsole_NotifyTruncatesLongMessages(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	long := strings.Repeat("x", MaxMessageWidth*2)
	if err := c.NotifyUser("Hit", long, SeveritySuccess); err != nil {
		t.Fatalf("NotifyUser: %v", err)
	}
	if strings.Contains(buf.String(), long) {
		t.Error("long message was not truncated")
	}
	if !strings.Contains(buf.String(), "...") {
		t.Errorf("output = %q, want an ellipsis", buf.String())
	}
}
