package i18n

import "testing"

func TestNew_Normalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pt_BR", "pt"},
		{"pt-PT", "pt"},
		{"es-MX", "es"},
		{"ES", "es"},
		{"en-US", "en"},
		{"ru", "en"},
		{"", "en"},
	}
	for _, tt := range tests {
		if got := New(tt.in).Lang(); got != tt.want {
			t.Errorf("New(%q).Lang() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCatalog_T(t *testing.T) {
	en := New("en")
	if got := en.T(HitTitle); got != "Well Done 🤩" {
		t.Errorf("T(HitTitle) = %q", got)
	}
	if got := en.Tf(SlowMessage, 5); got != "You lose 5 points" {
		t.Errorf("Tf(SlowMessage, 5) = %q", got)
	}
	if got := New("es").Tf(HitMessage, 10); got != "Ganas 10 puntos" {
		t.Errorf("es Tf(HitMessage, 10) = %q", got)
	}
	if got := en.T("no.such.key"); got != "no.such.key" {
		t.Errorf("T(unknown) = %q, want key", got)
	}
}

func TestDetect_EnvOverride(t *testing.T) {
	t.Setenv(LangEnv, "pt")
	if got := Detect().Lang(); got != "pt" {
		t.Errorf("Detect().Lang() = %q, want pt", got)
	}
}
