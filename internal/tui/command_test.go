package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"inbox", Command{Name: "inbox"}},
		{"  Compose  bob*raveoir.github.io ", Command{Name: "compose", Args: "bob*raveoir.github.io"}},
		{"export /tmp/archive.mbox", Command{Name: "export", Args: "/tmp/archive.mbox"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.in); got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"q":       "quit",
		"h":       "help",
		"a":       "archived",
		"new":     "compose",
		"refresh": "refresh",
	}
	for in, want := range tests {
		if got := ParseCommand(in).Canonical().Name; got != want {
			t.Errorf("%q resolved to %q, want %q", in, got, want)
		}
	}
}
