package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func runeEvent(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestHandleEventViewShadowsGlobal(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal("quit", &Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = "global" }})
	r.AddView("email", "back", &Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = "view" }})

	if !r.HandleEvent("email", runeEvent('q')) {
		t.Fatal("expected a handler to match")
	}
	if got != "view" {
		t.Errorf("got %q, want view", got)
	}

	got = ""
	if !r.HandleEvent("mailbox", runeEvent('q')) {
		t.Fatal("expected the global handler to match")
	}
	if got != "global" {
		t.Errorf("got %q, want global", got)
	}
}

func TestHandleEventNoMatch(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal("quit", &Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() {}})
	if r.HandleEvent("mailbox", runeEvent('x')) {
		t.Error("unexpected match")
	}
}

func TestMatchesSpecialKey(t *testing.T) {
	a := &Action{Key: tcell.KeyEnter}
	if !a.Matches(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)) {
		t.Error("Enter should match")
	}
	if a.Matches(runeEvent('e')) {
		t.Error("rune should not match Enter")
	}
}

func TestHintsOrderAndVisibility(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal("quit", &Action{Key: tcell.KeyRune, Rune: 'q', Label: "q", Description: "Quit", Visible: true})
	r.AddGlobal("hidden", &Action{Key: tcell.KeyRune, Rune: 'z', Label: "z", Description: "Hidden"})
	r.AddView("mailbox", "open", &Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Open", Visible: true})
	r.AddView("mailbox", "delete", &Action{Key: tcell.KeyRune, Rune: 'd', Label: "d", Description: "Delete", Visible: true})
	// Replacing keeps the original position.
	r.AddView("mailbox", "open", &Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Read", Visible: true})

	want := []Hint{{"Enter", "Read"}, {"d", "Delete"}, {"q", "Quit"}}
	got := r.Hints("mailbox")
	if len(got) != len(want) {
		t.Fatalf("got %d hints, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hint %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
