package ui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func TestFlashLevels(t *testing.T) {
	f := NewFlashModel()
	f.Info("sent")
	msg := f.GetMessage()
	if msg == nil || msg.Text != "sent" || msg.Level != FlashInfo {
		t.Fatalf("got %+v, want info 'sent'", msg)
	}

	f.Err("Recipient not found")
	if got := f.Get(); got != "Recipient not found" {
		t.Errorf("got %q", got)
	}
	if f.GetMessage().Level != FlashErr {
		t.Error("expected error level")
	}

	select {
	case m := <-f.Watch():
		if m.Text != "sent" {
			t.Errorf("first watched message %q, want sent", m.Text)
		}
	default:
		t.Error("expected a watched message")
	}

	f.Clear()
	if f.Get() != "" || f.GetMessage() != nil {
		t.Error("expected cleared flash")
	}
}

func TestFlashExpires(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }
	f.Warn("slow")
	now = now.Add(warnTTL - time.Second)
	if f.Get() != "slow" {
		t.Error("message should still be shown")
	}
	now = now.Add(2 * time.Second)
	if f.Get() != "" {
		t.Error("expired message should not be returned")
	}
}

func TestPagesStack(t *testing.T) {
	p := NewPages()
	for _, name := range []string{"auth", "mailbox", "email"} {
		p.AddPage(name, tview.NewBox(), true, false)
	}
	var changes int
	p.SetOnChange(func([]string) { changes++ })

	p.Reset("mailbox")
	p.Push("email")
	if p.Current() != "email" || p.Depth() != 2 {
		t.Fatalf("got %s depth %d", p.Current(), p.Depth())
	}
	if top := p.Pop(); top != "email" {
		t.Errorf("popped %q", top)
	}
	if p.Current() != "mailbox" {
		t.Errorf("current %q, want mailbox", p.Current())
	}
	if p.Pop() != "" {
		t.Error("the last page should never be popped")
	}
	p.Push("mailbox")
	if p.Depth() != 1 {
		t.Errorf("pushing the current page should be a no-op, depth %d", p.Depth())
	}
	if changes != 3 {
		t.Errorf("got %d change notifications, want 3", changes)
	}
}

func TestPromptCompletesCommands(t *testing.T) {
	p := NewPrompt(DefaultTheme())
	p.SetCommands([]string{"inbox", "sent", "spam", "signout"})
	p.Activate(PromptCommand)

	got := p.complete("s")
	if len(got) != 3 {
		t.Errorf("got %v, want three s-commands", got)
	}
	if got := p.complete("sp"); len(got) != 1 || got[0] != "spam" {
		t.Errorf("got %v, want [spam]", got)
	}
	if got := p.complete("compose bob"); got != nil {
		t.Errorf("arguments should not complete, got %v", got)
	}

	p.Activate(PromptFilter)
	if got := p.complete("s"); got != nil {
		t.Errorf("filter mode should not complete, got %v", got)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{59 * time.Minute, "59m"},
		{65 * time.Minute, "1h5m"},
	}
	for _, tt := range tests {
		if got := FormatUptime(tt.d); got != tt.want {
			t.Errorf("FormatUptime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestAvatarColor(t *testing.T) {
	th := DefaultTheme()
	if got := th.AvatarColor("#7c3aed"); got != tcell.NewHexColor(0x7c3aed) {
		t.Errorf("got %v", got)
	}
	if got := th.AvatarColor("not-a-color"); got != th.MutedColor {
		t.Errorf("got %v, want muted", got)
	}
}
