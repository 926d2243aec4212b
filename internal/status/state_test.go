package status

import (
	"testing"

	"github.com/matheus3301/raveoir/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Booting {
		t.Errorf("initial state = %s, want BOOTING", m.Current())
	}
	if m.SignedIn() {
		t.Error("SignedIn() = true while booting")
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Booting, SignedOut},
		{Booting, Ready},
		{Booting, Error},
		{SignedOut, Authenticating},
		{Authenticating, Ready},
		{Authenticating, SignedOut},
		{Ready, Syncing},
		{Syncing, Ready},
		{Syncing, Degraded},
		{Degraded, Syncing},
		{Degraded, SignedOut},
		{Error, SignedOut},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Booting, Syncing},
		{SignedOut, Syncing},
		{SignedOut, Ready},
		{Syncing, Syncing},
		{Ready, Authenticating},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to); err == nil {
				t.Errorf("Transition(%s -> %s) should fail", tt.from, tt.to)
			}
			if m.Current() != tt.from {
				t.Errorf("state = %s, want unchanged %s", m.Current(), tt.from)
			}
		})
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(SignedOut); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != bus.KindStatusChanged {
		t.Errorf("event kind = %q, want %s", evt.Kind, bus.KindStatusChanged)
	}
	change, ok := evt.Payload.(StatusChange)
	if !ok {
		t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
	}
	if change.From != Booting || change.To != SignedOut {
		t.Errorf("change = %v -> %v, want BOOTING -> SIGNED_OUT", change.From, change.To)
	}
}

// TestSignInSyncSignOutLifecycle walks a first run:
// BOOTING → SIGNED_OUT → AUTHENTICATING → READY → SYNCING → READY → SIGNED_OUT
func TestSignInSyncSignOutLifecycle(t *testing.T) {
	m := NewMachine(nil)

	for _, s := range []State{SignedOut, Authenticating, Ready, Syncing, Ready, SignedOut} {
		if err := m.Transition(s); err != nil {
			t.Fatalf("Transition to %s: %v (current: %s)", s, err, m.Current())
		}
	}
	if m.SignedIn() {
		t.Error("SignedIn() = true after sign-out")
	}
}

func TestSignedInStates(t *testing.T) {
	for _, s := range []State{Ready, Syncing, Degraded} {
		m := NewMachine(nil)
		walkTo(t, m, s)
		if !m.SignedIn() {
			t.Errorf("SignedIn() = false in %s", s)
		}
	}
}

// walkTo is a helper that transitions the machine to a target state.
func walkTo(t *testing.T, m *Machine, target State) {
	t.Helper()
	paths := map[State][]State{
		Booting:        {},
		SignedOut:      {SignedOut},
		Authenticating: {SignedOut, Authenticating},
		Ready:          {Ready},
		Syncing:        {Ready, Syncing},
		Degraded:       {Ready, Syncing, Degraded},
		Error:          {Error},
	}
	for _, s := range paths[target] {
		if err := m.Transition(s); err != nil {
			t.Fatalf("walkTo(%s): %v", target, err)
		}
	}
}
