package model

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestEmailValidate(t *testing.T) {
	valid := Email{
		ID:        "e1",
		CreatedAt: time.Now(),
		From:      Participant{ID: "a"},
		To:        Participant{ID: "b"},
	}
	tests := []struct {
		name    string
		mutate  func(e *Email)
		wantErr bool
	}{
		{"valid", func(e *Email) {}, false},
		{"no id", func(e *Email) { e.ID = "" }, true},
		{"no sender", func(e *Email) { e.From.ID = "" }, true},
		{"no recipient", func(e *Email) { e.To.ID = "" }, true},
		{"no timestamp", func(e *Email) { e.CreatedAt = time.Time{} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMissingField) {
				t.Errorf("error %v does not wrap ErrMissingField", err)
			}
		})
	}
}

func TestInvolvesAndIDs(t *testing.T) {
	e := Email{ID: "e1", From: Participant{ID: "a"}, To: Participant{ID: "b"}}
	if !e.Involves("a") || !e.Involves("b") || e.Involves("c") {
		t.Error("Involves() mismatch")
	}
	if got := IDs([]Email{{ID: "x"}, {ID: "y"}}); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("IDs() = %v", got)
	}
}

func TestAddressHelpers(t *testing.T) {
	if got := AuthAddress("alice*raveoir.github.io"); got != "alice@raveoir.github.io" {
		t.Errorf("AuthAddress() = %q", got)
	}
	if got := Address("bob", "raveoir.github.io"); got != "bob*raveoir.github.io" {
		t.Errorf("Address() = %q", got)
	}
	if got := Initial("zoe*x"); got != "Z" {
		t.Errorf("Initial() = %q, want Z", got)
	}
	if got := Initial(""); got != "?" {
		t.Errorf("Initial(\"\") = %q, want ?", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		p    Participant
		want string
	}{
		{Participant{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{Participant{FirstName: "Ada"}, "Ada"},
		{Participant{LastName: "Lovelace"}, "Lovelace"},
	}
	for _, tt := range tests {
		if got := tt.p.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestRandomAvatarColorInPalette(t *testing.T) {
	for range 20 {
		if c := RandomAvatarColor(); !slices.Contains(AvatarColors, c) {
			t.Fatalf("colour %q not in palette", c)
		}
	}
}
