package model

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// AddressSeparator replaces "@" in in-app addresses (alice*raveoir.github.io).
const AddressSeparator = "*"

// AvatarColors is the palette a new profile's colour is drawn from.
var AvatarColors = []string{
	"#7c3aed", "#8b5cf6", "#a855f7", "#c084fc", "#6366f1",
	"#4f46e5", "#4338ca", "#5b21b6", "#7e22ce", "#9333ea",
}

// RandomAvatarColor picks a colour from AvatarColors.
func RandomAvatarColor() string {
	return AvatarColors[rand.IntN(len(AvatarColors))]
}

// User is an identity-provider account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the public record other users address mail to.
type Profile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	AvatarColor string    `json:"avatar_color"`
	CreatedAt   time.Time `json:"created_at"`
}

// Participant snapshots the profile for embedding in an Email.
func (p *Profile) Participant() Participant {
	return Participant{
		ID:          p.ID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		AvatarColor: p.AvatarColor,
	}
}

// AuthAddress converts an in-app address to the form the identity provider
// expects by replacing the first separator with "@".
func AuthAddress(addr string) string {
	return strings.Replace(addr, AddressSeparator, "@", 1)
}

// Address builds local*domain.
func Address(local, domain string) string {
	return local + AddressSeparator + domain
}

// Initial is the upper-cased first character shown in an avatar.
func Initial(addr string) string {
	r, _ := utf8.DecodeRuneInString(addr)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
