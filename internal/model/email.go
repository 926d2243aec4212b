package model

import (
	"errors"
	"fmt"
	"time"
)

// Participant is the sender or recipient snapshot embedded in an Email.
// It reflects the profile at fetch time and is not kept in sync afterwards.
type Participant struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AvatarColor string `json:"avatar_color"`
}

// DisplayName joins first and last name.
func (p Participant) DisplayName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Email is a message row joined with its sender and recipient snapshots.
// The JSON form is also the archive payload format.
type Email struct {
	ID        string      `json:"id"`
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	IsRead    bool        `json:"is_read"`
	CreatedAt time.Time   `json:"created_at"`
	From      Participant `json:"from_user"`
	To        Participant `json:"to_user"`
}

// ErrMissingField is wrapped by Validate for every absent required field.
var ErrMissingField = errors.New("missing required field")

// Validate checks the fields every consumer relies on.
func (e *Email) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("email: %w: id", ErrMissingField)
	case e.From.ID == "":
		return fmt.Errorf("email %s: %w: from_user.id", e.ID, ErrMissingField)
	case e.To.ID == "":
		return fmt.Errorf("email %s: %w: to_user.id", e.ID, ErrMissingField)
	case e.CreatedAt.IsZero():
		return fmt.Errorf("email %s: %w: created_at", e.ID, ErrMissingField)
	}
	return nil
}

// Involves reports whether profileID is the sender or the recipient.
func (e *Email) Involves(profileID string) bool {
	return e.From.ID == profileID || e.To.ID == profileID
}

// IDs returns the identifiers of emails in order.
func IDs(emails []Email) []string {
	ids := make([]string, len(emails))
	for i := range emails {
		ids[i] = emails[i].ID
	}
	return ids
}
