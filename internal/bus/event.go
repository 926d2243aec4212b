package bus

import "time"

// Event kinds published inside the daemon. Subscribers filter by prefix, so
// "email." receives every primary store change.
const (
	KindEmailChanged   = "email.changed"
	KindSpamChanged    = "email.spam_changed"
	KindMailboxUpdated = "mailbox.updated"
	KindArchiveUpdated = "archive.updated"
	KindStatusChanged  = "session.status_changed"
	KindSignedIn       = "session.signed_in"
	KindSignedOut      = "session.signed_out"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// NewEvent stamps an event of the given kind with the current time.
func NewEvent(kind string, payload any) Event {
	return Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
}
