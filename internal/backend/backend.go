// Package backend is the managed backend the application talks to: identity
// provider, relational mail store and a realtime change signal, all on top of
// the instance's SQLite database.
package backend

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/store"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrEmailTaken is returned when registering an address already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNoSession is returned for unknown or ended session tokens.
	ErrNoSession = errors.New("no such session")
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyReported is the unique-pair violation on spam reports.
	ErrAlreadyReported = errors.New("sender already reported")
)

// Change is the payload of bus.KindEmailChanged and bus.KindSpamChanged.
type Change struct {
	Op  string
	IDs []string
}

// Change operations.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Backend serves identity and mail operations against the store.
type Backend struct {
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger
	newID  func() string
}

// New creates a backend over an open, migrated store. Change signals are
// published on b; a nil b gets a private bus.
func New(db *store.DB, b *bus.Bus, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if b == nil {
		b = bus.New()
	}
	return &Backend{
		db:     db,
		bus:    b,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
}

// Subscribe returns the realtime change stream for the emails relation.
// Every event means "something changed"; consumers re-fetch.
func (b *Backend) Subscribe(buf int) (<-chan bus.Event, func()) {
	return b.bus.Subscribe("email.", buf)
}

func (b *Backend) changed(kind string, op string, ids ...string) {
	b.bus.Emit(kind, Change{Op: op, IDs: ids})
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
