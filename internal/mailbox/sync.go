// Package mailbox presents the signed-in user's mail: it fetches from the
// backend, moves aged emails into the local archive, classifies the rest into
// views and keeps them fresh on realtime signals and a periodic sweep.
package mailbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/model"
	"github.com/matheus3301/raveoir/internal/status"
	"go.uber.org/zap"
)

var (
	// ErrNoSnapshot is returned when no snapshot of the signed-in user exists.
	ErrNoSnapshot = errors.New("mailbox not fetched yet")
	// ErrSessionChanged is returned by a fetch whose user signed out or was
	// replaced before it completed. Its result is discarded.
	ErrSessionChanged = errors.New("session changed during fetch")
)

// Mailstore is the mail side of the backend.
type Mailstore interface {
	Emails(ctx context.Context, profileID string) ([]model.Email, error)
	Email(ctx context.Context, id string) (*model.Email, error)
	SpamSenders(ctx context.Context, profileID string) ([]string, error)
	MarkRead(ctx context.Context, id string) error
	DeleteEmail(ctx context.Context, profileID, id string) error
	DeleteEmails(ctx context.Context, ids []string) error
	SendEmail(ctx context.Context, fromID, toID, subject, body string) (string, error)
	ReportSpam(ctx context.Context, reporterID, senderID string) error
	RemoveSpam(ctx context.Context, reporterID, senderID string) error
	ProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
	Subscribe(buf int) (<-chan bus.Event, func())
}

// Archive is the local store aged emails are moved into.
type Archive interface {
	Merge(ctx context.Context, userID string, candidates []model.Email) (int, error)
	Entries(ctx context.Context, userID string) ([]model.Email, error)
	Remove(ctx context.Context, userID, id string) error
	Forget(userID string)
}

// Identity yields the signed-in profile.
type Identity interface {
	Profile() (model.Profile, error)
}

// Options tunes the sync.
type Options struct {
	RetentionDays int
	MailDomain    string
}

// Sync owns the mailbox snapshot of the signed-in user.
type Sync struct {
	store   Mailstore
	archive Archive
	session Identity
	machine *status.Machine
	bus     *bus.Bus
	logger  *zap.Logger
	opts    Options
	now     func() time.Time

	// fetchMu serialises fetches so archive merges and deletes never interleave.
	fetchMu sync.Mutex
	mu      sync.RWMutex
	snap    *Snapshot
}

// New creates a mailbox sync. machine and b may be nil.
func New(store Mailstore, archive Archive, session Identity, machine *status.Machine, b *bus.Bus, logger *zap.Logger, opts Options) *Sync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sync{
		store:   store,
		archive: archive,
		session: session,
		machine: machine,
		bus:     b,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}
}

// Snapshot returns the last published snapshot. A snapshot taken for a user
// who is no longer signed in is never returned.
func (s *Sync) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil || !s.owns(s.snap.ProfileID) {
		return nil, ErrNoSnapshot
	}
	return s.snap, nil
}

// owns reports whether profileID is the signed-in profile.
func (s *Sync) owns(profileID string) bool {
	p, err := s.session.Profile()
	return err == nil && p.ID == profileID
}

// Clear drops the snapshot and the archive view of the previous user.
func (s *Sync) Clear() {
	s.mu.Lock()
	prev := s.snap
	s.snap = nil
	s.mu.Unlock()
	if prev != nil {
		s.archive.Forget(prev.ProfileID)
	}
}

// Fetch retrieves the user's mail and spam set, archives aged emails and
// publishes a new snapshot. On a backend failure the previous snapshot is
// left in place.
func (s *Sync) Fetch(ctx context.Context) (*Snapshot, error) {
	profile, err := s.session.Profile()
	if err != nil {
		return nil, err
	}
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	s.moveTo(status.Syncing)
	snap, err := s.fetch(ctx, profile.ID)
	if err != nil {
		s.moveTo(status.Degraded)
		s.logger.Error("fetch failed", zap.String("profile_id", profile.ID), zap.Error(err))
		return nil, err
	}
	s.moveTo(status.Ready)

	s.mu.Lock()
	if !s.owns(profile.ID) {
		s.mu.Unlock()
		s.archive.Forget(profile.ID)
		s.logger.Info("fetch discarded, session changed", zap.String("profile_id", profile.ID))
		return nil, ErrSessionChanged
	}
	s.snap = snap
	s.mu.Unlock()
	s.bus.Emit(bus.KindMailboxUpdated, snap)
	return snap, nil
}

func (s *Sync) fetch(ctx context.Context, self string) (*Snapshot, error) {
	spam, err := s.store.SpamSenders(ctx, self)
	if err != nil {
		return nil, fmt.Errorf("fetch spam set: %w", err)
	}
	emails, err := s.store.Emails(ctx, self)
	if err != nil {
		return nil, fmt.Errorf("fetch emails: %w", err)
	}

	now := s.now()
	aged, current := Partition(emails, self, now, s.opts.RetentionDays)
	snap := &Snapshot{ProfileID: self, Spam: spam, Emails: emails, FetchedAt: now}

	if len(aged) > 0 {
		added, err := s.archive.Merge(ctx, self, aged)
		if err != nil {
			// Nothing is deleted unless the archive holds it.
			s.logger.Error("archive merge failed, keeping aged emails", zap.Int("aged", len(aged)), zap.Error(err))
		} else {
			ids := model.IDs(aged)
			if err := s.store.DeleteEmails(ctx, ids); err != nil {
				s.logger.Warn("delete of archived emails failed", zap.Strings("ids", ids), zap.Error(err))
			}
			snap.Emails = current
			snap.ArchivedNow = added
			s.logger.Info("emails archived",
				zap.String("profile_id", self),
				zap.Int("aged", len(aged)),
				zap.Int("added", added))
		}
	}

	archived, err := s.archive.Entries(ctx, self)
	if err != nil {
		s.logger.Warn("archive unavailable", zap.Error(err))
		archived = []model.Email{}
	}
	snap.Archived = archived
	return snap, nil
}

// moveTo drives the status machine; states the machine cannot reach from
// where it is are skipped.
func (s *Sync) moveTo(to status.State) {
	if s.machine == nil || s.machine.Current() == to {
		return
	}
	if err := s.machine.Transition(to); err != nil {
		s.logger.Debug("status transition skipped", zap.Error(err))
	}
}
