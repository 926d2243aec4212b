package mailbox

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matheus3301/raveoir/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrRecipientNotFound is returned by Send for an unknown address.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrNotFound is returned for ids that are in neither the snapshot nor the archive.
	ErrNotFound = errors.New("email not found")
)

// Draft is a message being composed.
type Draft struct {
	To      string
	Subject string
	Body    string
}

// Validate checks the draft against the compose rules.
func (d *Draft) Validate(domain string) error {
	if !strings.Contains(d.To, model.AddressSeparator+domain) {
		return model.Invalid("to", fmt.Sprintf("Please enter a valid Raveoir email (e.g., user%s%s)", model.AddressSeparator, domain))
	}
	if strings.TrimSpace(d.Subject) == "" {
		return model.Invalid("subject", "Please enter a subject")
	}
	if strings.TrimSpace(d.Body) == "" {
		return model.Invalid("body", "Please enter a message")
	}
	return nil
}

// Open returns an email from the current snapshot or the archive. An unread
// inbox email is marked read first.
func (s *Sync) Open(ctx context.Context, id string) (*model.Email, error) {
	profile, err := s.session.Profile()
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot()
	if errors.Is(err, ErrNoSnapshot) {
		snap, err = s.Fetch(ctx)
	}
	if err != nil {
		return nil, err
	}
	if snap.ProfileID != profile.ID {
		return nil, ErrNoSnapshot
	}
	e, ok := snap.Find(id)
	if !ok {
		return nil, ErrNotFound
	}
	if snap.inInbox(e) && !e.IsRead {
		if err := s.store.MarkRead(ctx, id); err != nil {
			s.logger.Warn("mark read failed", zap.String("email_id", id), zap.Error(err))
		} else {
			e.IsRead = true
		}
	}
	return e, nil
}

// Delete removes one of the current user's emails from the primary store and
// refreshes. Emails the user neither sent nor received are not found.
func (s *Sync) Delete(ctx context.Context, id string) error {
	profile, err := s.session.Profile()
	if err != nil {
		return err
	}
	if err := s.store.DeleteEmail(ctx, profile.ID, id); err != nil {
		return fmt.Errorf("delete email: %w", err)
	}
	s.refresh(ctx)
	return nil
}

// Send validates and delivers a draft, returning the new email id.
func (s *Sync) Send(ctx context.Context, d Draft) (string, error) {
	profile, err := s.session.Profile()
	if err != nil {
		return "", err
	}
	if err := d.Validate(s.opts.MailDomain); err != nil {
		return "", err
	}
	to, err := s.store.ProfileByEmail(ctx, strings.TrimSpace(d.To))
	if err != nil {
		s.logger.Debug("recipient lookup failed", zap.String("to", d.To), zap.Error(err))
		return "", ErrRecipientNotFound
	}
	id, err := s.store.SendEmail(ctx, profile.ID, to.ID, strings.TrimSpace(d.Subject), strings.TrimSpace(d.Body))
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	s.logger.Info("email sent", zap.String("email_id", id), zap.String("to", to.ID))
	s.refresh(ctx)
	return id, nil
}

// ReportSpam flags a sender for the current user.
func (s *Sync) ReportSpam(ctx context.Context, senderID string) error {
	profile, err := s.session.Profile()
	if err != nil {
		return err
	}
	if err := s.store.ReportSpam(ctx, profile.ID, senderID); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

// RemoveSpam unflags a sender for the current user.
func (s *Sync) RemoveSpam(ctx context.Context, senderID string) error {
	profile, err := s.session.Profile()
	if err != nil {
		return err
	}
	if err := s.store.RemoveSpam(ctx, profile.ID, senderID); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

// RemoveArchived drops an entry from the current user's archive.
func (s *Sync) RemoveArchived(ctx context.Context, id string) error {
	profile, err := s.session.Profile()
	if err != nil {
		return err
	}
	if err := s.archive.Remove(ctx, profile.ID, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

// refresh re-fetches after a user action. Its failure does not fail the action.
func (s *Sync) refresh(ctx context.Context) {
	if _, err := s.Fetch(ctx); err != nil {
		s.logger.Warn("refresh after action failed", zap.Error(err))
	}
}
