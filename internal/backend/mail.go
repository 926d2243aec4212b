package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/model"
	"github.com/matheus3301/raveoir/internal/store"
)

// Emails returns every email the profile sent or received, newest first.
func (b *Backend) Emails(ctx context.Context, profileID string) ([]model.Email, error) {
	emails, err := b.db.ListEmailsFor(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return emails, nil
}

// Email returns one email by id.
func (b *Backend) Email(ctx context.Context, id string) (*model.Email, error) {
	e, err := b.db.GetEmail(ctx, id)
	return e, mapStoreErr(err)
}

// SendEmail inserts a new unread email and returns its id.
func (b *Backend) SendEmail(ctx context.Context, fromID, toID, subject, body string) (string, error) {
	id := b.newID()
	err := b.db.InsertEmail(ctx, &store.NewEmail{
		ID:         id,
		FromUserID: fromID,
		ToUserID:   toID,
		Subject:    subject,
		Body:       body,
		CreatedAt:  nowUTC(),
	})
	if err != nil {
		return "", fmt.Errorf("insert email: %w", err)
	}
	b.changed(bus.KindEmailChanged, OpInsert, id)
	return id, nil
}

// MarkRead flags an email as read.
func (b *Backend) MarkRead(ctx context.Context, id string) error {
	if err := b.db.MarkEmailRead(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	b.changed(bus.KindEmailChanged, OpUpdate, id)
	return nil
}

// DeleteEmail removes a single email owned by profileID, as sender or
// recipient. Another profile's email reads as ErrNotFound.
func (b *Backend) DeleteEmail(ctx context.Context, profileID, id string) error {
	if err := b.db.DeleteOwnEmail(ctx, id, profileID); err != nil {
		return mapStoreErr(err)
	}
	b.changed(bus.KindEmailChanged, OpDelete, id)
	return nil
}

// DeleteEmails removes a batch of emails in one statement.
func (b *Backend) DeleteEmails(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := b.db.DeleteEmails(ctx, ids)
	if err != nil {
		return fmt.Errorf("delete emails: %w", err)
	}
	if n > 0 {
		b.changed(bus.KindEmailChanged, OpDelete, ids...)
	}
	return nil
}

// SpamSenders returns the sender ids the profile reported as spam.
func (b *Backend) SpamSenders(ctx context.Context, profileID string) ([]string, error) {
	ids, err := b.db.ReportedSenders(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list spam reports: %w", err)
	}
	return ids, nil
}

// ReportSpam records a spam report. Reporting the same sender twice returns
// ErrAlreadyReported.
func (b *Backend) ReportSpam(ctx context.Context, reporterID, senderID string) error {
	err := b.db.InsertSpamReport(ctx, b.newID(), reporterID, senderID)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyReported
		}
		return fmt.Errorf("insert spam report: %w", err)
	}
	b.changed(bus.KindSpamChanged, OpInsert, senderID)
	return nil
}

// RemoveSpam deletes a spam report.
func (b *Backend) RemoveSpam(ctx context.Context, reporterID, senderID string) error {
	if err := b.db.DeleteSpamReport(ctx, reporterID, senderID); err != nil {
		return fmt.Errorf("delete spam report: %w", err)
	}
	b.changed(bus.KindSpamChanged, OpDelete, senderID)
	return nil
}
