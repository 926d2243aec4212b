package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/raveoir/internal/model"
)

// NewEmail is the insert shape of an email row.
type NewEmail struct {
	ID         string
	FromUserID string
	ToUserID   string
	Subject    string
	Body       string
	// CreatedAt defaults to now when zero.
	CreatedAt time.Time
}

// InsertEmail stores a new unread email.
func (db *DB) InsertEmail(ctx context.Context, e *NewEmail) error {
	now := db.nowMs()
	created := now
	if !e.CreatedAt.IsZero() {
		created = e.CreatedAt.UnixMilli()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO emails (id, from_user_id, to_user_id, subject, body, is_read, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		e.ID, e.FromUserID, e.ToUserID, e.Subject, e.Body, created, now)
	return classify(err)
}

const emailSelect = `
	SELECT e.id, e.subject, e.body, e.is_read, e.created_at,
		f.id, f.email, f.first_name, f.last_name, f.avatar_color,
		t.id, t.email, t.first_name, t.last_name, t.avatar_color
	FROM emails e
	JOIN profiles f ON f.id = e.from_user_id
	JOIN profiles t ON t.id = e.to_user_id`

// ListEmailsFor returns every email the profile sent or received, newest
// first, with sender and recipient snapshots joined in.
func (db *DB) ListEmailsFor(ctx context.Context, profileID string) ([]model.Email, error) {
	rows, err := db.QueryContext(ctx, emailSelect+`
		WHERE e.from_user_id = ? OR e.to_user_id = ?
		ORDER BY e.created_at DESC, e.id`, profileID, profileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var emails []model.Email
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, *e)
	}
	return emails, rows.Err()
}

// GetEmail returns a single joined email.
func (db *DB) GetEmail(ctx context.Context, id string) (*model.Email, error) {
	return scanEmail(db.QueryRowContext(ctx, emailSelect+` WHERE e.id = ?`, id))
}

func scanEmail(row interface{ Scan(...any) error }) (*model.Email, error) {
	var e model.Email
	var created int64
	err := row.Scan(&e.ID, &e.Subject, &e.Body, &e.IsRead, &created,
		&e.From.ID, &e.From.Email, &e.From.FirstName, &e.From.LastName, &e.From.AvatarColor,
		&e.To.ID, &e.To.Email, &e.To.FirstName, &e.To.LastName, &e.To.AvatarColor)
	if err != nil {
		return nil, classify(err)
	}
	e.CreatedAt = fromMs(created)
	return &e, nil
}

// MarkEmailRead sets is_read. Returns ErrNotFound when no row matched.
func (db *DB) MarkEmailRead(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `UPDATE emails SET is_read = 1, updated_at = ? WHERE id = ?`, db.nowMs(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteOwnEmail removes an email that profileID sent or received.
// Returns ErrNotFound when no such row exists for that profile.
func (db *DB) DeleteOwnEmail(ctx context.Context, id, profileID string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM emails WHERE id = ? AND (from_user_id = ? OR to_user_id = ?)`,
		id, profileID, profileID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteEmails removes the given ids in one statement and returns how many
// rows were deleted. Unknown ids are ignored.
func (db *DB) DeleteEmails(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	res, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM emails WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireRow(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
