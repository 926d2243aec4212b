package store

import (
	"context"
	"time"
)

// Account is an identity-provider record.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// InsertAccount creates an account. Returns ErrDuplicate when the email is taken.
func (db *DB) InsertAccount(ctx context.Context, a *Account) error {
	now := db.now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		a.ID, a.Email, a.PasswordHash, now.UnixMilli())
	if err != nil {
		return classify(err)
	}
	a.CreatedAt = fromMs(now.UnixMilli())
	return nil
}

// AccountByEmail returns the account registered under email.
func (db *DB) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	return db.scanAccount(db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, email))
}

// AccountByID returns the account with the given id.
func (db *DB) AccountByID(ctx context.Context, id string) (*Account, error) {
	return db.scanAccount(db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM accounts WHERE id = ?`, id))
}

func (db *DB) scanAccount(row interface{ Scan(...any) error }) (*Account, error) {
	var a Account
	var created int64
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &created); err != nil {
		return nil, classify(err)
	}
	a.CreatedAt = fromMs(created)
	return &a, nil
}

// InsertAuthSession records an opaque session token for an account.
func (db *DB) InsertAuthSession(ctx context.Context, token, accountID string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO auth_sessions (token, account_id, created_at) VALUES (?, ?, ?)`,
		token, accountID, db.nowMs())
	return classify(err)
}

// AuthSessionAccount resolves a session token to its account id.
func (db *DB) AuthSessionAccount(ctx context.Context, token string) (string, error) {
	var accountID string
	err := db.QueryRowContext(ctx, `SELECT account_id FROM auth_sessions WHERE token = ?`, token).Scan(&accountID)
	if err != nil {
		return "", classify(err)
	}
	return accountID, nil
}

// DeleteAuthSession removes a session token. Deleting an unknown token is not an error.
func (db *DB) DeleteAuthSession(ctx context.Context, token string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE token = ?`, token)
	return err
}
