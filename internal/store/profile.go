package store

import (
	"context"

	"github.com/matheus3301/raveoir/internal/model"
)

const profileColumns = `id, user_id, first_name, last_name, email, avatar_color, created_at`

// InsertProfile creates a profile. Returns ErrDuplicate when the user already
// has one or the address is taken.
func (db *DB) InsertProfile(ctx context.Context, p *model.Profile) error {
	now := db.nowMs()
	_, err := db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.FirstName, p.LastName, p.Email, p.AvatarColor, now)
	if err != nil {
		return classify(err)
	}
	p.CreatedAt = fromMs(now)
	return nil
}

// ProfileByUserID returns the profile owned by an account.
func (db *DB) ProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return scanProfile(db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID))
}

// ProfileByEmail returns the profile with the given in-app address.
func (db *DB) ProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return scanProfile(db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email))
}

// ProfileEmailExists reports whether any profile uses the address.
func (db *DB) ProfileEmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE email = ?`, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanProfile(row interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var created int64
	if err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.AvatarColor, &created); err != nil {
		return nil, classify(err)
	}
	p.CreatedAt = fromMs(created)
	return &p, nil
}
