package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/matheus3301/raveoir/internal/model"
	"github.com/matheus3301/raveoir/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an identity-provider account. email uses "@".
func (b *Backend) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acct := &store.Account{ID: b.newID(), Email: email, PasswordHash: hash}
	if err := b.db.InsertAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	b.logger.Info("account registered", zap.String("user_id", acct.ID))
	return accountUser(acct), nil
}

// Authenticate checks credentials and opens a session, returning its token.
func (b *Backend) Authenticate(ctx context.Context, email, password string) (string, *model.User, error) {
	acct, err := b.db.AccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := b.db.InsertAuthSession(ctx, token, acct.ID); err != nil {
		return "", nil, fmt.Errorf("open session: %w", err)
	}
	return token, accountUser(acct), nil
}

// SessionUser resolves a session token to its user.
func (b *Backend) SessionUser(ctx context.Context, token string) (*model.User, error) {
	accountID, err := b.db.AuthSessionAccount(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	acct, err := b.db.AccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return accountUser(acct), nil
}

// EndSession invalidates a token.
func (b *Backend) EndSession(ctx context.Context, token string) error {
	return b.db.DeleteAuthSession(ctx, token)
}

// CreateProfile inserts the public profile for a user. Duplicate addresses
// map to ErrEmailTaken.
func (b *Backend) CreateProfile(ctx context.Context, p *model.Profile) error {
	if p.ID == "" {
		p.ID = b.newID()
	}
	if err := b.db.InsertProfile(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// ProfileByUserID returns the profile owned by a user.
func (b *Backend) ProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := b.db.ProfileByUserID(ctx, userID)
	return p, mapStoreErr(err)
}

// ProfileByEmail returns the profile registered under an in-app address.
func (b *Backend) ProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	p, err := b.db.ProfileByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	return p, mapStoreErr(err)
}

// EmailTaken reports whether a profile already uses the address.
func (b *Backend) EmailTaken(ctx context.Context, email string) (bool, error) {
	return b.db.ProfileEmailExists(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func accountUser(a *store.Account) *model.User {
	return &model.User{ID: a.ID, Email: a.Email, CreatedAt: a.CreatedAt}
}
