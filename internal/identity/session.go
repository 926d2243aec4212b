// Package identity owns the signed-in user: sign-up, sign-in, sign-out and
// the persisted session token that survives daemon restarts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/model"
	"github.com/matheus3301/raveoir/internal/status"
	"go.uber.org/zap"
)

var (
	// ErrNotSignedIn is returned by operations that need a current user.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrNoProfile is returned when an account has no profile row.
	ErrNoProfile = errors.New("account has no profile")
)

// Provider is the identity side of the backend.
type Provider interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (string, *model.User, error)
	SessionUser(ctx context.Context, token string) (*model.User, error)
	EndSession(ctx context.Context, token string) error
	CreateProfile(ctx context.Context, p *model.Profile) error
	ProfileByUserID(ctx context.Context, userID string) (*model.Profile, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// Identity is the signed-in user and their profile.
type Identity struct {
	User    model.User
	Profile model.Profile
}

// Session is the single source of truth for who is signed in.
type Session struct {
	mu       sync.RWMutex
	provider Provider
	tokens   TokenStore
	machine  *status.Machine
	bus      *bus.Bus
	logger   *zap.Logger
	domain   string

	token   string
	current *Identity
}

// New creates a signed-out session. domain is the in-app mail domain used for
// suggestions.
func New(provider Provider, tokens TokenStore, machine *status.Machine, b *bus.Bus, logger *zap.Logger, domain string) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		provider: provider,
		tokens:   tokens,
		machine:  machine,
		bus:      b,
		logger:   logger,
		domain:   domain,
	}
}

// Domain returns the in-app mail domain.
func (s *Session) Domain() string {
	return s.domain
}

// Init restores the persisted session, if any. A stale or unknown token is
// cleared and leaves the session signed out.
func (s *Session) Init(ctx context.Context) error {
	token, err := s.tokens.Load()
	if errors.Is(err, ErrNoToken) {
		s.moveTo(status.SignedOut)
		return nil
	}
	if err != nil {
		s.moveTo(status.SignedOut)
		return err
	}

	id, err := s.resolve(ctx, token)
	if err != nil {
		s.logger.Info("persisted session no longer valid", zap.Error(err))
		_ = s.tokens.Clear()
		s.moveTo(status.SignedOut)
		return nil
	}
	s.adopt(token, id)
	s.moveTo(status.Ready)
	s.logger.Info("session restored", zap.String("profile_id", id.Profile.ID))
	return nil
}

// Current returns a copy of the signed-in identity, or nil.
func (s *Session) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	id := *s.current
	return &id
}

// Profile returns the signed-in profile or ErrNotSignedIn.
func (s *Session) Profile() (model.Profile, error) {
	id := s.Current()
	if id == nil {
		return model.Profile{}, ErrNotSignedIn
	}
	return id.Profile, nil
}

// CheckEmailExists reports whether an in-app address is already taken.
func (s *Session) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	return s.provider.EmailTaken(ctx, strings.TrimSpace(email))
}

// SignUp registers an account and profile, then signs in. A taken address
// returns a *ValidationError listing free alternatives.
func (s *Session) SignUp(ctx context.Context, req SignUpRequest) (*Identity, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)

	taken, err := s.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		suggestions, err := s.SuggestEmails(ctx, req.FirstName, req.LastName)
		if err != nil {
			s.logger.Warn("email suggestions failed", zap.Error(err))
		}
		return nil, &model.ValidationError{
			Field:       "email",
			Message:     "This email is already taken. Try one of these suggestions:",
			Suggestions: suggestions,
		}
	}

	user, err := s.provider.Register(ctx, model.AuthAddress(email), req.Password)
	if err != nil {
		return nil, err
	}
	profile := &model.Profile{
		UserID:      user.ID,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       email,
		AvatarColor: model.RandomAvatarColor(),
	}
	if err := s.provider.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("signed up", zap.String("profile_id", profile.ID))
	return s.SignIn(ctx, email, req.Password)
}

// SignIn authenticates with an in-app address and persists the session token.
// Signing in while signed in replaces the previous session.
func (s *Session) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	if s.Current() != nil {
		if err := s.SignOut(ctx); err != nil {
			return nil, err
		}
	}
	s.moveTo(status.Authenticating)

	token, user, err := s.provider.Authenticate(ctx, model.AuthAddress(strings.TrimSpace(email)), password)
	if err != nil {
		s.moveTo(status.SignedOut)
		return nil, err
	}
	profile, err := s.provider.ProfileByUserID(ctx, user.ID)
	if err != nil {
		_ = s.provider.EndSession(ctx, token)
		s.moveTo(status.SignedOut)
		return nil, fmt.Errorf("%w: %v", ErrNoProfile, err)
	}
	if err := s.tokens.Save(token); err != nil {
		s.logger.Warn("session token not persisted", zap.Error(err))
	}

	id := &Identity{User: *user, Profile: *profile}
	s.adopt(token, id)
	s.moveTo(status.Ready)
	s.bus.Emit(bus.KindSignedIn, *id)
	s.logger.Info("signed in", zap.String("profile_id", profile.ID))
	return s.Current(), nil
}

// SignOut ends the backend session, forgets the persisted token and clears
// the current identity. Signing out while signed out is a no-op.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token, prev := s.token, s.current
	s.token, s.current = "", nil
	s.mu.Unlock()
	if prev == nil {
		return nil
	}

	if err := s.provider.EndSession(ctx, token); err != nil {
		s.logger.Warn("end session failed", zap.Error(err))
	}
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("clear session token failed", zap.Error(err))
	}
	s.moveTo(status.SignedOut)
	s.bus.Emit(bus.KindSignedOut, *prev)
	s.logger.Info("signed out", zap.String("profile_id", prev.Profile.ID))
	return nil
}

func (s *Session) resolve(ctx context.Context, token string) (*Identity, error) {
	user, err := s.provider.SessionUser(ctx, token)
	if err != nil {
		return nil, err
	}
	profile, err := s.provider.ProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoProfile, err)
	}
	return &Identity{User: *user, Profile: *profile}, nil
}

func (s *Session) adopt(token string, id *Identity) {
	s.mu.Lock()
	s.token, s.current = token, id
	s.mu.Unlock()
}

// moveTo drives the status machine. A state already reached or an invalid
// hop is logged and ignored.
func (s *Session) moveTo(to status.State) {
	if s.machine == nil || s.machine.Current() == to {
		return
	}
	if err := s.machine.Transition(to); err != nil {
		s.logger.Debug("status transition skipped", zap.Error(err))
	}
}
