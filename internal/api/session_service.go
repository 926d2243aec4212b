package api

import (
	"context"
	"time"

	"github.com/matheus3301/raveoir/internal/identity"
	"github.com/matheus3301/raveoir/internal/mailbox"
	"github.com/matheus3301/raveoir/internal/status"
)

// SessionService implements SessionServer.
type SessionService struct {
	instance  string
	startedAt time.Time
	session   *identity.Session
	mail      *mailbox.Sync
	machine   *status.Machine
}

// NewSessionService creates a new session service.
func NewSessionService(instance string, session *identity.Session, mail *mailbox.Sync, machine *status.Machine) *SessionService {
	return &SessionService{
		instance:  instance,
		startedAt: time.Now(),
		session:   session,
		mail:      mail,
		machine:   machine,
	}
}

func (s *SessionService) Status(_ context.Context, _ *Empty) (*StatusResponse, error) {
	resp := &StatusResponse{
		Instance: s.instance,
		State:    string(s.machine.Current()),
		UptimeMs: time.Since(s.startedAt).Milliseconds(),
	}
	if id := s.session.Current(); id != nil {
		resp.SignedIn = true
		resp.User = &id.User
		resp.Profile = &id.Profile
	}
	if snap, err := s.mail.Snapshot(); err == nil {
		resp.Unread = snap.UnreadCount()
		resp.Archived = len(snap.Archived)
	}
	return resp, nil
}

func (s *SessionService) SignUp(ctx context.Context, req *SignUpRequest) (*IdentityResponse, error) {
	id, err := s.session.SignUp(ctx, identity.SignUpRequest{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return nil, toStatus(err, "Sign up failed")
	}
	return &IdentityResponse{User: id.User, Profile: id.Profile}, nil
}

func (s *SessionService) SignIn(ctx context.Context, req *SignInRequest) (*IdentityResponse, error) {
	id, err := s.session.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err, "Sign in failed")
	}
	return &IdentityResponse{User: id.User, Profile: id.Profile}, nil
}

func (s *SessionService) SignOut(ctx context.Context, _ *Empty) (*Empty, error) {
	if err := s.session.SignOut(ctx); err != nil {
		return nil, toStatus(err, "Sign out failed")
	}
	return &Empty{}, nil
}

func (s *SessionService) CheckEmail(ctx context.Context, req *CheckEmailRequest) (*CheckEmailResponse, error) {
	exists, err := s.session.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, toStatus(err, "Could not check email")
	}
	return &CheckEmailResponse{Exists: exists}, nil
}

func (s *SessionService) SuggestEmails(ctx context.Context, req *SuggestEmailsRequest) (*SuggestEmailsResponse, error) {
	suggestions, err := s.session.SuggestEmails(ctx, req.FirstName, req.LastName)
	if err != nil {
		return nil, toStatus(err, "Could not suggest emails")
	}
	return &SuggestEmailsResponse{
		Default:     identity.DefaultAddress(req.FirstName, req.LastName, s.session.Domain()),
		Suggestions: suggestions,
	}, nil
}
