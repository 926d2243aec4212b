package api

import (
	"bytes"
	"context"

	"github.com/matheus3301/raveoir/internal/archive"
	"github.com/matheus3301/raveoir/internal/identity"
	"github.com/matheus3301/raveoir/internal/mailbox"
)

// ArchiveService implements ArchiveServer.
type ArchiveService struct {
	cache   *archive.Cache
	session *identity.Session
	mail    *mailbox.Sync
}

// NewArchiveService creates a new archive service.
func NewArchiveService(cache *archive.Cache, session *identity.Session, mail *mailbox.Sync) *ArchiveService {
	return &ArchiveService{cache: cache, session: session, mail: mail}
}

func (s *ArchiveService) List(ctx context.Context, _ *Empty) (*ListResponse, error) {
	profile, err := s.session.Profile()
	if err != nil {
		return nil, toStatus(err, "")
	}
	entries, err := s.cache.Entries(ctx, profile.ID)
	if err != nil {
		return nil, toStatus(err, "Failed to load archive")
	}
	return &ListResponse{Tab: string(mailbox.TabArchived), Emails: entries}, nil
}

func (s *ArchiveService) Remove(ctx context.Context, req *EmailRequest) (*Empty, error) {
	if err := s.mail.RemoveArchived(ctx, req.ID); err != nil {
		return nil, toStatus(err, "Failed to remove archived email")
	}
	return &Empty{}, nil
}

func (s *ArchiveService) Export(ctx context.Context, _ *Empty) (*ExportResponse, error) {
	profile, err := s.session.Profile()
	if err != nil {
		return nil, toStatus(err, "")
	}
	var buf bytes.Buffer
	n, err := s.cache.Export(ctx, profile.ID, &buf)
	if err != nil {
		return nil, toStatus(err, "Failed to export archive")
	}
	return &ExportResponse{Count: n, Mbox: buf.Bytes()}, nil
}
