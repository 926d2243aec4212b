package api

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/mailbox"
	"github.com/matheus3301/raveoir/internal/model"
	"github.com/matheus3301/raveoir/internal/status"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// MailService implements MailServer.
type MailService struct {
	instance string
	mail     *mailbox.Sync
	machine  *status.Machine
	bus      *bus.Bus
}

// NewMailService creates a new mail service.
func NewMailService(instance string, mail *mailbox.Sync, machine *status.Machine, b *bus.Bus) *MailService {
	return &MailService{instance: instance, mail: mail, machine: machine, bus: b}
}

func (s *MailService) Refresh(ctx context.Context, _ *Empty) (*RefreshResponse, error) {
	snap, err := s.mail.Fetch(ctx)
	if err != nil {
		return nil, toStatus(err, "Failed to refresh mailbox")
	}
	return &RefreshResponse{
		Counts:      counts(snap),
		Unread:      snap.UnreadCount(),
		ArchivedNow: snap.ArchivedNow,
	}, nil
}

func (s *MailService) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	tab := mailbox.TabInbox
	if req.Tab != "" {
		t, err := mailbox.ParseTab(req.Tab)
		if err != nil {
			return nil, grpcstatus.Error(codes.InvalidArgument, err.Error())
		}
		tab = t
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, toStatus(err, "Failed to load emails")
	}
	return &ListResponse{Tab: string(tab), Emails: snap.Tab(tab), Unread: snap.UnreadCount()}, nil
}

func (s *MailService) Open(ctx context.Context, req *EmailRequest) (*OpenResponse, error) {
	e, err := s.mail.Open(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err, "Failed to open email")
	}
	return &OpenResponse{Email: *e, Initial: model.Initial(e.From.Email)}, nil
}

func (s *MailService) Delete(ctx context.Context, req *EmailRequest) (*Empty, error) {
	if err := s.mail.Delete(ctx, req.ID); err != nil {
		return nil, toStatus(err, "Failed to delete email")
	}
	return &Empty{}, nil
}

func (s *MailService) Send(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	id, err := s.mail.Send(ctx, mailbox.Draft{To: req.To, Subject: req.Subject, Body: req.Body})
	if err != nil {
		return nil, toStatus(err, "Failed to send email. Please try again.")
	}
	return &SendResponse{ID: id}, nil
}

func (s *MailService) ReportSpam(ctx context.Context, req *SenderRequest) (*Empty, error) {
	if err := s.mail.ReportSpam(ctx, req.SenderID); err != nil {
		return nil, toStatus(err, "Failed to report as spam")
	}
	return &Empty{}, nil
}

func (s *MailService) RemoveSpam(ctx context.Context, req *SenderRequest) (*Empty, error) {
	if err := s.mail.RemoveSpam(ctx, req.SenderID); err != nil {
		return nil, toStatus(err, "Failed to remove from spam")
	}
	return &Empty{}, nil
}

// Watch streams mailbox updates and session changes until the client leaves.
func (s *MailService) Watch(_ *Empty, stream MailWatchServer) error {
	mailCh, unsubMail := s.bus.Subscribe("mailbox.", 64)
	defer unsubMail()
	sessCh, unsubSess := s.bus.Subscribe("session.", 64)
	defer unsubSess()

	for {
		var evt bus.Event
		select {
		case evt = <-mailCh:
		case evt = <-sessCh:
		case <-stream.Context().Done():
			return nil
		}
		if err := stream.Send(s.envelope(evt)); err != nil {
			return err
		}
	}
}

func (s *MailService) envelope(evt bus.Event) *MailEvent {
	out := &MailEvent{
		EventID:          uuid.NewString(),
		Instance:         s.instance,
		Kind:             evt.Kind,
		OccurredAtUnixMs: evt.Timestamp.UnixMilli(),
		State:            string(s.machine.Current()),
	}
	if snap, ok := evt.Payload.(*mailbox.Snapshot); ok {
		out.Counts = counts(snap)
		out.Unread = snap.UnreadCount()
	}
	return out
}

// snapshot returns the current snapshot, fetching once if none exists yet.
func (s *MailService) snapshot(ctx context.Context) (*mailbox.Snapshot, error) {
	snap, err := s.mail.Snapshot()
	if errors.Is(err, mailbox.ErrNoSnapshot) {
		return s.mail.Fetch(ctx)
	}
	return snap, err
}

func counts(snap *mailbox.Snapshot) map[string]int {
	out := make(map[string]int, len(mailbox.Tabs))
	for _, t := range mailbox.Tabs {
		out[string(t)] = len(snap.Tab(t))
	}
	return out
}
