// Package client dials a raveoird instance and exposes typed calls for each
// service.
package client

import (
	"context"
	"fmt"

	"github.com/matheus3301/raveoir/internal/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client wraps the gRPC connection to the daemon.
type Client struct {
	conn    *grpc.ClientConn
	Session *SessionClient
	Mail    *MailClient
	Archive *ArchiveClient
}

// New dials the daemon's Unix domain socket. The connection is lazy; the
// first call fails if no daemon is listening.
func New(socketPath string) (*Client, error) {
	conn, err := grpc.NewClient(
		"unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("dial daemon: %w", err)
	}
	return &Client{
		conn:    conn,
		Session: &SessionClient{conn: conn},
		Mail:    &MailClient{conn: conn},
		Archive: &ArchiveClient{conn: conn},
	}, nil
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func invoke[Resp any](ctx context.Context, conn *grpc.ClientConn, service, method string, in any) (*Resp, error) {
	out := new(Resp)
	if err := conn.Invoke(ctx, "/"+service+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SessionClient calls raveoir.v1.SessionService.
type SessionClient struct {
	conn *grpc.ClientConn
}

func (c *SessionClient) Status(ctx context.Context) (*api.StatusResponse, error) {
	return invoke[api.StatusResponse](ctx, c.conn, api.SessionServiceName, "Status", &api.Empty{})
}

func (c *SessionClient) SignUp(ctx context.Context, req *api.SignUpRequest) (*api.IdentityResponse, error) {
	return invoke[api.IdentityResponse](ctx, c.conn, api.SessionServiceName, "SignUp", req)
}

func (c *SessionClient) SignIn(ctx context.Context, email, password string) (*api.IdentityResponse, error) {
	return invoke[api.IdentityResponse](ctx, c.conn, api.SessionServiceName, "SignIn",
		&api.SignInRequest{Email: email, Password: password})
}

func (c *SessionClient) SignOut(ctx context.Context) error {
	_, err := invoke[api.Empty](ctx, c.conn, api.SessionServiceName, "SignOut", &api.Empty{})
	return err
}

func (c *SessionClient) CheckEmail(ctx context.Context, email string) (bool, error) {
	resp, err := invoke[api.CheckEmailResponse](ctx, c.conn, api.SessionServiceName, "CheckEmail",
		&api.CheckEmailRequest{Email: email})
	if err != nil {
		return false, err
	}
	return resp.Exists, nil
}

func (c *SessionClient) SuggestEmails(ctx context.Context, first, last string) (*api.SuggestEmailsResponse, error) {
	return invoke[api.SuggestEmailsResponse](ctx, c.conn, api.SessionServiceName, "SuggestEmails",
		&api.SuggestEmailsRequest{FirstName: first, LastName: last})
}

// MailClient calls raveoir.v1.MailService.
type MailClient struct {
	conn *grpc.ClientConn
}

func (c *MailClient) Refresh(ctx context.Context) (*api.RefreshResponse, error) {
	return invoke[api.RefreshResponse](ctx, c.conn, api.MailServiceName, "Refresh", &api.Empty{})
}

func (c *MailClient) List(ctx context.Context, tab string) (*api.ListResponse, error) {
	return invoke[api.ListResponse](ctx, c.conn, api.MailServiceName, "List", &api.ListRequest{Tab: tab})
}

func (c *MailClient) Open(ctx context.Context, id string) (*api.OpenResponse, error) {
	return invoke[api.OpenResponse](ctx, c.conn, api.MailServiceName, "Open", &api.EmailRequest{ID: id})
}

func (c *MailClient) Delete(ctx context.Context, id string) error {
	_, err := invoke[api.Empty](ctx, c.conn, api.MailServiceName, "Delete", &api.EmailRequest{ID: id})
	return err
}

func (c *MailClient) Send(ctx context.Context, req *api.SendRequest) (string, error) {
	resp, err := invoke[api.SendResponse](ctx, c.conn, api.MailServiceName, "Send", req)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *MailClient) ReportSpam(ctx context.Context, senderID string) error {
	_, err := invoke[api.Empty](ctx, c.conn, api.MailServiceName, "ReportSpam", &api.SenderRequest{SenderID: senderID})
	return err
}

func (c *MailClient) RemoveSpam(ctx context.Context, senderID string) error {
	_, err := invoke[api.Empty](ctx, c.conn, api.MailServiceName, "RemoveSpam", &api.SenderRequest{SenderID: senderID})
	return err
}

// WatchStream receives MailEvents until the context ends or the daemon stops.
type WatchStream struct {
	stream grpc.ClientStream
}

// Recv blocks for the next event.
func (w *WatchStream) Recv() (*api.MailEvent, error) {
	evt := new(api.MailEvent)
	if err := w.stream.RecvMsg(evt); err != nil {
		return nil, err
	}
	return evt, nil
}

// Watch opens the mailbox event stream.
func (c *MailClient) Watch(ctx context.Context) (*WatchStream, error) {
	desc := &api.MailServiceDesc.Streams[0]
	stream, err := c.conn.NewStream(ctx, desc, "/"+api.MailServiceName+"/"+desc.StreamName)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&api.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &WatchStream{stream: stream}, nil
}

// ArchiveClient calls raveoir.v1.ArchiveService.
type ArchiveClient struct {
	conn *grpc.ClientConn
}

func (c *ArchiveClient) List(ctx context.Context) (*api.ListResponse, error) {
	return invoke[api.ListResponse](ctx, c.conn, api.ArchiveServiceName, "List", &api.Empty{})
}

func (c *ArchiveClient) Remove(ctx context.Context, id string) error {
	_, err := invoke[api.Empty](ctx, c.conn, api.ArchiveServiceName, "Remove", &api.EmailRequest{ID: id})
	return err
}

func (c *ArchiveClient) Export(ctx context.Context) (*api.ExportResponse, error) {
	return invoke[api.ExportResponse](ctx, c.conn, api.ArchiveServiceName, "Export", &api.Empty{})
}
