package api

import (
	"context"

	"google.golang.org/grpc"
)

// Fully qualified service names.
const (
	SessionServiceName = "raveoir.v1.SessionService"
	MailServiceName    = "raveoir.v1.MailService"
	ArchiveServiceName = "raveoir.v1.ArchiveService"
)

// SessionServer is the server API for SessionService.
type SessionServer interface {
	Status(context.Context, *Empty) (*StatusResponse, error)
	SignUp(context.Context, *SignUpRequest) (*IdentityResponse, error)
	SignIn(context.Context, *SignInRequest) (*IdentityResponse, error)
	SignOut(context.Context, *Empty) (*Empty, error)
	CheckEmail(context.Context, *CheckEmailRequest) (*CheckEmailResponse, error)
	SuggestEmails(context.Context, *SuggestEmailsRequest) (*SuggestEmailsResponse, error)
}

// MailServer is the server API for MailService.
type MailServer interface {
	Refresh(context.Context, *Empty) (*RefreshResponse, error)
	List(context.Context, *ListRequest) (*ListResponse, error)
	Open(context.Context, *EmailRequest) (*OpenResponse, error)
	Delete(context.Context, *EmailRequest) (*Empty, error)
	Send(context.Context, *SendRequest) (*SendResponse, error)
	ReportSpam(context.Context, *SenderRequest) (*Empty, error)
	RemoveSpam(context.Context, *SenderRequest) (*Empty, error)
	Watch(*Empty, MailWatchServer) error
}

// ArchiveServer is the server API for ArchiveService.
type ArchiveServer interface {
	List(context.Context, *Empty) (*ListResponse, error)
	Remove(context.Context, *EmailRequest) (*Empty, error)
	Export(context.Context, *Empty) (*ExportResponse, error)
}

// MailWatchServer is the server side of the Watch stream.
type MailWatchServer interface {
	Send(*MailEvent) error
	grpc.ServerStream
}

type mailWatchServer struct {
	grpc.ServerStream
}

func (x *mailWatchServer) Send(m *MailEvent) error {
	return x.ServerStream.SendMsg(m)
}

// unary adapts a server method expression to a grpc.MethodDesc.
func unary[S, Req, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + service + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// SessionServiceDesc describes SessionService for grpc.Server.RegisterService.
var SessionServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(SessionServiceName, "Status", SessionServer.Status),
		unary(SessionServiceName, "SignUp", SessionServer.SignUp),
		unary(SessionServiceName, "SignIn", SessionServer.SignIn),
		unary(SessionServiceName, "SignOut", SessionServer.SignOut),
		unary(SessionServiceName, "CheckEmail", SessionServer.CheckEmail),
		unary(SessionServiceName, "SuggestEmails", SessionServer.SuggestEmails),
	},
}

// MailServiceDesc describes MailService.
var MailServiceDesc = grpc.ServiceDesc{
	ServiceName: MailServiceName,
	HandlerType: (*MailServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MailServiceName, "Refresh", MailServer.Refresh),
		unary(MailServiceName, "List", MailServer.List),
		unary(MailServiceName, "Open", MailServer.Open),
		unary(MailServiceName, "Delete", MailServer.Delete),
		unary(MailServiceName, "Send", MailServer.Send),
		unary(MailServiceName, "ReportSpam", MailServer.ReportSpam),
		unary(MailServiceName, "RemoveSpam", MailServer.RemoveSpam),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName: "Watch",
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(Empty)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(MailServer).Watch(in, &mailWatchServer{stream})
			},
			ServerStreams: true,
		},
	},
}

// ArchiveServiceDesc describes ArchiveService.
var ArchiveServiceDesc = grpc.ServiceDesc{
	ServiceName: ArchiveServiceName,
	HandlerType: (*ArchiveServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ArchiveServiceName, "List", ArchiveServer.List),
		unary(ArchiveServiceName, "Remove", ArchiveServer.Remove),
		unary(ArchiveServiceName, "Export", ArchiveServer.Export),
	},
}

// Register adds all three services to srv.
func Register(srv *grpc.Server, session SessionServer, mail MailServer, archive ArchiveServer) {
	srv.RegisterService(&SessionServiceDesc, session)
	srv.RegisterService(&MailServiceDesc, mail)
	srv.RegisterService(&ArchiveServiceDesc, archive)
}
