package api

import (
	"context"
	"errors"
	"strings"

	"github.com/matheus3301/raveoir/internal/archive"
	"github.com/matheus3301/raveoir/internal/backend"
	"github.com/matheus3301/raveoir/internal/identity"
	"github.com/matheus3301/raveoir/internal/mailbox"
	"github.com/matheus3301/raveoir/internal/model"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// toStatus maps domain errors to gRPC status errors carrying a message fit
// for display. Unrecognised errors become Internal with fallback as message.
func toStatus(err error, fallback string) error {
	var verr *model.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		if len(verr.Suggestions) > 0 {
			return grpcstatus.Error(codes.AlreadyExists, verr.Message+" "+strings.Join(verr.Suggestions, ", "))
		}
		return grpcstatus.Error(codes.InvalidArgument, verr.Message)
	case errors.Is(err, identity.ErrNotSignedIn), errors.Is(err, archive.ErrNoUser):
		return grpcstatus.Error(codes.Unauthenticated, "not signed in")
	case errors.Is(err, backend.ErrInvalidCredentials):
		return grpcstatus.Error(codes.Unauthenticated, "Invalid login credentials")
	case errors.Is(err, backend.ErrEmailTaken):
		return grpcstatus.Error(codes.AlreadyExists, "User already registered")
	case errors.Is(err, backend.ErrAlreadyReported):
		return grpcstatus.Error(codes.AlreadyExists, "You already reported this sender as spam")
	case errors.Is(err, mailbox.ErrRecipientNotFound):
		return grpcstatus.Error(codes.NotFound, "Recipient not found. Make sure the email is correct.")
	case errors.Is(err, mailbox.ErrNotFound), errors.Is(err, backend.ErrNotFound):
		return grpcstatus.Error(codes.NotFound, "Email not found")
	case errors.Is(err, mailbox.ErrSessionChanged):
		return grpcstatus.Error(codes.Aborted, "Session changed, try again")
	case errors.Is(err, mailbox.ErrNoSnapshot):
		return grpcstatus.Error(codes.FailedPrecondition, "Mailbox not loaded yet")
	case errors.Is(err, context.Canceled):
		return grpcstatus.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return grpcstatus.Error(codes.DeadlineExceeded, err.Error())
	}
	return grpcstatus.Error(codes.Internal, fallback)
}
