package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matheus3301/raveoir/internal/backend"
	"github.com/matheus3301/raveoir/internal/identity"
	"github.com/matheus3301/raveoir/internal/mailbox"
	"github.com/matheus3301/raveoir/internal/model"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    codes.Code
		message string
	}{
		{"validation", model.Invalid("subject", "Please enter a subject"), codes.InvalidArgument, "Please enter a subject"},
		{"taken with suggestions",
			&model.ValidationError{Field: "email", Message: "This email is already taken. Try one of these suggestions:", Suggestions: []string{"a*x", "b*x"}},
			codes.AlreadyExists, "This email is already taken. Try one of these suggestions: a*x, b*x"},
		{"not signed in", identity.ErrNotSignedIn, codes.Unauthenticated, "not signed in"},
		{"bad credentials", backend.ErrInvalidCredentials, codes.Unauthenticated, "Invalid login credentials"},
		{"already reported", fmt.Errorf("report: %w", backend.ErrAlreadyReported), codes.AlreadyExists, "You already reported this sender as spam"},
		{"recipient", mailbox.ErrRecipientNotFound, codes.NotFound, "Recipient not found. Make sure the email is correct."},
		{"not found", fmt.Errorf("delete email: %w", backend.ErrNotFound), codes.NotFound, "Email not found"},
		{"session changed", mailbox.ErrSessionChanged, codes.Aborted, "Session changed, try again"},
		{"canceled", context.Canceled, codes.Canceled, context.Canceled.Error()},
		{"anything else", errors.New("disk on fire"), codes.Internal, "Failed to delete email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := grpcstatus.FromError(toStatus(tt.err, "Failed to delete email"))
			if !ok {
				t.Fatal("not a status error")
			}
			if st.Code() != tt.code || st.Message() != tt.message {
				t.Errorf("toStatus() = %v %q, want %v %q", st.Code(), st.Message(), tt.code, tt.message)
			}
		})
	}

	if toStatus(nil, "x") != nil {
		t.Error("toStatus(nil) should be nil")
	}
}

func TestJSONCodecRoundTrip(t *testing.T) {
	c := jsonCodec{}
	data, err := c.Marshal(&SendRequest{To: "bob*raveoir.github.io", Subject: "hi", Body: "there"})
	if err != nil {
		t.Fatal(err)
	}
	var got SendRequest
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.To != "bob*raveoir.github.io" || got.Subject != "hi" {
		t.Errorf("decoded = %+v", got)
	}
	if c.Name() != CodecName {
		t.Errorf("Name() = %q", c.Name())
	}
}
