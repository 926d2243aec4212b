package backend

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/model"
	"github.com/matheus3301/raveoir/internal/store"
)

func testBackend(t *testing.T) (*Backend, *bus.Bus) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "backend.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	b := bus.New()
	return New(db, b, nil), b
}

// register creates an account plus profile for local*raveoir.github.io.
func register(t *testing.T, be *Backend, local string) *model.Profile {
	t.Helper()
	ctx := context.Background()
	u, err := be.Register(ctx, local+"@raveoir.github.io", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	p := &model.Profile{
		UserID:      u.ID,
		FirstName:   local,
		LastName:    "Test",
		Email:       model.Address(local, "raveoir.github.io"),
		AvatarColor: model.AvatarColors[0],
	}
	if err := be.CreateProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRegisterAndAuthenticate(t *testing.T) {
	be, _ := testBackend(t)
	ctx := context.Background()

	u, err := be.Register(ctx, "Ann@raveoir.github.io", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "ann@raveoir.github.io" {
		t.Errorf("email = %q, want lower-cased", u.Email)
	}

	token, got, err := be.Authenticate(ctx, "ann@raveoir.github.io", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || token == "" {
		t.Errorf("Authenticate() = %q, %+v", token, got)
	}

	resolved, err := be.SessionUser(ctx, token)
	if err != nil || resolved.ID != u.ID {
		t.Fatalf("SessionUser() = %+v, %v", resolved, err)
	}

	if err := be.EndSession(ctx, token); err != nil {
		t.Fatal(err)
	}
	if _, err := be.SessionUser(ctx, token); !errors.Is(err, ErrNoSession) {
		t.Errorf("SessionUser() after end error = %v, want ErrNoSession", err)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	be, _ := testBackend(t)
	ctx := context.Background()
	if _, err := be.Register(ctx, "ann@raveoir.github.io", "secret1"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ann@raveoir.github.io", "nope"},
		{"unknown email", "bob@raveoir.github.io", "secret1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := be.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	be, _ := testBackend(t)
	ctx := context.Background()
	if _, err := be.Register(ctx, "ann@raveoir.github.io", "secret1"); err != nil {
		t.Fatal(err)
	}
	if _, err := be.Register(ctx, "ann@raveoir.github.io", "secret2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

func TestProfileLookup(t *testing.T) {
	be, _ := testBackend(t)
	ctx := context.Background()
	p := register(t, be, "ann")

	taken, err := be.EmailTaken(ctx, "ann*raveoir.github.io")
	if err != nil || !taken {
		t.Errorf("EmailTaken() = %v, %v; want true", taken, err)
	}
	byEmail, err := be.ProfileByEmail(ctx, " ANN*raveoir.github.io ")
	if err != nil || byEmail.ID != p.ID {
		t.Errorf("ProfileByEmail() = %+v, %v", byEmail, err)
	}
	if _, err := be.ProfileByEmail(ctx, "zed*raveoir.github.io"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ProfileByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestSendEmailSignalsChange(t *testing.T) {
	be, _ := testBackend(t)
	ctx := context.Background()
	ann := register(t, be, "ann")
	bob := register(t, be, "bob")

	ch, unsub := be.Subscribe(8)
	defer unsub()

	id, err := be.SendEmail(ctx, bob.ID, ann.ID, "hi", "hello")
	if err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		c, ok := evt.Payload.(Change)
		if evt.Kind != bus.KindEmailChanged || !ok || c.Op != OpInsert || !slices.Equal(c.IDs, []string{id}) {
			t.Errorf("event = %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no change signal")
	}

	emails, err := be.Emails(ctx, ann.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(emails) != 1 || emails[0].From.ID != bob.ID || emails[0].IsRead {
		t.Errorf("emails = %+v", emails)
	}
}

func TestMarkReadAndDelete(t *testing.T) {
	be, _ := testBackend(t)
	ctx := context.Background()
	ann := register(t, be, "ann")
	bob := register(t, be, "bob")

	id, err := be.SendEmail(ctx, bob.ID, ann.ID, "hi", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if err := be.MarkRead(ctx, id); err != nil {
		t.Fatal(err)
	}
	e, err := be.Email(ctx, id)
	if err != nil || !e.IsRead {
		t.Fatalf("Email() = %+v, %v", e, err)
	}

	if err := be.DeleteEmail(ctx, ann.ID, id); err != nil {
		t.Fatal(err)
	}
	if err := be.DeleteEmail(ctx, ann.ID, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	if err := be.MarkRead(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRead(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteEmailRequiresOwner(t *testing.T) {
	be, _ := testBackend(t)
	ctx := context.Background()
	ann := register(t, be, "ann")
	bob := register(t, be, "bob")
	carol := register(t, be, "carol")

	id, err := be.SendEmail(ctx, bob.ID, carol.ID, "hi", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if err := be.DeleteEmail(ctx, ann.ID, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteEmail by outsider error = %v, want ErrNotFound", err)
	}
	if _, err := be.Email(ctx, id); err != nil {
		t.Fatalf("email gone after outsider delete: %v", err)
	}
	if err := be.DeleteEmail(ctx, bob.ID, id); err != nil {
		t.Errorf("DeleteEmail by sender error = %v", err)
	}
}

func TestDeleteEmailsBatch(t *testing.T) {
	be, _ := testBackend(t)
	ctx := context.Background()
	ann := register(t, be, "ann")
	bob := register(t, be, "bob")

	var ids []string
	for range 3 {
		id, err := be.SendEmail(ctx, bob.ID, ann.ID, "s", "b")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	if err := be.DeleteEmails(ctx, ids[:2]); err != nil {
		t.Fatal(err)
	}
	emails, _ := be.Emails(ctx, ann.ID)
	if got := model.IDs(emails); !slices.Equal(got, ids[2:]) {
		t.Errorf("remaining = %v, want %v", got, ids[2:])
	}
	if err := be.DeleteEmails(ctx, nil); err != nil {
		t.Errorf("DeleteEmails(nil) error = %v", err)
	}
}

func TestSpamReports(t *testing.T) {
	be, _ := testBackend(t)
	ctx := context.Background()
	ann := register(t, be, "ann")
	bob := register(t, be, "bob")

	if err := be.ReportSpam(ctx, ann.ID, bob.ID); err != nil {
		t.Fatal(err)
	}
	if err := be.ReportSpam(ctx, ann.ID, bob.ID); !errors.Is(err, ErrAlreadyReported) {
		t.Errorf("second report error = %v, want ErrAlreadyReported", err)
	}
	senders, err := be.SpamSenders(ctx, ann.ID)
	if err != nil || !slices.Equal(senders, []string{bob.ID}) {
		t.Errorf("SpamSenders() = %v, %v", senders, err)
	}

	if err := be.RemoveSpam(ctx, ann.ID, bob.ID); err != nil {
		t.Fatal(err)
	}
	senders, _ = be.SpamSenders(ctx, ann.ID)
	if len(senders) != 0 {
		t.Errorf("SpamSenders() after remove = %v", senders)
	}
}
