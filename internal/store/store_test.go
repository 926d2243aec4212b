package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matheus3301/raveoir/internal/model"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedProfile creates an account and profile named after id.
func seedProfile(t *testing.T, db *DB, id string) *model.Profile {
	t.Helper()
	ctx := context.Background()
	if err := db.InsertAccount(ctx, &Account{ID: "acct-" + id, Email: id + "@raveoir.github.io", PasswordHash: []byte("x")}); err != nil {
		t.Fatal(err)
	}
	p := &model.Profile{
		ID: id, UserID: "acct-" + id, FirstName: id, LastName: "Test",
		Email: id + "*raveoir.github.io", AvatarColor: "#7c3aed",
	}
	if err := db.InsertProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestAccountLookup(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := &Account{ID: "a1", Email: "ann@raveoir.github.io", PasswordHash: []byte("hash")}
	if err := db.InsertAccount(ctx, a); err != nil {
		t.Fatal(err)
	}
	err := db.InsertAccount(ctx, &Account{ID: "a2", Email: a.Email, PasswordHash: []byte("h")})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email error = %v, want ErrDuplicate", err)
	}

	got, err := db.AccountByEmail(ctx, a.Email)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "a1" || string(got.PasswordHash) != "hash" {
		t.Errorf("AccountByEmail() = %+v", got)
	}
	if _, err := db.AccountByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AccountByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAuthSessions(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedProfile(t, db, "ann")

	if err := db.InsertAuthSession(ctx, "tok", "acct-ann"); err != nil {
		t.Fatal(err)
	}
	acct, err := db.AuthSessionAccount(ctx, "tok")
	if err != nil || acct != "acct-ann" {
		t.Fatalf("AuthSessionAccount() = %q, %v", acct, err)
	}
	if err := db.DeleteAuthSession(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AuthSessionAccount(ctx, "tok"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete error = %v, want ErrNotFound", err)
	}
}

func TestProfileLookups(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	p := seedProfile(t, db, "ann")

	byUser, err := db.ProfileByUserID(ctx, p.UserID)
	if err != nil || byUser.ID != "ann" {
		t.Fatalf("ProfileByUserID() = %+v, %v", byUser, err)
	}
	byEmail, err := db.ProfileByEmail(ctx, p.Email)
	if err != nil || byEmail.ID != "ann" {
		t.Fatalf("ProfileByEmail() = %+v, %v", byEmail, err)
	}
	exists, err := db.ProfileEmailExists(ctx, p.Email)
	if err != nil || !exists {
		t.Errorf("ProfileEmailExists() = %v, %v", exists, err)
	}
	exists, _ = db.ProfileEmailExists(ctx, "nobody*raveoir.github.io")
	if exists {
		t.Error("ProfileEmailExists(nobody) = true")
	}
	if _, err := db.ProfileByEmail(ctx, "nobody*raveoir.github.io"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ProfileByEmail(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestEmailLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedProfile(t, db, "ann")
	seedProfile(t, db, "bob")
	seedProfile(t, db, "cat")

	old := time.Now().Add(-96 * time.Hour)
	inserts := []NewEmail{
		{ID: "e1", FromUserID: "bob", ToUserID: "ann", Subject: "hi", Body: "hello", CreatedAt: old},
		{ID: "e2", FromUserID: "ann", ToUserID: "bob", Subject: "re", Body: "yo"},
		{ID: "e3", FromUserID: "bob", ToUserID: "cat", Subject: "private", Body: "not ann's"},
	}
	for i := range inserts {
		if err := db.InsertEmail(ctx, &inserts[i]); err != nil {
			t.Fatal(err)
		}
	}

	emails, err := db.ListEmailsFor(ctx, "ann")
	if err != nil {
		t.Fatal(err)
	}
	if got := model.IDs(emails); !slices.Equal(got, []string{"e2", "e1"}) {
		t.Fatalf("ListEmailsFor(ann) ids = %v, want [e2 e1]", got)
	}
	e1 := emails[1]
	if e1.From.FirstName != "bob" || e1.To.Email != "ann*raveoir.github.io" {
		t.Errorf("participants not joined: %+v", e1)
	}
	if e1.CreatedAt.UnixMilli() != old.UnixMilli() {
		t.Errorf("CreatedAt = %v, want %v", e1.CreatedAt, old)
	}
	if e1.IsRead {
		t.Error("new email should be unread")
	}

	if err := db.MarkEmailRead(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetEmail(ctx, "e1")
	if err != nil || !got.IsRead {
		t.Errorf("GetEmail(e1) = %+v, %v; want read", got, err)
	}
	if err := db.MarkEmailRead(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkEmailRead(missing) error = %v, want ErrNotFound", err)
	}

	n, err := db.DeleteEmails(ctx, []string{"e1", "e2", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("DeleteEmails() deleted %d, want 2", n)
	}
	if n, err := db.DeleteEmails(ctx, nil); n != 0 || err != nil {
		t.Errorf("DeleteEmails(nil) = %d, %v", n, err)
	}
	emails, _ = db.ListEmailsFor(ctx, "ann")
	if len(emails) != 0 {
		t.Errorf("after delete got %d emails, want 0", len(emails))
	}
}

func TestDeleteOwnEmail(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedProfile(t, db, "ann")
	seedProfile(t, db, "bob")
	seedProfile(t, db, "cat")
	if err := db.InsertEmail(ctx, &NewEmail{ID: "e1", FromUserID: "bob", ToUserID: "cat", Subject: "s", Body: "b"}); err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteOwnEmail(ctx, "e1", "ann"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteOwnEmail(e1, ann) error = %v, want ErrNotFound", err)
	}
	if _, err := db.GetEmail(ctx, "e1"); err != nil {
		t.Fatalf("GetEmail(e1) after foreign delete: %v", err)
	}
	if err := db.DeleteOwnEmail(ctx, "e1", "cat"); err != nil {
		t.Errorf("DeleteOwnEmail(e1, cat) error = %v", err)
	}
	if _, err := db.GetEmail(ctx, "e1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEmail(e1) error = %v, want ErrNotFound", err)
	}
}

func TestInsertEmailUnknownRecipient(t *testing.T) {
	db := testDB(t)
	seedProfile(t, db, "ann")

	err := db.InsertEmail(context.Background(), &NewEmail{ID: "e1", FromUserID: "ann", ToUserID: "ghost", Subject: "s", Body: "b"})
	if err == nil {
		t.Error("InsertEmail() to unknown profile should fail the foreign key")
	}
}

func TestSpamReports(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedProfile(t, db, "ann")
	seedProfile(t, db, "bob")

	if err := db.InsertSpamReport(ctx, "r1", "ann", "bob"); err != nil {
		t.Fatal(err)
	}
	err := db.InsertSpamReport(ctx, "r2", "ann", "bob")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("second report error = %v, want ErrDuplicate", err)
	}

	ids, err := db.ReportedSenders(ctx, "ann")
	if err != nil || !slices.Equal(ids, []string{"bob"}) {
		t.Errorf("ReportedSenders(ann) = %v, %v", ids, err)
	}
	if ids, _ := db.ReportedSenders(ctx, "bob"); len(ids) != 0 {
		t.Errorf("ReportedSenders(bob) = %v, want empty", ids)
	}

	if err := db.DeleteSpamReport(ctx, "ann", "bob"); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteSpamReport(ctx, "ann", "bob"); err != nil {
		t.Errorf("deleting a missing pair error = %v", err)
	}
	ids, _ = db.ReportedSenders(ctx, "ann")
	if len(ids) != 0 {
		t.Errorf("after delete ReportedSenders = %v", ids)
	}
}
