package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"
	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/kv"
	"github.com/matheus3301/raveoir/internal/model"
)

// memStorage is an in-memory Storage that counts writes.
type memStorage struct {
	data   map[string][]byte
	sets   int
	getErr error
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte)}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, key string, value []byte) error {
	m.sets++
	m.data[key] = slices.Clone(value)
	return nil
}

func email(id string) model.Email {
	return model.Email{
		ID:        id,
		Subject:   "subject " + id,
		Body:      "body " + id,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		From:      model.Participant{ID: "bob", Email: "bob*raveoir.github.io", FirstName: "Bob"},
		To:        model.Participant{ID: "ann", Email: "ann*raveoir.github.io", FirstName: "Ann"},
	}
}

func ids(t *testing.T, c *Cache, userID string) []string {
	t.Helper()
	entries, err := c.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", userID, err)
	}
	return model.IDs(entries)
}

func TestLoadEmpty(t *testing.T) {
	c := New(newMemStorage(), nil, nil)
	entries, err := c.Load(context.Background(), "ann")
	if err != nil {
		t.Fatal(err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("Load() = %v, want empty non-nil slice", entries)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := New(newMemStorage(), nil, nil)
	set := []model.Email{email("a"), email("b")}

	added, err := c.Merge(ctx, "ann", set)
	if err != nil || added != 2 {
		t.Fatalf("first Merge() = %d, %v; want 2", added, err)
	}
	once := ids(t, c, "ann")

	added, err = c.Merge(ctx, "ann", set)
	if err != nil || added != 0 {
		t.Fatalf("second Merge() = %d, %v; want 0", added, err)
	}
	if twice := ids(t, c, "ann"); !slices.Equal(once, twice) {
		t.Errorf("after second merge ids = %v, want %v", twice, once)
	}
}

func TestMergeIsUnionOnIDs(t *testing.T) {
	ctx := context.Background()
	c := New(newMemStorage(), nil, nil)

	if _, err := c.Merge(ctx, "ann", []model.Email{email("a"), email("b")}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Merge(ctx, "ann", []model.Email{email("b"), email("c")}); err != nil {
		t.Fatal(err)
	}
	if got := ids(t, c, "ann"); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("ids = %v, want [a b c]", got)
	}
}

func TestMergeDeduplicatesWithinBatch(t *testing.T) {
	c := New(newMemStorage(), nil, nil)
	added, err := c.Merge(context.Background(), "ann", []model.Email{email("a"), email("a")})
	if err != nil || added != 1 {
		t.Fatalf("Merge() = %d, %v; want 1", added, err)
	}
}

func TestMergeKeepsFirstSnapshot(t *testing.T) {
	ctx := context.Background()
	c := New(newMemStorage(), nil, nil)

	first := email("a")
	if _, err := c.Merge(ctx, "ann", []model.Email{first}); err != nil {
		t.Fatal(err)
	}
	changed := email("a")
	changed.Subject = "edited"
	if _, err := c.Merge(ctx, "ann", []model.Email{changed}); err != nil {
		t.Fatal(err)
	}
	entries, _ := c.Load(ctx, "ann")
	if entries[0].Subject != first.Subject {
		t.Errorf("subject = %q, archived snapshots must not change", entries[0].Subject)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	c := New(newMemStorage(), nil, nil)
	if _, err := c.Merge(ctx, "ann", []model.Email{email("a"), email("b")}); err != nil {
		t.Fatal(err)
	}

	if err := c.Remove(ctx, "ann", "a"); err != nil {
		t.Fatal(err)
	}
	if got := ids(t, c, "ann"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("ids = %v, want [b]", got)
	}
	view, _ := c.Entries(ctx, "ann")
	if got := model.IDs(view); !slices.Equal(got, []string{"b"}) {
		t.Errorf("in-memory view = %v, want [b]", got)
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	c := New(newMemStorage(), nil, nil)
	if _, err := c.Merge(ctx, "ann", []model.Email{email("a")}); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(ctx, "ann", "missing"); err != nil {
		t.Fatalf("Remove(missing) error = %v", err)
	}
	if got := ids(t, c, "ann"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("ids = %v, want [a]", got)
	}
}

func TestEveryWriteRewritesPayload(t *testing.T) {
	ctx := context.Background()
	s := newMemStorage()
	c := New(s, nil, nil)

	_, _ = c.Merge(ctx, "ann", []model.Email{email("a")})
	_, _ = c.Merge(ctx, "ann", []model.Email{email("a")})
	_ = c.Remove(ctx, "ann", "a")
	if s.sets != 3 {
		t.Errorf("storage writes = %d, want 3", s.sets)
	}
	if string(s.data[Key("ann")]) != "[]" {
		t.Errorf("payload = %s, want []", s.data[Key("ann")])
	}
}

func TestLoadAfterCorruptionIsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{{{"},
		{"object instead of array", `{"id":"a"}`},
		{"truncated", `[{"id":"a","subject":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemStorage()
			s.data[Key("ann")] = []byte(tt.payload)
			c := New(s, nil, nil)

			entries, err := c.Load(context.Background(), "ann")
			if err != nil {
				t.Fatalf("Load() error = %v, corruption must not surface", err)
			}
			if len(entries) != 0 {
				t.Errorf("Load() = %v, want empty", entries)
			}
		})
	}
}

func TestMergeOverCorruptPayload(t *testing.T) {
	s := newMemStorage()
	s.data[Key("ann")] = []byte("garbage")
	c := New(s, nil, nil)

	if _, err := c.Merge(context.Background(), "ann", []model.Email{email("a")}); err != nil {
		t.Fatal(err)
	}
	if got := ids(t, c, "ann"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("ids = %v, want [a]", got)
	}
}

func TestLoadSkipsInvalidEntries(t *testing.T) {
	s := newMemStorage()
	s.data[Key("ann")] = []byte(`[
		{"id":"ok","created_at":"2024-03-01T12:00:00Z","from_user":{"id":"bob"},"to_user":{"id":"ann"}},
		{"id":"","created_at":"2024-03-01T12:00:00Z","from_user":{"id":"bob"},"to_user":{"id":"ann"}},
		{"id":"bad-date","created_at":"yesterday","from_user":{"id":"bob"},"to_user":{"id":"ann"}},
		{"id":"no-sender","created_at":"2024-03-01T12:00:00Z","to_user":{"id":"ann"}}
	]`)
	c := New(s, nil, nil)

	if got := ids(t, c, "ann"); !slices.Equal(got, []string{"ok"}) {
		t.Errorf("ids = %v, want [ok]", got)
	}
}

func TestCrossUserIsolation(t *testing.T) {
	ctx := context.Background()
	c := New(newMemStorage(), nil, nil)

	if _, err := c.Merge(ctx, "ann", []model.Email{email("a")}); err != nil {
		t.Fatal(err)
	}
	if got := ids(t, c, "bob"); len(got) != 0 {
		t.Errorf("Load(bob) = %v, want empty", got)
	}
	if err := c.Remove(ctx, "bob", "a"); err != nil {
		t.Fatal(err)
	}
	if got := ids(t, c, "ann"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Load(ann) = %v after bob's remove, want [a]", got)
	}
}

func TestRequiresUser(t *testing.T) {
	ctx := context.Background()
	c := New(newMemStorage(), nil, nil)
	if _, err := c.Load(ctx, ""); !errors.Is(err, ErrNoUser) {
		t.Errorf("Load(\"\") error = %v, want ErrNoUser", err)
	}
	if _, err := c.Merge(ctx, "", []model.Email{email("a")}); !errors.Is(err, ErrNoUser) {
		t.Errorf("Merge(\"\") error = %v, want ErrNoUser", err)
	}
	if err := c.Remove(ctx, "", "a"); !errors.Is(err, ErrNoUser) {
		t.Errorf("Remove(\"\") error = %v, want ErrNoUser", err)
	}
}

func TestStorageErrorSurfaces(t *testing.T) {
	s := newMemStorage()
	s.getErr = errors.New("disk gone")
	c := New(s, nil, nil)
	if _, err := c.Load(context.Background(), "ann"); err == nil {
		t.Error("Load() should surface storage failures")
	}
}

func TestMergePublishesUpdate(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("archive.", 4)
	defer unsub()

	c := New(newMemStorage(), b, nil)
	if _, err := c.Merge(context.Background(), "ann", []model.Email{email("a"), email("b")}); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		u, ok := evt.Payload.(Updated)
		if !ok || u.UserID != "ann" || u.Count != 2 {
			t.Errorf("payload = %#v, want Updated{ann 2}", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no archive.updated event")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := kv.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(s, nil, nil).Merge(ctx, "ann", []model.Email{email("a")}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = kv.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	entries, err := New(s, nil, nil).Load(ctx, "ann")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Subject != "subject a" || entries[0].From.FirstName != "Bob" {
		t.Errorf("reloaded entries = %+v", entries)
	}
}

func TestExportMbox(t *testing.T) {
	ctx := context.Background()
	c := New(newMemStorage(), nil, nil)
	if _, err := c.Merge(ctx, "ann", []model.Email{email("a"), email("b")}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n, err := c.Export(ctx, "ann", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("Export() wrote %d, want 2", n)
	}

	r := mbox.NewReader(&buf)
	var subjects []string
	for {
		msg, err := r.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		mr, err := mail.CreateReader(msg)
		if err != nil {
			t.Fatal(err)
		}
		subject, _ := mr.Header.Subject()
		subjects = append(subjects, subject)
		from, _ := mr.Header.AddressList("From")
		if len(from) != 1 || from[0].Address != "bob@raveoir.github.io" {
			t.Errorf("From = %v, want bob@raveoir.github.io", from)
		}
	}
	if !slices.Equal(subjects, []string{"subject a", "subject b"}) {
		t.Errorf("subjects = %v", subjects)
	}
}
