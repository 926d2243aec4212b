// Package archive keeps a per-user, device-local list of email snapshots that
// were evicted from the primary store.
//
// Each user's archive is one JSON array stored under KeyPrefix + "_" + userID.
// Every write rewrites the whole array. A payload that cannot be parsed reads
// as an empty archive rather than an error.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/model"
	"go.uber.org/zap"
)

// KeyPrefix namespaces archive payloads in the key/value store.
const KeyPrefix = "raveoir_archived_emails"

// ErrNoUser is returned when an operation is attempted without a user id.
var ErrNoUser = errors.New("archive: no user")

// Storage is the device-local key/value persistence the cache writes to.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Updated is the payload of bus.KindArchiveUpdated.
type Updated struct {
	UserID string
	Count  int
}

// Cache is the archive store for every user on this device. The in-memory
// view per user mirrors the last payload read or written.
type Cache struct {
	mu     sync.Mutex
	store  Storage
	bus    *bus.Bus
	logger *zap.Logger
	views  map[string][]model.Email
}

// New creates a cache over store. b may be nil.
func New(store Storage, b *bus.Bus, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:  store,
		bus:    b,
		logger: logger,
		views:  make(map[string][]model.Email),
	}
}

// Key returns the storage key for a user's archive.
func Key(userID string) string {
	return KeyPrefix + "_" + userID
}

// Load reads the user's archive from storage and refreshes the in-memory view.
// Missing or corrupt payloads yield an empty slice; only storage failures
// return an error.
func (c *Cache) Load(ctx context.Context, userID string) ([]model.Email, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.views[userID] = entries
	return slices.Clone(entries), nil
}

// Entries returns the in-memory view, loading it on first use.
func (c *Cache) Entries(ctx context.Context, userID string) ([]model.Email, error) {
	c.mu.Lock()
	view, ok := c.views[userID]
	c.mu.Unlock()
	if ok {
		return slices.Clone(view), nil
	}
	return c.Load(ctx, userID)
}

// Merge appends the candidates whose ids are not yet archived and persists the
// result. It returns how many entries were added; merging the same set again
// adds nothing.
func (c *Cache) Merge(ctx context.Context, userID string, candidates []model.Email) (int, error) {
	if userID == "" {
		return 0, ErrNoUser
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.read(ctx, userID)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(current)+len(candidates))
	for _, e := range current {
		seen[e.ID] = struct{}{}
	}
	merged := current
	for _, e := range candidates {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		merged = append(merged, e)
	}
	added := len(merged) - len(current)

	if err := c.write(ctx, userID, merged); err != nil {
		return 0, err
	}
	c.logger.Debug("archive merged",
		zap.String("user_id", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("added", added))
	return added, nil
}

// Remove deletes the entry with id from the user's archive. Removing an id
// that is not archived is a no-op.
func (c *Cache) Remove(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrNoUser
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.read(ctx, userID)
	if err != nil {
		return err
	}
	updated := slices.DeleteFunc(current, func(e model.Email) bool { return e.ID == id })
	return c.write(ctx, userID, updated)
}

// Forget drops the in-memory view for a user (on sign-out). Persisted data is kept.
func (c *Cache) Forget(userID string) {
	c.mu.Lock()
	delete(c.views, userID)
	c.mu.Unlock()
}

func (c *Cache) read(ctx context.Context, userID string) ([]model.Email, error) {
	payload, ok, err := c.store.Get(ctx, Key(userID))
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	if !ok {
		return []model.Email{}, nil
	}
	return c.decode(userID, payload), nil
}

func (c *Cache) write(ctx context.Context, userID string, entries []model.Email) error {
	if entries == nil {
		entries = []model.Email{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	if err := c.store.Set(ctx, Key(userID), payload); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	c.views[userID] = entries
	c.bus.Emit(bus.KindArchiveUpdated, Updated{UserID: userID, Count: len(entries)})
	return nil
}

// decode never fails: an unparsable payload is an empty archive, and entries
// missing required fields are skipped.
func (c *Cache) decode(userID string, payload []byte) []model.Email {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		c.logger.Warn("archive payload unreadable, treating as empty",
			zap.String("user_id", userID), zap.Error(err))
		return []model.Email{}
	}
	entries := make([]model.Email, 0, len(raw))
	for _, r := range raw {
		var e model.Email
		if err := json.Unmarshal(r, &e); err != nil {
			c.logger.Warn("skipping unreadable archive entry", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		if err := e.Validate(); err != nil {
			c.logger.Warn("skipping invalid archive entry", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries
}
