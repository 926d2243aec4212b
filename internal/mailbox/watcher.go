package mailbox

import (
	"context"

	"github.com/matheus3301/raveoir/internal/bus"
	"go.uber.org/zap"
)

// Watcher re-fetches the mailbox whenever the backend signals a change and
// follows sign-in and sign-out.
type Watcher struct {
	sync   *Sync
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for s. Session events are read from b.
func NewWatcher(s *Sync, b *bus.Bus, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{sync: s, bus: b, logger: logger}
}

// Start subscribes to the realtime stream and session events.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	changes, unsubChanges := w.sync.store.Subscribe(64)
	sessions, unsubSessions := w.bus.Subscribe("session.signed_", 8)

	go func() {
		defer close(w.done)
		defer unsubChanges()
		defer unsubSessions()
		for {
			select {
			case <-changes:
				drain(changes)
				w.refetch(ctx)
			case evt := <-sessions:
				w.handleSession(ctx, evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the watcher and waits for it to exit.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (w *Watcher) handleSession(ctx context.Context, evt bus.Event) {
	switch evt.Kind {
	case bus.KindSignedIn:
		w.refetch(ctx)
	case bus.KindSignedOut:
		w.sync.Clear()
	}
}

func (w *Watcher) refetch(ctx context.Context) {
	if _, err := w.sync.session.Profile(); err != nil {
		return
	}
	if _, err := w.sync.Fetch(ctx); err != nil {
		w.logger.Warn("realtime refetch failed", zap.Error(err))
	}
}

// drain discards queued signals; one fetch covers all of them.
func drain(ch <-chan bus.Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
