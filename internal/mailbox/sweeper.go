package mailbox

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper runs a fetch on a fixed interval so aged emails are archived even
// when nothing else triggers a fetch.
type Sweeper struct {
	sync     *Sync
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSweeper creates a sweeper for s.
func NewSweeper(s *Sync, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{sync: s, interval: interval, logger: logger}
}

// Start begins sweeping. The first sweep runs at once, so a restored
// session is fetched without waiting a full interval.
func (sw *Sweeper) Start(ctx context.Context) {
	ctx, sw.cancel = context.WithCancel(ctx)
	sw.done = make(chan struct{})
	go sw.loop(ctx)
}

// Stop stops the sweeper and waits for an in-flight sweep to finish.
func (sw *Sweeper) Stop() {
	if sw.cancel == nil {
		return
	}
	sw.cancel()
	<-sw.done
}

func (sw *Sweeper) loop(ctx context.Context) {
	defer close(sw.done)
	sw.Sweep(ctx)

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs one fetch cycle if a user is signed in.
func (sw *Sweeper) Sweep(ctx context.Context) {
	if _, err := sw.sync.session.Profile(); err != nil {
		return
	}
	snap, err := sw.sync.Fetch(ctx)
	if err != nil {
		sw.logger.Warn("sweep failed", zap.Error(err))
		return
	}
	if snap.ArchivedNow > 0 {
		sw.logger.Info("sweep archived emails", zap.Int("count", snap.ArchivedNow))
	}
}
