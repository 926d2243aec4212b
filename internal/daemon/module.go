package daemon

import (
	"context"

	"github.com/matheus3301/raveoir/internal/api"
	"github.com/matheus3301/raveoir/internal/archive"
	"github.com/matheus3301/raveoir/internal/backend"
	"github.com/matheus3301/raveoir/internal/bus"
	"github.com/matheus3301/raveoir/internal/config"
	"github.com/matheus3301/raveoir/internal/identity"
	"github.com/matheus3301/raveoir/internal/instance"
	"github.com/matheus3301/raveoir/internal/kv"
	"github.com/matheus3301/raveoir/internal/lock"
	"github.com/matheus3301/raveoir/internal/logging"
	"github.com/matheus3301/raveoir/internal/mailbox"
	"github.com/matheus3301/raveoir/internal/status"
	"github.com/matheus3301/raveoir/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved instance configuration passed to the fx module.
type Params struct {
	InstanceName string
	SocketPath   string // optional override for testing; empty = use default
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideArchiveStore,
			provideBackend,
			provideArchive,
			provideTokens,
			provideSession,
			provideMailbox,
			provideWatcher,
			provideSweeper,
			provideSessionService,
			provideMailService,
			provideArchiveService,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() (*config.Config, error) {
	return config.LoadOrDefault(instance.ConfigPath())
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	if err := instance.EnsureDir(p.InstanceName); err != nil {
		return nil, err
	}
	return logging.New(instance.LogPath(p.InstanceName), p.InstanceName, cfg.LogLevel)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring instance lock", zap.String("instance", p.InstanceName))
	l, err := lock.Acquire(instance.Dir(p.InstanceName))
	if err != nil {
		return nil, err
	}
	logger.Info("instance lock acquired")
	return l, nil
}

// provideStore depends on the lock so no second daemon touches the database.
func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := instance.BackendDBPath(p.InstanceName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideArchiveStore(p Params, _ *lock.Lock, logger *zap.Logger) (*kv.Store, error) {
	path := instance.ArchiveDBPath(p.InstanceName)
	s, err := kv.Open(path)
	if err != nil {
		return nil, err
	}
	logger.Info("archive store initialized", zap.String("path", path))
	return s, nil
}

func provideBackend(db *store.DB, b *bus.Bus, logger *zap.Logger) *backend.Backend {
	return backend.New(db, b, logger.Named("backend"))
}

func provideArchive(s *kv.Store, b *bus.Bus, logger *zap.Logger) *archive.Cache {
	return archive.New(s, b, logger.Named("archive"))
}

func provideTokens(p Params) (identity.TokenStore, error) {
	return identity.OpenKeyring(instance.KeyringDir(p.InstanceName), p.InstanceName)
}

func provideSession(be *backend.Backend, tokens identity.TokenStore, m *status.Machine, b *bus.Bus, cfg *config.Config, logger *zap.Logger) *identity.Session {
	return identity.New(be, tokens, m, b, logger.Named("identity"), cfg.MailDomain)
}

func provideMailbox(be *backend.Backend, cache *archive.Cache, session *identity.Session, m *status.Machine, b *bus.Bus, cfg *config.Config, logger *zap.Logger) *mailbox.Sync {
	return mailbox.New(be, cache, session, m, b, logger.Named("mailbox"), mailbox.Options{
		RetentionDays: cfg.Archive.RetentionDays,
		MailDomain:    cfg.MailDomain,
	})
}

func provideWatcher(mail *mailbox.Sync, b *bus.Bus, logger *zap.Logger) *mailbox.Watcher {
	return mailbox.NewWatcher(mail, b, logger.Named("watcher"))
}

func provideSweeper(mail *mailbox.Sync, cfg *config.Config, logger *zap.Logger) *mailbox.Sweeper {
	return mailbox.NewSweeper(mail, cfg.Archive.SweepInterval, logger.Named("sweeper"))
}

func provideSessionService(p Params, session *identity.Session, mail *mailbox.Sync, m *status.Machine) *api.SessionService {
	return api.NewSessionService(p.InstanceName, session, mail, m)
}

func provideMailService(p Params, mail *mailbox.Sync, m *status.Machine, b *bus.Bus) *api.MailService {
	return api.NewMailService(p.InstanceName, mail, m, b)
}

func provideArchiveService(cache *archive.Cache, session *identity.Session, mail *mailbox.Sync) *api.ArchiveService {
	return api.NewArchiveService(cache, session, mail)
}

// components groups what the lifecycle hooks start and stop.
type components struct {
	fx.In

	Server  *Server
	Lock    *lock.Lock
	DB      *store.DB
	Archive *kv.Store
	Session *identity.Session
	Mail    *mailbox.Sync
	Watcher *mailbox.Watcher
	Sweeper *mailbox.Sweeper
	Logger  *zap.Logger
}

func registerLifecycle(lc fx.Lifecycle, c components) {
	logger := c.Logger
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Watch before restoring the session so the first sign-in is seen.
			c.Watcher.Start(context.Background())

			if err := c.Session.Init(ctx); err != nil {
				logger.Warn("session restore failed", zap.Error(err))
			}
			if c.Session.Current() == nil {
				logger.Info("no session, sign-in required")
			}

			// The sweeper's first pass is the initial fetch; Stop waits for it.
			c.Sweeper.Start(context.Background())

			go func() {
				if err := c.Server.Start(); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			c.Server.Stop(ctx)
			c.Sweeper.Stop()
			c.Watcher.Stop()
			if err := c.Archive.Close(); err != nil {
				logger.Warn("error closing archive store", zap.Error(err))
			}
			if err := c.DB.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := c.Lock.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
