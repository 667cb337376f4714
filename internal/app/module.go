package app

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mayank-pillai-99/bookconnect/internal/api"
	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/chat"
	"github.com/mayank-pillai-99/bookconnect/internal/config"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/feed"
	"github.com/mayank-pillai-99/bookconnect/internal/inbox"
	"github.com/mayank-pillai-99/bookconnect/internal/lock"
	"github.com/mayank-pillai-99/bookconnect/internal/logging"
	"github.com/mayank-pillai-99/bookconnect/internal/session"
	"github.com/mayank-pillai-99/bookconnect/internal/state"
	"github.com/mayank-pillai-99/bookconnect/internal/status"
)

// Params holds the resolved startup options passed to the fx module.
type Params struct {
	ConfigPath string // empty = default path under the state dir
	ServerURL  string // optional override of the configured server
	Filters    string // initial feed filters in canonical query form
	Console    bool   // also log to stderr (off for the TUI)
}

// Module returns the fx module for the client, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("app",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideJar,
			provideAPIClient,
			provideContainer,
			provideController,
			provideDispatcher,
			provideReviewer,
			provideChatDialer,
			provideService,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	if err := session.EnsureDirs(); err != nil {
		return nil, err
	}
	path := p.ConfigPath
	if path == "" {
		path = session.ConfigPath()
	}
	cfg := config.LoadOrDefault(path)
	if p.ServerURL != "" {
		cfg.ServerURL = p.ServerURL
	}
	return cfg, nil
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(session.LogPath(), p.Console)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring state lock", zap.String("dir", session.BaseDir()))
	l, err := lock.Acquire(session.BaseDir())
	if err != nil {
		return nil, err
	}
	logger.Info("state lock acquired")
	return l, nil
}

func provideJar(logger *zap.Logger) (*session.Jar, error) {
	jar, err := session.NewJar(session.CookiePath())
	if err != nil {
		return nil, err
	}
	logger.Info("cookie jar loaded", zap.String("path", session.CookiePath()))
	return jar, nil
}

func provideAPIClient(cfg *config.Config, jar *session.Jar, logger *zap.Logger) (*api.Client, error) {
	return api.New(cfg.ServerURL, jar, logger)
}

func provideContainer(b *bus.Bus) *state.Container {
	return state.NewContainer(b)
}

func provideController(cfg *config.Config, client *api.Client, c *state.Container, b *bus.Bus, logger *zap.Logger) *feed.Controller {
	return feed.NewController(client.Feed, c.Feed, b, logger, feed.Options{
		PageSize:     cfg.PageSize,
		LowWatermark: cfg.LowWatermark,
		Debounce:     time.Duration(cfg.DebounceMs) * time.Millisecond,
	})
}

func provideDispatcher(client *api.Client, c *state.Container, b *bus.Bus, logger *zap.Logger) *feed.Dispatcher {
	return feed.NewDispatcher(client.Requests, c.Feed, b, logger)
}

func provideReviewer(client *api.Client, c *state.Container, b *bus.Bus, logger *zap.Logger) *inbox.Reviewer {
	return inbox.NewReviewer(client.Requests, c.Inbox, b, logger)
}

func provideChatDialer(cfg *config.Config, client *api.Client, jar *session.Jar, b *bus.Bus, logger *zap.Logger) *chat.Dialer {
	return chat.NewDialer(cfg.ResolveSocketURL(), jar, client.Chat, b, logger)
}

func provideService(p Params, client *api.Client, jar *session.Jar, machine *status.Machine, c *state.Container, controller *feed.Controller, logger *zap.Logger) (*Service, error) {
	filters, err := domain.ParseQuery(p.Filters)
	if err != nil {
		return nil, err
	}
	return NewService(client, jar, machine, c, controller, logger, filters), nil
}

func registerLifecycle(lc fx.Lifecycle, svc *Service, controller *feed.Controller, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Start the pagination loop (subscribes to feed.* bus events).
			if err := controller.Start(context.Background()); err != nil {
				return err
			}

			// Check the saved cookie against the server in the background;
			// the UI follows along via session.status_changed events.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				svc.Probe(ctx)
			}()

			return nil
		},
		OnStop: func(_ context.Context) error {
			controller.Stop()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			return nil
		},
	})
}
