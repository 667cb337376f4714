package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mayank-pillai-99/bookconnect/internal/app"
	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/chat"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/feed"
	"github.com/mayank-pillai-99/bookconnect/internal/inbox"
	"github.com/mayank-pillai-99/bookconnect/internal/state"
	"github.com/mayank-pillai-99/bookconnect/internal/status"
	"github.com/mayank-pillai-99/bookconnect/internal/tui"
)

func main() {
	serverFlag := flag.String("server", "", "server base URL (overrides config)")
	filtersFlag := flag.String("filters", "", `initial feed filters, e.g. "genre=Fantasy&sort=newest"`)
	configFlag := flag.String("config", "", "path to config file")
	flag.Parse()

	// Validate the filter string up front so a bad share link fails with a
	// readable message instead of an fx startup error.
	if _, err := domain.ParseQuery(*filtersFlag); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fxApp := fx.New(
		// fx's own lifecycle logging would scribble over the terminal UI.
		fx.NopLogger,
		app.Module(app.Params{
			ConfigPath: *configFlag,
			ServerURL:  *serverFlag,
			Filters:    *filtersFlag,
		}),
		fx.Provide(provideTUI),
		fx.Invoke(runTUI),
	)

	fxApp.Run()
	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func provideTUI(
	svc *app.Service,
	container *state.Container,
	machine *status.Machine,
	controller *feed.Controller,
	dispatcher *feed.Dispatcher,
	reviewer *inbox.Reviewer,
	dialer *chat.Dialer,
	b *bus.Bus,
	logger *zap.Logger,
) *tui.App {
	return tui.NewApp(tui.Deps{
		Service:    svc,
		Container:  container,
		Machine:    machine,
		Controller: controller,
		Dispatcher: dispatcher,
		Reviewer:   reviewer,
		Dialer:     dialer,
		Bus:        b,
		Logger:     logger,
	})
}

func runTUI(lc fx.Lifecycle, a *tui.App, sh fx.Shutdowner, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := a.Run(); err != nil {
					logger.Error("tui exited", zap.Error(err))
				}
				_ = sh.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			a.Stop()
			return nil
		},
	})
}
