// Command geohod is the headless Telegram mini-app client: it resolves the
// launch context, syncs the event cache with the remote service (or the
// fixture set), and runs deep-link registration flows.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Krepchik11/geohod/config"
	"github.com/Krepchik11/geohod/internal/adapters/fixture"
	"github.com/Krepchik11/geohod/internal/adapters/rest"
	"github.com/Krepchik11/geohod/internal/adapters/telegram"
	"github.com/Krepchik11/geohod/internal/domain"
	"github.com/Krepchik11/geohod/internal/store"
	"github.com/Krepchik11/geohod/internal/store/snapshot"
	"github.com/Krepchik11/geohod/internal/usecase"
)

// stdoutClipboard fulfills the clipboard capability for terminal runs.
type stdoutClipboard struct{}

func (stdoutClipboard) Copy(_ context.Context, text string) bool {
	_, err := fmt.Println(text)
	return err == nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Launch context is resolved once; everything downstream receives the
	// result instead of probing the environment again.
	launch, err := telegram.ResolveLaunchContext(cfg.InitData)
	if err != nil && !errors.Is(err, domain.ErrUnavailable) {
		logger.Error("invalid launch context", "error", err)
		os.Exit(1)
	}
	if launch != nil && cfg.BotToken != "" {
		if err := telegram.VerifyInitData(launch.Raw, cfg.BotToken); err != nil {
			logger.Error("init data verification failed", "error", err)
			os.Exit(1)
		}
	}

	var gateway domain.EventsGateway
	if cfg.UseFixtureData || cfg.APIBaseURL == "" {
		logger.Info("using fixture events data")
		gateway = fixture.NewGateway()
	} else {
		auth := ""
		if launch != nil {
			auth = launch.Raw
		}
		client := rest.NewClient(cfg.APIBaseURL, auth, nil, logger)
		if auth != "" {
			if sess, err := rest.Authorize(ctx, client); err != nil {
				// Not all deployments expose the exchange; fall back to
				// sending init-data verbatim.
				logger.Warn("authorize exchange unavailable", "error", err)
			} else {
				logger.Info("session token acquired", "expires_at", sess.ExpiresAt)
			}
		}
		gateway = rest.NewGateway(client, logger)
	}

	snap, err := snapshot.Open(cfg.SnapshotDBPath)
	if err != nil {
		logger.Warn("snapshot cache unavailable", "path", cfg.SnapshotDBPath, "error", err)
		snap = nil
	} else {
		defer snap.Close()
	}

	var snapRepo domain.SnapshotRepository
	if snap != nil {
		snapRepo = snap
	}
	st := store.New(gateway, snapRepo, logger, cfg.PageSize)
	st.RestoreSnapshot(ctx)

	var notifier domain.Notifier = &telegram.LogNotifier{Logger: logger}
	if cfg.BotToken != "" && launch != nil && launch.User != nil {
		if bn, err := telegram.NewBotNotifier(cfg.BotToken, launch.User.ID, logger); err != nil {
			logger.Warn("bot notifier unavailable, logging instead", "error", err)
		} else {
			notifier = bn
		}
	}

	manager := usecase.NewEventManager(st, gateway, notifier, stdoutClipboard{}, telegram.NoopHaptic{}, logger, cfg.BotName)
	guard := usecase.NewRegistrationGuard(gateway, logger)

	if !manager.HandleRefresh(ctx) {
		logger.Error("initial refresh failed", "error", manager.Err())
	}
	logger.Info("event cache ready", "events", len(st.Events()), "page", st.CurrentPage(), "total_pages", st.TotalPages())

	// A registration deep link runs the guard and, when admitted, registers.
	if launch != nil {
		if eventID, ok := telegram.ParseStartParam(launch.StartParam); ok {
			if guard.Check(ctx, launch, eventID) == usecase.RedirectHome {
				logger.Info("already registered or no username, staying on event list", "event_id", eventID)
			} else if manager.RegisterForEvent(ctx, eventID) {
				logger.Info("registered via deep link", "event_id", eventID)
			}
		}
	}
}
