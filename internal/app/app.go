package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/crinzping/feed-engine/internal/backend"
	"github.com/crinzping/feed-engine/internal/backend/backendimpl"
	"github.com/crinzping/feed-engine/internal/feed"
	"github.com/crinzping/feed-engine/internal/feed/feedimpl"
	"github.com/crinzping/feed-engine/internal/media"
	"github.com/crinzping/feed-engine/internal/media/mediaimpl"
	"github.com/crinzping/feed-engine/internal/permission"
	"github.com/crinzping/feed-engine/internal/permission/permissionimpl"
	"github.com/crinzping/feed-engine/internal/playback"
	"github.com/crinzping/feed-engine/internal/player"
	"github.com/crinzping/feed-engine/internal/player/playerimpl"
	"github.com/crinzping/feed-engine/internal/ratelimit"
	"github.com/crinzping/feed-engine/pkg/config"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		func() clockwork.Clock { return clockwork.NewRealClock() },
	),
	fx.Provide(
		fx.Annotate(
			permissionimpl.NewMemoryBridge,
			fx.As(new(permission.Bridge)),
		),
		fx.Annotate(
			func(log logger.Logger) *permissionimpl.LogNotifier {
				return &permissionimpl.LogNotifier{Logger: log}
			},
			fx.As(new(permission.Notifier)),
		),
		permission.NewGate,
	),
	fx.Provide(
		fx.Annotate(
			playerimpl.New,
			fx.As(new(player.Surface)),
		),
		fx.Annotate(
			mediaimpl.NewMemoryThumbnailer,
			fx.As(new(media.Thumbnailer)),
		),
		fx.Annotate(
			mediaimpl.NewMemoryDevice,
			fx.As(new(media.Device)),
		),
		newPicker,
		newRecorder,
	),
	fx.Provide(
		fx.Annotate(
			backendimpl.New,
			fx.As(new(backend.Sink)),
		),
		newLimiter,
		fx.Annotate(
			feedimpl.New,
			fx.As(new(feed.Client)),
		),
	),
	fx.Invoke(run),
)

func newPicker(gate *permission.Gate) media.Picker {
	return media.NewGated(gate, mediaimpl.NewMemoryPicker())
}

func newRecorder(gate *permission.Gate, device media.Device, clock clockwork.Clock,
	log logger.Logger, cfg *config.Config) *media.Recorder {
	return media.NewRecorder(media.RecorderOpts{
		Gate:        gate,
		Device:      device,
		Clock:       clock,
		Logger:      log,
		MinDuration: cfg.Recorder.MinDuration,
	})
}

func newLimiter(cfg *config.Config) ratelimit.Limiter {
	return ratelimit.NewInMemoryLimiter(1, cfg.Submit.RatePer, cfg.Submit.Burst)
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, clock clockwork.Clock,
	feedClient feed.Client, surface player.Surface) {
	var session *playback.Session

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg)

			ctx := context.Background()
			if err := feedClient.Start(ctx); err != nil {
				log.Error("Feed refresher failed to start", "error", err)
				return err
			}

			// Warm the reels tab so playback is ready before the first
			// scroll event.
			session = playback.NewSession(playback.SessionOpts{
				Logger:  log,
				Clock:   clock,
				Surface: surface,
				Likes:   feed.Likes(feedClient, feed.TabReels),
				Window:  cfg.Playback.DoubleTapWindow,
				Muted:   true,
			})
			items, err := feedClient.List(ctx, feed.TabReels)
			if err != nil {
				log.Error("Failed to list reels", "error", err)
				return err
			}
			for _, item := range items {
				session.Render(ctx, item)
			}
			if len(items) > 0 {
				session.ViewableChanged([]string{items[0].ID})
			}

			log.Info("Feed engine started", "reels", len(items))
			return nil
		},
		OnStop: func(context.Context) error {
			if session != nil {
				session.Close()
			}
			if err := feedClient.Stop(); err != nil {
				log.Error("Failed to stop feed refresher", "error", err)
				return err
			}
			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Info("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
