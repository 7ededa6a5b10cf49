package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/craftfolio/story-engine/internal/auth"
	"github.com/craftfolio/story-engine/internal/backend"
	"github.com/craftfolio/story-engine/internal/backend/backendimpl"
	"github.com/craftfolio/story-engine/internal/cache"
	_ "github.com/craftfolio/story-engine/internal/migrations"
	"github.com/craftfolio/story-engine/internal/notifier"
	"github.com/craftfolio/story-engine/internal/notifier/notifierimpl"
	repositories "github.com/craftfolio/story-engine/internal/repositories/fx"
	"github.com/craftfolio/story-engine/internal/store"
	"github.com/craftfolio/story-engine/internal/store/storeimpl"
	"github.com/craftfolio/story-engine/internal/uploader"
	"github.com/craftfolio/story-engine/internal/uploader/uploaderimpl"
	"github.com/craftfolio/story-engine/pkg/config"
	"github.com/craftfolio/story-engine/pkg/logger"
	"github.com/craftfolio/story-engine/pkg/pgx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	fx.Provide(
		fx.Annotate(
			backendimpl.New,
			fx.As(new(backend.Client)),
		), fx.Annotate(
			uploaderimpl.New,
			fx.As(new(uploader.Client)),
		), fx.Annotate(
			storeimpl.New,
			fx.As(new(store.Client)),
		), fx.Annotate(
			notifierimpl.New,
			fx.As(new(notifier.Client)),
		),
	),
	auth.Module,
	cache.Module,
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(c *config.Config) error {
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Migrations are registered as Go functions; no directory to scan.
	return goose.Up(db, ".")
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, storeClient store.Client, notifierClient notifier.Client) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg)

			if err := storeClient.WarmFromCache(ctx); err != nil {
				log.Warn("Story cache warm failed", "error", err)
			}

			go func() {
				if _, err := storeClient.FetchOwnStories(ctx); err != nil {
					log.Error("Initial own story fetch failed", "error", err)
				}
				if _, err := storeClient.FetchFollowedStories(ctx); err != nil {
					log.Error("Initial followed story fetch failed", "error", err)
				}
			}()

			if err := storeClient.ScheduleRefresh(ctx); err != nil {
				log.Error("Failed to start story refresh schedule", "error", err)
				return err
			}

			if err := notifierClient.ScheduleCleanup(ctx); err != nil {
				log.Error("Failed to start viewed mark cleanup schedule", "error", err)
				return err
			}

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			notifierClient.Close()
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
