package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/nftcatalog/pkg/app"
	"github.com/ghuser/nftcatalog/pkg/cache"
	"github.com/ghuser/nftcatalog/pkg/config"
	"github.com/ghuser/nftcatalog/pkg/database"
	"github.com/ghuser/nftcatalog/pkg/events"
	"github.com/ghuser/nftcatalog/pkg/httpx"
	"github.com/ghuser/nftcatalog/pkg/logger"
	"github.com/ghuser/nftcatalog/pkg/telemetry"
	appsvcs "github.com/ghuser/nftcatalog/services/catalog/application/services"
	catalogEvents "github.com/ghuser/nftcatalog/services/catalog/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg, telemetry.ProcessWorker)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer tel.Shutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg, telemetry.ProcessWorker); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.CatalogDatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log, catalogEvents.TopicItemCreated)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	report := httpx.RunChecks(ctx, cfg.ServiceName, 5*time.Second,
		httpx.Check{Name: "database", Checker: pool, Critical: true},
		httpx.Check{Name: "event_bus", Checker: eventBus, Critical: true},
		httpx.Check{Name: "redis", Checker: redisClient},
	)
	if report.Status == httpx.HealthDown {
		log.Error("worker dependencies unavailable", "checks", report.Checks)
		os.Exit(1) //nolint:gocritic
	}
	log.Info("worker dependencies checked", "status", report.Status, "checks", report.Checks)

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	errCh, err := a.EventBus.Subscribe(ctx, catalogEvents.TopicItemCreated, handleItemCreated(a))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", catalogEvents.TopicItemCreated,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", a.EventBus.Topics())
	return nil
}

// handleItemCreated returns a handler for item.created events.
// Handlers must be idempotent; EventBus retries up to 3x on failure.
// It warms the collection summary the next listing of the new item needs.
func handleItemCreated(a *app.Application) events.Handler {
	svcs := appsvcs.New(a)
	return func(ctx context.Context, msg *message.Message) error {
		if v := events.EnvelopeVersion(msg); v > catalogEvents.ItemCreatedVersion {
			a.Logger.WarnContext(ctx, "skipping item.created with unknown version",
				"version", v, "message_uuid", msg.UUID)
			return nil
		}

		var evt catalogEvents.ItemCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		summary, err := svcs.Query.CollectionSummary(ctx, evt.Collection)
		if err != nil {
			return fmt.Errorf("warm collection %s: %w", evt.Collection, err)
		}
		if summary == nil {
			a.Logger.WarnContext(ctx, "created item references a missing collection",
				"item_id", evt.ItemID, "collection", evt.Collection)
			return nil
		}

		a.Logger.InfoContext(ctx, "item created",
			"item_id", evt.ItemID,
			"collection", evt.Collection,
			"collection_name", summary.Name,
			"token_kind", evt.TokenKind,
		)
		return nil
	}
}
