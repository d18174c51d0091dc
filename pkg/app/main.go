package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/nftcatalog/pkg/cache"
	"github.com/ghuser/nftcatalog/pkg/config"
	"github.com/ghuser/nftcatalog/pkg/database"
	"github.com/ghuser/nftcatalog/pkg/events"
	"github.com/ghuser/nftcatalog/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to each bounded context's route registration during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "listing items", "collection", c)
//	app.Logger.ErrorContext(ctx, "failed to insert", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	SessionStore sessions.Store // Redis-backed session store; nil in worker process
}
