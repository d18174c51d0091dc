package services

import (
	"go.opentelemetry.io/otel"

	"github.com/ghuser/nftcatalog/pkg/app"
	"github.com/ghuser/nftcatalog/pkg/cache"
	"github.com/ghuser/nftcatalog/services/catalog/domain/repositories"
	"github.com/ghuser/nftcatalog/services/catalog/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Query    *CatalogQueryService
	Trending *TrendingService
	Creation *ItemCreationService
}

// New wires all catalog application services with infrastructure from the Application container.
// Redis is optional; without it collection lookups go straight to Postgres.
func New(a *app.Application) *Services {
	store := postgres.NewCatalogStore(a.Db, a.EventBus, a.Config.StoreTimeout)

	var readCache ReadCache
	if a.Redis != nil {
		readCache = cache.NewCatalogCache(a.Redis, a.Config.CacheTTL)
	}

	metrics, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		a.Logger.Warn("catalog metrics unavailable", "error", err)
	}

	return NewWithStore(a, store, readCache, metrics)
}

// NewWithStore wires the services over an arbitrary CatalogStore.
func NewWithStore(a *app.Application, store repositories.CatalogStore, readCache ReadCache, metrics *Metrics) *Services {
	query := NewCatalogQueryService(store, readCache, a.Logger, metrics, a.Config.EnrichConcurrency)
	return &Services{
		Query:    query,
		Trending: NewTrendingService(query, store, a.Logger, a.Config.TrendingLimit),
		Creation: NewItemCreationService(store, a.Logger, metrics),
	}
}
