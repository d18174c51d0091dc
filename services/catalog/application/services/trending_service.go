package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ghuser/nftcatalog/pkg/logger"
	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
	"github.com/ghuser/nftcatalog/services/catalog/domain/repositories"
	domainsvcs "github.com/ghuser/nftcatalog/services/catalog/domain/services"
)

// DefaultTrendingLimit is K when none is configured.
const DefaultTrendingLimit = 10

// TrendingService ranks a listing page by Offer activity count.
// The work is bounded by the page size the filter compiler enforces.
type TrendingService struct {
	query *CatalogQueryService
	store repositories.CatalogStore
	log   logger.Logger
	limit int
}

// NewTrendingService returns a TrendingService keeping the top limit items.
// Offer counts change outside this service, so rankings are never cached.
func NewTrendingService(query *CatalogQueryService, store repositories.CatalogStore, log logger.Logger, limit int) *TrendingService {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	return &TrendingService{query: query, store: store, log: log, limit: limit}
}

// Trending lists the page selected by cfg, counts Offer activity for every
// (collection, index), and returns at most K items by descending count.
// Equal counts keep scan order.
func (s *TrendingService) Trending(ctx context.Context, cfg filter.Config) ([]TrendingItem, error) {
	p := filter.Compile(cfg)
	listed, err := s.query.listPipeline(ctx, p)
	if err != nil {
		return nil, err
	}

	scored := make([]TrendingItem, len(listed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.query.concurrency)
	for i, item := range listed {
		g.Go(func() error {
			n, err := s.store.CountActivity(gctx, models.ActivitySelector{
				Collection: item.Collection,
				ItemIndex:  item.Index,
				Types:      models.OfferTypes,
			})
			if err != nil {
				return err
			}
			scored[i] = TrendingItem{ListedItem: item, Counts: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}

	top := domainsvcs.TopByCount(scored, func(t TrendingItem) int { return t.Counts }, s.limit)
	s.log.DebugContext(ctx, "trending ranked", "pipeline", p.String(), "scanned", len(scored), "returned", len(top))
	return top, nil
}
