package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ghuser/nftcatalog/pkg/cache"
	"github.com/ghuser/nftcatalog/pkg/logger"
	catalogdomain "github.com/ghuser/nftcatalog/services/catalog/domain"
	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
	"github.com/ghuser/nftcatalog/services/catalog/domain/repositories"
)

// DefaultConcurrency bounds enrichment lookups when no limit is configured.
const DefaultConcurrency = 8

// CatalogQueryService answers read requests: item detail, history, offers and
// filtered listings. Items, accounts and activity are always read from the
// store. Only collection summaries go through the cache, since collections are
// never changed by this service.
type CatalogQueryService struct {
	store       repositories.CatalogStore
	cache       ReadCache
	log         logger.Logger
	metrics     *Metrics
	concurrency int
}

// NewCatalogQueryService returns a CatalogQueryService. cache and metrics may be nil.
func NewCatalogQueryService(
	store repositories.CatalogStore,
	cache ReadCache,
	log logger.Logger,
	metrics *Metrics,
	concurrency int,
) *CatalogQueryService {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &CatalogQueryService{
		store:       store,
		cache:       cache,
		log:         log,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// GetItemDetail resolves the item at (collection, index) and attaches its
// owner's Account. Both reads go to the store on every call.
func (s *CatalogQueryService) GetItemDetail(ctx context.Context, collection, index string) (*ItemDetail, error) {
	item, err := s.findItem(ctx, collection, index)
	if err != nil {
		return nil, fmt.Errorf("get item detail: %w", err)
	}

	detail := &ItemDetail{Item: item}
	if item.Owner != "" {
		owner, err := s.store.FindAccount(ctx, item.Owner)
		if err != nil {
			return nil, fmt.Errorf("get item owner: %w", err)
		}
		detail.OwnerDetail = owner
	}
	return detail, nil
}

// GetItemHistory returns the Sold and Transfer activity of the item's
// collection, oldest first. The item itself must exist.
func (s *CatalogQueryService) GetItemHistory(ctx context.Context, collection, index string) ([]*models.Activity, error) {
	return s.itemActivity(ctx, collection, index, models.HistoryTypes)
}

// GetItemOffers returns the Offer activity of the item's collection, oldest
// first. The item itself must exist.
func (s *CatalogQueryService) GetItemOffers(ctx context.Context, collection, index string) ([]*models.Activity, error) {
	return s.itemActivity(ctx, collection, index, models.OfferTypes)
}

func (s *CatalogQueryService) itemActivity(ctx context.Context, collection, index string, types []models.ActivityType) ([]*models.Activity, error) {
	if _, err := s.findItem(ctx, collection, index); err != nil {
		return nil, fmt.Errorf("get item activity: %w", err)
	}
	// Activity is scoped to the collection, not the single item.
	acts, err := s.store.ListActivity(ctx, models.ActivitySelector{Collection: collection, Types: types})
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return acts, nil
}

func (s *CatalogQueryService) findItem(ctx context.Context, collection, index string) (*models.Item, error) {
	item, err := s.store.FindItem(ctx, collection, index)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s/%s", catalogdomain.ErrNotFound, collection, index)
	}
	return item, nil
}

// ListItems compiles cfg, scans the matching page and attaches each item's
// collection summary. An empty page is ErrEmptyResult.
func (s *CatalogQueryService) ListItems(ctx context.Context, cfg filter.Config) ([]ListedItem, error) {
	return s.listPipeline(ctx, filter.Compile(cfg))
}

func (s *CatalogQueryService) listPipeline(ctx context.Context, p filter.Pipeline) ([]ListedItem, error) {
	items, err := s.store.ScanItems(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	if len(items) == 0 {
		return nil, catalogdomain.ErrEmptyResult
	}

	summaries, err := s.collectionSummaries(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("enrich items: %w", err)
	}

	out := make([]ListedItem, len(items))
	for i, item := range items {
		out[i] = ListedItem{Item: item, CollectionDetails: summaries[item.Collection]}
		if out[i].CollectionDetails == nil {
			s.log.WarnContext(ctx, "listed item references a missing collection",
				"item_id", item.ID, "collection", item.Collection)
			s.metrics.integrityGap(ctx, item.Collection)
		}
	}
	return out, nil
}

// collectionSummaries resolves each distinct collection contract once.
// Missing collections map to nil; a store failure aborts the batch.
func (s *CatalogQueryService) collectionSummaries(ctx context.Context, items []*models.Item) (map[string]*models.CollectionSummary, error) {
	var contracts []string
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.Collection] {
			seen[item.Collection] = true
			contracts = append(contracts, item.Collection)
		}
	}

	resolved := make([]*models.CollectionSummary, len(contracts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, contract := range contracts {
		g.Go(func() error {
			summary, err := s.CollectionSummary(gctx, contract)
			if err != nil {
				return err
			}
			resolved[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*models.CollectionSummary, len(contracts))
	for i, contract := range contracts {
		out[contract] = resolved[i]
	}
	return out, nil
}

// CollectionSummary resolves a collection by contract, reading through the
// cache. It returns (nil, nil) for an unknown contract. Missing collections are
// not cached, so a collection registered later is picked up on the next call.
func (s *CatalogQueryService) CollectionSummary(ctx context.Context, contract string) (*models.CollectionSummary, error) {
	key := cache.CollectionKey(contract)
	if s.cache != nil {
		var cached models.CollectionSummary
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "collection cache read failed", "key", key, "error", err)
		}
	}

	c, err := s.store.FindCollection(ctx, repositories.CollectionKey{Contract: contract})
	if err != nil || c == nil {
		return nil, err
	}

	summary := c.Summary()
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, summary); err != nil {
			s.log.WarnContext(ctx, "collection cache write failed", "key", key, "error", err)
		}
	}
	return summary, nil
}
