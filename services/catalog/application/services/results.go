package services

import (
	"context"

	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
)

// ItemDetail is an Item joined with its owner's Account. OwnerDetail is nil
// when no Account is registered for the owner wallet.
type ItemDetail struct {
	*models.Item
	OwnerDetail *models.Account `json:"ownerDetail"`
}

// ListedItem is an Item from a listing enriched with its Collection summary.
// CollectionDetails is nil when the referenced Collection does not exist.
type ListedItem struct {
	*models.Item
	CollectionDetails *models.CollectionSummary `json:"collection_details"`
}

// TrendingItem is a ListedItem with its Offer activity count.
type TrendingItem struct {
	ListedItem
	Counts int `json:"counts"`
}

// ReadCache is the slice of pkg/cache.CatalogCache used for collection summaries.
// GetJSON returns redis.Nil on a miss.
type ReadCache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any) error
}
