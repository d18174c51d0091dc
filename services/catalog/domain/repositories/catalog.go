package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
)

// CollectionKey selects a Collection by ID or, when ID is zero, by contract.
type CollectionKey struct {
	ID       uuid.UUID
	Contract string
}

// CatalogStore is the gateway to the Item, Collection, Account and Activity
// collections. The domain layer owns this interface; infrastructure implements it.
//
// Lookups return (nil, nil) when nothing matches. A non-nil error always means
// the store could not answer (wrapping domain.ErrConnectivity) or, for
// InsertItem, that the write was rejected (domain.ErrConflict or
// domain.ErrPersistence).
type CatalogStore interface {
	FindItem(ctx context.Context, collection, index string) (*models.Item, error)
	FindItemByContentRef(ctx context.Context, artURI string) (*models.Item, error)
	FindCollection(ctx context.Context, key CollectionKey) (*models.Collection, error)
	FindAccount(ctx context.Context, wallet string) (*models.Account, error)

	// ListActivity returns matching activities oldest first.
	ListActivity(ctx context.Context, sel models.ActivitySelector) ([]*models.Activity, error)
	CountActivity(ctx context.Context, sel models.ActivitySelector) (int, error)

	// ScanItems evaluates a compiled filter pipeline in stage order.
	ScanItems(ctx context.Context, p filter.Pipeline) ([]*models.Item, error)

	// InsertItem persists item and sets its store-assigned ID.
	// The insert is atomic; a duplicate ArtURI yields domain.ErrConflict.
	InsertItem(ctx context.Context, item *models.Item) error
}
