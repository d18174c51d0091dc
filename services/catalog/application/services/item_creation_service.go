package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/nftcatalog/pkg/logger"
	catalogdomain "github.com/ghuser/nftcatalog/services/catalog/domain"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
	"github.com/ghuser/nftcatalog/services/catalog/domain/repositories"
	domainsvcs "github.com/ghuser/nftcatalog/services/catalog/domain/services"
)

// CreateItemInput carries the caller's fields for a new Item.
// CollectionRef is a collection ID or contract address.
type CreateItemInput struct {
	ArtURI        string
	Name          string
	ExternalLink  string
	Description   string
	CollectionRef string
	Properties    map[string]any
	LockContent   string
	IsExplicit    bool
	TokenKind     string
}

// ItemCreationService runs the guarded creation workflow.
// Event publishing is handled by the store (outbox pattern).
//
// The duplicate check and the insert are separate store calls. Two concurrent
// requests for the same content can both pass the check; the store's unique
// index on art_uri rejects the second insert and it surfaces as ErrConflict.
type ItemCreationService struct {
	store   repositories.CatalogStore
	log     logger.Logger
	metrics *Metrics
}

// NewItemCreationService returns an ItemCreationService. metrics may be nil.
func NewItemCreationService(store repositories.CatalogStore, log logger.Logger, metrics *Metrics) *ItemCreationService {
	return &ItemCreationService{store: store, log: log, metrics: metrics}
}

// Create checks for duplicate content, resolves the collection, builds the
// Item in its initial state and persists it. The returned Item carries the
// store-assigned ID.
func (s *ItemCreationService) Create(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	existing, err := s.store.FindItemByContentRef(ctx, in.ArtURI)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", catalogdomain.ErrConflict, in.ArtURI)
	}

	collection, err := s.store.FindCollection(ctx, collectionKey(in.CollectionRef))
	if err != nil {
		return nil, fmt.Errorf("resolve collection: %w", err)
	}
	if collection == nil {
		return nil, fmt.Errorf("%w: %s", catalogdomain.ErrReferenceNotFound, in.CollectionRef)
	}

	kind, err := models.ParseTokenKind(in.TokenKind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidArgument, err)
	}

	item := models.NewItem(models.NewItemParams{
		Collection:   collection.Contract,
		ArtURI:       in.ArtURI,
		Name:         in.Name,
		ExternalLink: in.ExternalLink,
		Description:  in.Description,
		Properties:   in.Properties,
		LockContent:  in.LockContent,
		IsExplicit:   in.IsExplicit,
		TokenKind:    kind,
	})
	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidArgument, err)
	}

	if err := s.store.InsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	s.metrics.itemCreated(ctx, kind.String())
	s.log.InfoContext(ctx, "item created",
		"item_id", item.ID, "collection", item.Collection, "token_kind", kind.String())
	return item, nil
}

// collectionKey treats a UUID reference as a collection ID and anything else
// as a contract address.
func collectionKey(ref string) repositories.CollectionKey {
	if id, err := uuid.Parse(ref); err == nil {
		return repositories.CollectionKey{ID: id}
	}
	return repositories.CollectionKey{Contract: ref}
}
