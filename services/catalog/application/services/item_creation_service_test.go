package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	catalogdomain "github.com/ghuser/nftcatalog/services/catalog/domain"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
)

func validInput() CreateItemInput {
	return CreateItemInput{
		ArtURI:        "ipfs://new",
		Name:          "Tabby",
		Description:   "a cat",
		CollectionRef: "0xA",
		Properties:    map[string]any{"eyes": "green"},
		TokenKind:     "ERC721",
	}
}

func TestCreate_Success(t *testing.T) {
	store := seedCats(t)
	metrics, reader := newTestMetrics(t)
	svc := NewItemCreationService(store, newTestLogger(), metrics)

	item, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.ID == uuid.Nil {
		t.Error("expected store-assigned ID")
	}
	if item.Collection != "0xA" || item.Index != models.UnassignedIndex {
		t.Errorf("got %s/%s, want 0xA/0", item.Collection, item.Index)
	}
	if item.Status != models.ItemStatusCreated || item.StatusDate.IsZero() {
		t.Errorf("unexpected status %q at %v", item.Status, item.StatusDate)
	}
	if item.Owner != "" || item.Creator != "" {
		t.Errorf("owner and creator must be unset, got %q/%q", item.Owner, item.Creator)
	}
	if item.TokenKind != models.TokenKindERC721 {
		t.Errorf("token kind = %q, want ERC721", item.TokenKind)
	}
	if store.ItemCount() != 2 {
		t.Errorf("item count = %d, want 2", store.ItemCount())
	}
	if n := counterTotal(t, reader, "catalog.items.created"); n != 1 {
		t.Errorf("items created = %d, want 1", n)
	}
}

func TestCreate_CollectionByID(t *testing.T) {
	store := seedCats(t)
	coll := store.AddCollection(models.Collection{Contract: "0xD", Name: "Dogs"})
	svc := NewItemCreationService(store, newTestLogger(), nil)

	in := validInput()
	in.CollectionRef = coll.ID.String()
	item, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Collection != "0xD" {
		t.Errorf("collection = %q, want the contract 0xD", item.Collection)
	}

	stored, err := store.FindItem(context.Background(), "0xD", models.UnassignedIndex)
	if err != nil || stored == nil || stored.ID != item.ID {
		t.Fatalf("stored item is not keyed by the contract: %+v (%v)", stored, err)
	}
	if byID, _ := store.FindItem(context.Background(), coll.ID.String(), models.UnassignedIndex); byID != nil {
		t.Errorf("item must not be stored under the collection id")
	}
}

func TestCreate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateItemInput)
		wantErr error
	}{
		{"duplicate content", func(in *CreateItemInput) { in.ArtURI = "ipfs://x" }, catalogdomain.ErrConflict},
		{"unknown collection", func(in *CreateItemInput) { in.CollectionRef = "0xNOPE" }, catalogdomain.ErrReferenceNotFound},
		{"unknown collection id", func(in *CreateItemInput) { in.CollectionRef = uuid.NewString() }, catalogdomain.ErrReferenceNotFound},
		{"unknown token kind", func(in *CreateItemInput) { in.TokenKind = "ERC20" }, catalogdomain.ErrInvalidArgument},
		{"relative content ref", func(in *CreateItemInput) { in.ArtURI = "cat.png" }, catalogdomain.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seedCats(t)
			svc := NewItemCreationService(store, newTestLogger(), nil)
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if store.ItemCount() != 1 {
				t.Errorf("failed create must not write; item count = %d", store.ItemCount())
			}
		})
	}
}

func TestCreate_DefaultTokenKind(t *testing.T) {
	svc := NewItemCreationService(seedCats(t), newTestLogger(), nil)
	in := validInput()
	in.TokenKind = ""
	item, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.TokenKind != models.TokenKindERC1155 {
		t.Errorf("token kind = %q, want ERC1155", item.TokenKind)
	}
}

func TestCreate_TwiceSameContent(t *testing.T) {
	svc := NewItemCreationService(seedCats(t), newTestLogger(), nil)
	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), validInput()); !errors.Is(err, catalogdomain.ErrConflict) {
		t.Fatalf("expected ErrConflict on second create, got %v", err)
	}
}

func TestCreate_ConcurrentSameContent(t *testing.T) {
	store := seedCats(t)
	svc := NewItemCreationService(store, newTestLogger(), nil)

	const callers = 16
	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Create(context.Background(), validInput())
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, catalogdomain.ErrConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if succeeded.Load() != 1 || conflicts.Load() != callers-1 {
		t.Fatalf("succeeded=%d conflicts=%d, want 1 and %d", succeeded.Load(), conflicts.Load(), callers-1)
	}
	if store.ItemCount() != 2 {
		t.Fatalf("item count = %d, want 2", store.ItemCount())
	}
}

func TestCreate_Connectivity(t *testing.T) {
	svc := NewItemCreationService(downStore{}, newTestLogger(), nil)
	if _, err := svc.Create(context.Background(), validInput()); !errors.Is(err, catalogdomain.ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
}
