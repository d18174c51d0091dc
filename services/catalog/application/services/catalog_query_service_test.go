package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	catalogdomain "github.com/ghuser/nftcatalog/services/catalog/domain"
	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
	"github.com/ghuser/nftcatalog/services/catalog/infrastructure/persistence/memory"
)

func TestGetItemDetail(t *testing.T) {
	store := seedCats(t)
	store.AddItem(models.Item{Collection: "0xA", Index: "4", ArtURI: "ipfs://y", Owner: "0xstranger"})
	svc := NewCatalogQueryService(store, nil, newTestLogger(), nil, 0)
	ctx := context.Background()

	t.Run("found with owner", func(t *testing.T) {
		got, err := svc.GetItemDetail(ctx, "0xA", "3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Collection != "0xA" || got.Index != "3" {
			t.Errorf("got %s/%s, want 0xA/3", got.Collection, got.Index)
		}
		if got.OwnerDetail == nil || got.OwnerDetail.Name != "Alice" {
			t.Errorf("expected owner Alice, got %+v", got.OwnerDetail)
		}
	})

	t.Run("found without registered owner", func(t *testing.T) {
		got, err := svc.GetItemDetail(ctx, "0xA", "4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.OwnerDetail != nil {
			t.Errorf("expected nil owner, got %+v", got.OwnerDetail)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.GetItemDetail(ctx, "0xA", "99")
		if !errors.Is(err, catalogdomain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGetItemDetail_FollowsStoreChanges(t *testing.T) {
	store := seedCats(t)
	store.AddItem(models.Item{Collection: "0xA", Index: "4", ArtURI: "ipfs://y", Owner: "0xlate"})
	svc := NewCatalogQueryService(store, newMapCache(), newTestLogger(), nil, 0)
	ctx := context.Background()

	before, err := svc.GetItemDetail(ctx, "0xA", "4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.OwnerDetail != nil {
		t.Fatalf("expected nil owner before registration, got %+v", before.OwnerDetail)
	}

	store.AddAccount(models.Account{Wallet: "0xlate", Name: "Late"})

	after, err := svc.GetItemDetail(ctx, "0xA", "4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.OwnerDetail == nil || after.OwnerDetail.Name != "Late" {
		t.Errorf("expected owner Late after registration, got %+v", after.OwnerDetail)
	}
}

func TestListItems_CollectionCache(t *testing.T) {
	store := seedCats(t)
	store.AddItem(models.Item{Collection: "0xB", Index: "1", ArtURI: "ipfs://dog"})
	c := newMapCache()
	ctx := context.Background()

	warm := NewCatalogQueryService(store, c, newTestLogger(), nil, 0)
	if _, err := warm.ListItems(ctx, filter.Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0xB is dangling, so only 0xA is cached.
	if c.len() != 1 {
		t.Fatalf("expected 1 cached collection, got %d", c.len())
	}

	store.AddCollection(models.Collection{Contract: "0xB", Name: "Dogs"})
	got, err := warm.ListItems(ctx, filter.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, it := range got {
		if it.CollectionDetails == nil {
			t.Errorf("item %s/%s missing collection details after registration", it.Collection, it.Index)
		}
	}

	// A cached summary is served without a store round trip.
	cold := NewCatalogQueryService(downStore{}, c, newTestLogger(), nil, 0)
	summary, err := cold.CollectionSummary(ctx, "0xA")
	if err != nil || summary == nil || summary.Name != "Cats" {
		t.Fatalf("expected cached Cats summary, got %+v (%v)", summary, err)
	}
	if _, err := cold.CollectionSummary(ctx, "0xC"); !errors.Is(err, catalogdomain.ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity on miss, got %v", err)
	}
}

func seedActivity(store *memory.Store) {
	for _, a := range []models.Activity{
		{Type: models.ActivityOffer, Collection: "0xA", ItemIndex: "3"},
		{Type: models.ActivitySold, Collection: "0xA", ItemIndex: "3"},
		{Type: models.ActivityTransfer, Collection: "0xA", ItemIndex: "7"},
		{Type: models.ActivityListing, Collection: "0xA", ItemIndex: "3"},
		{Type: models.ActivityOffer, Collection: "0xA", ItemIndex: "5"},
		{Type: models.ActivitySold, Collection: "0xB", ItemIndex: "3"},
	} {
		store.AddActivity(a)
	}
}

func TestGetItemHistoryAndOffers(t *testing.T) {
	store := seedCats(t)
	seedActivity(store)
	svc := NewCatalogQueryService(store, nil, newTestLogger(), nil, 0)
	ctx := context.Background()

	history, err := svc.GetItemHistory(ctx, "0xA", "3")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	offers, err := svc.GetItemOffers(ctx, "0xA", "3")
	if err != nil {
		t.Fatalf("offers: %v", err)
	}

	if len(history) != 2 {
		t.Errorf("expected 2 history records, got %d", len(history))
	}
	for _, a := range history {
		if a.Collection != "0xA" || (a.Type != models.ActivitySold && a.Type != models.ActivityTransfer) {
			t.Errorf("unexpected history record %+v", a)
		}
	}
	if len(offers) != 2 {
		t.Errorf("expected 2 offers, got %d", len(offers))
	}
	for _, a := range offers {
		if a.Collection != "0xA" || a.Type != models.ActivityOffer {
			t.Errorf("unexpected offer record %+v", a)
		}
	}

	ids := make(map[string]bool)
	for _, a := range history {
		ids[a.ID.String()] = true
	}
	for _, a := range offers {
		if ids[a.ID.String()] {
			t.Errorf("activity %s appears in both history and offers", a.ID)
		}
	}
}

func TestItemActivity_MissingItem(t *testing.T) {
	store := seedCats(t)
	seedActivity(store)
	svc := NewCatalogQueryService(store, nil, newTestLogger(), nil, 0)

	tests := []struct {
		name string
		call func(context.Context, string, string) ([]*models.Activity, error)
	}{
		{"history", svc.GetItemHistory},
		{"offers", svc.GetItemOffers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.call(context.Background(), "0xA", "99"); !errors.Is(err, catalogdomain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestListItems_Enrichment(t *testing.T) {
	store := seedCats(t)
	store.AddItem(models.Item{Collection: "0xGONE", Index: "1", ArtURI: "ipfs://orphan"})
	metrics, reader := newTestMetrics(t)
	svc := NewCatalogQueryService(store, nil, newTestLogger(), metrics, 2)

	got, err := svc.ListItems(context.Background(), filter.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}

	for _, it := range got {
		switch it.Collection {
		case "0xA":
			if it.CollectionDetails == nil || it.CollectionDetails.Name != "Cats" || it.CollectionDetails.Contract != "0xA" {
				t.Errorf("unexpected collection details %+v", it.CollectionDetails)
			}
		case "0xGONE":
			if it.CollectionDetails != nil {
				t.Errorf("expected nil collection details for dangling reference, got %+v", it.CollectionDetails)
			}
		}
	}

	if n := counterTotal(t, reader, "catalog.enrichment.integrity_gaps"); n != 1 {
		t.Errorf("integrity gaps = %d, want 1", n)
	}
}

func TestListItems_ManyItemsKeepScanOrder(t *testing.T) {
	store := memory.New()
	store.AddCollection(models.Collection{Contract: "0xA", Name: "Cats"})
	store.AddCollection(models.Collection{Contract: "0xB", Name: "Dogs"})
	for i := range 30 {
		coll := "0xA"
		if i%3 == 0 {
			coll = "0xB"
		}
		store.AddItem(models.Item{Collection: coll, Index: fmt.Sprint(i + 1), ArtURI: fmt.Sprintf("ipfs://%d", i)})
	}
	svc := NewCatalogQueryService(store, nil, newTestLogger(), nil, 4)
	cfg := filter.Config{Limit: 25, Sort: &filter.SortSpec{Field: "index", Direction: filter.Asc}}

	got, err := svc.ListItems(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scanned, err := store.ScanItems(context.Background(), filter.Compile(cfg))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != len(scanned) {
		t.Fatalf("len = %d, want %d", len(got), len(scanned))
	}
	for i := range got {
		if got[i].ID != scanned[i].ID {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, scanned[i].ID)
		}
		if got[i].CollectionDetails == nil || got[i].CollectionDetails.Contract != got[i].Collection {
			t.Fatalf("position %d: wrong collection details %+v", i, got[i].CollectionDetails)
		}
	}
}

func TestListItems_EmptyResult(t *testing.T) {
	svc := NewCatalogQueryService(seedCats(t), nil, newTestLogger(), nil, 0)
	_, err := svc.ListItems(context.Background(), filter.Config{Equals: map[string]string{"collection": "0xNONE"}})
	if !errors.Is(err, catalogdomain.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestListItems_Idempotent(t *testing.T) {
	store := seedCats(t)
	for i := range 5 {
		store.AddItem(models.Item{Collection: "0xA", Index: fmt.Sprint(10 + i), ArtURI: fmt.Sprintf("ipfs://i%d", i)})
	}
	svc := NewCatalogQueryService(store, nil, newTestLogger(), nil, 0)
	cfg := filter.Config{Limit: 4, Page: 1}

	first, err := svc.ListItems(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ListItems(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical listings returned different results")
	}
}

func TestQueries_Connectivity(t *testing.T) {
	svc := NewCatalogQueryService(downStore{}, nil, newTestLogger(), nil, 0)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"detail", func() error { _, err := svc.GetItemDetail(ctx, "0xA", "3"); return err }},
		{"history", func() error { _, err := svc.GetItemHistory(ctx, "0xA", "3"); return err }},
		{"offers", func() error { _, err := svc.GetItemOffers(ctx, "0xA", "3"); return err }},
		{"list", func() error { _, err := svc.ListItems(ctx, filter.Config{}); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, catalogdomain.ErrConnectivity) {
				t.Fatalf("expected ErrConnectivity, got %v", err)
			}
			if errors.Is(err, catalogdomain.ErrNotFound) {
				t.Fatal("connectivity failure must not read as not found")
			}
		})
	}
}
