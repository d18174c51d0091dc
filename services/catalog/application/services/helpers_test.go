package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ghuser/nftcatalog/pkg/config"
	"github.com/ghuser/nftcatalog/pkg/logger"
	catalogdomain "github.com/ghuser/nftcatalog/services/catalog/domain"
	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
	"github.com/ghuser/nftcatalog/services/catalog/domain/repositories"
	"github.com/ghuser/nftcatalog/services/catalog/infrastructure/persistence/memory"
)

func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// seedCats builds the reference catalog: collection 0xA "Cats" holding item
// 3 at ipfs://x owned by a registered account.
func seedCats(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.New()
	s.AddCollection(models.Collection{Contract: "0xA", Name: "Cats"})
	s.AddAccount(models.Account{Wallet: "0xowner", Name: "Alice"})
	s.AddItem(models.Item{
		Collection: "0xA",
		Index:      "3",
		ArtURI:     "ipfs://x",
		Owner:      "0xowner",
		Status:     models.ItemStatusListed,
		TokenKind:  models.TokenKindERC721,
	})
	return s
}

// mapCache is an in-process ReadCache with redis.Nil miss semantics.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *mapCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// downStore fails every call the way an unreachable database does.
type downStore struct{}

var _ repositories.CatalogStore = downStore{}

func errDown(op string) error {
	return fmt.Errorf("%s: %w: dial tcp: connection refused", op, catalogdomain.ErrConnectivity)
}

func (downStore) FindItem(context.Context, string, string) (*models.Item, error) {
	return nil, errDown("find item")
}
func (downStore) FindItemByContentRef(context.Context, string) (*models.Item, error) {
	return nil, errDown("find item by content ref")
}
func (downStore) FindCollection(context.Context, repositories.CollectionKey) (*models.Collection, error) {
	return nil, errDown("find collection")
}
func (downStore) FindAccount(context.Context, string) (*models.Account, error) {
	return nil, errDown("find account")
}
func (downStore) ListActivity(context.Context, models.ActivitySelector) ([]*models.Activity, error) {
	return nil, errDown("list activity")
}
func (downStore) CountActivity(context.Context, models.ActivitySelector) (int, error) {
	return 0, errDown("count activity")
}
func (downStore) ScanItems(context.Context, filter.Pipeline) ([]*models.Item, error) {
	return nil, errDown("scan items")
}
func (downStore) InsertItem(context.Context, *models.Item) error {
	return errDown("insert item")
}

// newTestMetrics returns Metrics backed by a manual reader so tests can read
// counter totals back.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	m, err := NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != name {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is %T, want Sum[int64]", name, md.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}
