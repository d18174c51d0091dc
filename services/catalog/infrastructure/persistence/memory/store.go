// Package memory is an in-process CatalogStore. Each Store is an isolated
// handle, so tests can build one per case without sharing state.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/ghuser/nftcatalog/services/catalog/domain"
	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
	"github.com/ghuser/nftcatalog/services/catalog/domain/repositories"
)

// Store implements repositories.CatalogStore over in-memory slices.
// Slices keep insertion order, which is the store-native scan order.
type Store struct {
	mu          sync.RWMutex
	items       []*models.Item
	collections []*models.Collection
	accounts    []*models.Account
	activities  []*models.Activity
}

var _ repositories.CatalogStore = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// AddCollection seeds a collection, assigning an ID if it has none.
func (s *Store) AddCollection(c models.Collection) *models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.collections = append(s.collections, &c)
	return &c
}

// AddAccount seeds an account, assigning an ID if it has none.
func (s *Store) AddAccount(a models.Account) *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.accounts = append(s.accounts, &a)
	return &a
}

// AddActivity appends an activity record.
func (s *Store) AddActivity(a models.Activity) *models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Date.IsZero() {
		a.Date = time.Now().UTC()
	}
	s.activities = append(s.activities, &a)
	return &a
}

// AddItem seeds an item directly, bypassing uniqueness checks.
func (s *Store) AddItem(i models.Item) *models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	s.items = append(s.items, &i)
	return &i
}

// ItemCount returns the number of stored items.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) FindItem(ctx context.Context, collection, index string) (*models.Item, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.Collection == collection && it.Index == index {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) FindItemByContentRef(ctx context.Context, artURI string) (*models.Item, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ArtURI == artURI {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) FindCollection(ctx context.Context, key repositories.CollectionKey) (*models.Collection, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.collections {
		if (key.ID != uuid.Nil && c.ID == key.ID) || (key.ID == uuid.Nil && c.Contract == key.Contract) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) FindAccount(ctx context.Context, wallet string) (*models.Account, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Wallet == wallet {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ListActivity(ctx context.Context, sel models.ActivitySelector) ([]*models.Activity, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Activity{}
	for _, a := range s.activities {
		if sel.Matches(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) CountActivity(ctx context.Context, sel models.ActivitySelector) (int, error) {
	if err := alive(ctx); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.activities {
		if sel.Matches(a) {
			n++
		}
	}
	return n, nil
}

func (s *Store) ScanItems(ctx context.Context, p filter.Pipeline) ([]*models.Item, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	rows := make([]*models.Item, len(s.items))
	for i, it := range s.items {
		cp := *it
		rows[i] = &cp
	}
	s.mu.RUnlock()

	for _, stage := range p {
		switch st := stage.(type) {
		case filter.Match:
			rows = slices.DeleteFunc(rows, func(it *models.Item) bool {
				return !matchesAll(it, st.Predicates)
			})
		case filter.Sort:
			slices.SortStableFunc(rows, func(a, b *models.Item) int {
				return compareByKeys(a, b, st.Keys)
			})
		case filter.Skip:
			rows = rows[min(st.N, len(rows)):]
		case filter.Limit:
			rows = rows[:min(st.N, len(rows))]
		case filter.Project:
			for i, it := range rows {
				rows[i] = it.Project(st.Fields)
			}
		}
	}
	return rows, nil
}

// InsertItem enforces ArtURI uniqueness and (collection, index) uniqueness for
// assigned indexes under the write lock, so concurrent inserts of the same
// content cannot both succeed.
func (s *Store) InsertItem(ctx context.Context, item *models.Item) error {
	if err := alive(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ArtURI == item.ArtURI {
			return fmt.Errorf("%w: art_uri %q", catalogdomain.ErrConflict, item.ArtURI)
		}
		if item.Index != models.UnassignedIndex && it.Collection == item.Collection && it.Index == item.Index {
			return fmt.Errorf("%w: %s/%s", catalogdomain.ErrConflict, item.Collection, item.Index)
		}
	}
	item.ID = uuid.New()
	cp := *item
	s.items = append(s.items, &cp)
	return nil
}

func alive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", catalogdomain.ErrConnectivity, err)
	}
	return nil
}

func matchesAll(it *models.Item, preds []filter.Predicate) bool {
	for _, p := range preds {
		v, ok := it.Field(p.Field)
		if !ok {
			return false
		}
		c, ok := compare(v, p.Value)
		if !ok {
			return false
		}
		switch p.Op {
		case filter.OpEq:
			if c != 0 {
				return false
			}
		case filter.OpGte:
			if c < 0 {
				return false
			}
		case filter.OpLte:
			if c > 0 {
				return false
			}
		}
	}
	return true
}

func compareByKeys(a, b *models.Item, keys []filter.SortKey) int {
	for _, k := range keys {
		var c int
		if k.Field == "index" {
			c = models.CompareIndex(a.Index, b.Index)
		} else {
			av, _ := a.Field(k.Field)
			bv, _ := b.Field(k.Field)
			c, _ = compare(av, bv)
		}
		if k.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// compare orders two values of the same dynamic type.
func compare(a, b any) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return cmp.Compare(av, bv), ok
	case bool:
		bv, ok := b.(bool)
		if !ok || av == bv {
			return 0, ok
		}
		if !av {
			return -1, true
		}
		return 1, true
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return av.Cmp(bv), ok
	case time.Time:
		bv, ok := b.(time.Time)
		return av.Compare(bv), ok
	}
	return 0, false
}
