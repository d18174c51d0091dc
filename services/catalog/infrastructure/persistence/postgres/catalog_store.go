package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/nftcatalog/pkg/database"
	"github.com/ghuser/nftcatalog/pkg/events"
	domainevents "github.com/ghuser/nftcatalog/services/catalog/domain/events"
	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
	"github.com/ghuser/nftcatalog/services/catalog/domain/repositories"
)

// CatalogStore implements repositories.CatalogStore against PostgreSQL.
// Every call runs under its own timeout so a stalled connection surfaces as
// domain.ErrConnectivity rather than hanging the request.
type CatalogStore struct {
	db      *database.Database
	bus     *events.EventBus
	timeout time.Duration
}

var _ repositories.CatalogStore = (*CatalogStore)(nil)

// NewCatalogStore returns a CatalogStore backed by the given pool and event
// bus. The bus publishes ItemCreatedEvent inside the insert transaction; it
// may be nil in tools that only read.
func NewCatalogStore(db *database.Database, bus *events.EventBus, timeout time.Duration) *CatalogStore {
	return &CatalogStore{db: db, bus: bus, timeout: timeout}
}

func (s *CatalogStore) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *CatalogStore) FindItem(ctx context.Context, collection, index string) (*models.Item, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	row := s.db.DB().QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE collection = $1 AND "index" = $2 ORDER BY created_at, id LIMIT 1`,
		collection, index)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, readError("find item", err)
	}
	return item, nil
}

func (s *CatalogStore) FindItemByContentRef(ctx context.Context, artURI string) (*models.Item, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	row := s.db.DB().QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE art_uri = $1`, artURI)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, readError("find item by content ref", err)
	}
	return item, nil
}

func (s *CatalogStore) FindCollection(ctx context.Context, key repositories.CollectionKey) (*models.Collection, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	query := `SELECT id, contract, name, created_at FROM collections WHERE contract = $1`
	var arg any = key.Contract
	if key.ID != uuid.Nil {
		query = `SELECT id, contract, name, created_at FROM collections WHERE id = $1`
		arg = key.ID
	}

	var c models.Collection
	err := s.db.DB().QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Contract, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, readError("find collection", err)
	}
	return &c, nil
}

// FindAccount loads the account row and rebuilds its item reference slices
// from the account_items join table and its history from activities.
func (s *CatalogStore) FindAccount(ctx context.Context, wallet string) (*models.Account, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var a models.Account
	err := s.db.DB().QueryRowContext(ctx,
		`SELECT id, wallet, name, photo_url, background_url, joined_date FROM accounts WHERE wallet = $1`, wallet,
	).Scan(&a.ID, &a.Wallet, &a.Name, &a.PhotoURL, &a.BackgroundURL, &a.JoinedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, readError("find account", err)
	}

	a.Items, a.Created, a.Favourites = []uuid.UUID{}, []uuid.UUID{}, []uuid.UUID{}
	rows, err := s.db.DB().QueryContext(ctx,
		`SELECT item_id, relation FROM account_items WHERE account_id = $1 ORDER BY added_at, item_id`, a.ID)
	if err != nil {
		return nil, readError("find account items", err)
	}
	defer rows.Close() //nolint:errcheck
	for rows.Next() {
		var (
			id  uuid.UUID
			rel models.AccountRelation
		)
		if err := rows.Scan(&id, &rel); err != nil {
			return nil, readError("scan account item", err)
		}
		switch rel {
		case models.RelationOwned:
			a.Items = append(a.Items, id)
		case models.RelationCreated:
			a.Created = append(a.Created, id)
		case models.RelationFavourite:
			a.Favourites = append(a.Favourites, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, readError("iterate account items", err)
	}

	a.History, err = s.queryIDs(ctx,
		`SELECT id FROM activities WHERE from_wallet = $1 OR to_wallet = $1 ORDER BY date, seq`, wallet)
	if err != nil {
		return nil, readError("find account history", err)
	}
	return &a, nil
}

func (s *CatalogStore) ListActivity(ctx context.Context, sel models.ActivitySelector) ([]*models.Activity, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	where, args := activityWhere(sel)
	rows, err := s.db.DB().QueryContext(ctx,
		`SELECT id, type, collection, item_index, from_wallet, to_wallet, price, date
		 FROM activities WHERE `+where+` ORDER BY date, seq`, args...)
	if err != nil {
		return nil, readError("list activity", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []*models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.Collection, &a.ItemIndex, &a.From, &a.To, &a.Price, &a.Date); err != nil {
			return nil, readError("scan activity", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, readError("iterate activity", err)
	}
	return out, nil
}

func (s *CatalogStore) CountActivity(ctx context.Context, sel models.ActivitySelector) (int, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	where, args := activityWhere(sel)
	var n int
	if err := s.db.DB().QueryRowContext(ctx, `SELECT count(*) FROM activities WHERE `+where, args...).Scan(&n); err != nil {
		return 0, readError("count activity", err)
	}
	return n, nil
}

func (s *CatalogStore) ScanItems(ctx context.Context, p filter.Pipeline) ([]*models.Item, error) {
	q, err := buildScanQuery(p)
	if err != nil {
		return nil, fmt.Errorf("build scan query: %w", err)
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rows, err := s.db.DB().QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, readError("scan items", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []*models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, readError("scan item row", err)
		}
		if len(q.Project) > 0 {
			item = item.Project(q.Project)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, readError("iterate items", err)
	}
	return out, nil
}

// InsertItem persists a new Item and publishes an ItemCreatedEvent within the
// same transaction. The unique index on art_uri makes the second of two
// concurrent inserts for the same content fail with ErrConflict.
func (s *CatalogStore) InsertItem(ctx context.Context, item *models.Item) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	props, err := json.Marshal(item.Properties)
	if err != nil {
		return fmt.Errorf("marshal properties: %w", err)
	}

	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO items (collection, "index", owner, creator, art_uri, name, external_link, description,
				properties, is_explicit, lock_content, price, status, status_date, token_kind, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			 RETURNING id`,
			item.Collection, item.Index, item.Owner, item.Creator, item.ArtURI, item.Name, item.ExternalLink,
			item.Description, props, item.IsExplicit, item.LockContent, item.Price, string(item.Status),
			item.StatusDate, string(item.TokenKind), item.CreatedAt,
		).Scan(&item.ID); err != nil {
			return err
		}

		if s.bus != nil {
			if err := s.publishCreated(ctx, tx, item); err != nil {
				return fmt.Errorf("publish item created: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		item.ID = uuid.Nil
		return writeError("insert item", err)
	}
	return nil
}

func (s *CatalogStore) publishCreated(ctx context.Context, tx *sql.Tx, item *models.Item) error {
	event := domainevents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    domainevents.ItemCreatedVersion,
		ItemID:     item.ID,
		Collection: item.Collection,
		Index:      item.Index,
		ArtURI:     item.ArtURI,
		TokenKind:  item.TokenKind.String(),
		OccurredAt: item.CreatedAt,
	}
	msg, err := events.NewEnvelope(ctx, event.EventID, event.Version, event)
	if err != nil {
		return err
	}
	return s.bus.PublishTx(ctx, tx, domainevents.TopicItemCreated, msg)
}

func (s *CatalogStore) queryIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := s.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func activityWhere(sel models.ActivitySelector) (string, []any) {
	where := "collection = $1"
	args := []any{sel.Collection}
	if sel.ItemIndex != "" {
		args = append(args, sel.ItemIndex)
		where += fmt.Sprintf(" AND item_index = $%d", len(args))
	}
	if len(sel.Types) > 0 {
		types := make([]string, len(sel.Types))
		for i, t := range sel.Types {
			types[i] = string(t)
		}
		args = append(args, types)
		where += fmt.Sprintf(" AND type = ANY($%d)", len(args))
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(r rowScanner) (*models.Item, error) {
	var (
		item  models.Item
		props []byte
	)
	if err := r.Scan(
		&item.ID, &item.Collection, &item.Index, &item.Owner, &item.Creator, &item.ArtURI, &item.Name,
		&item.ExternalLink, &item.Description, &props, &item.IsExplicit, &item.LockContent, &item.Price,
		&item.Status, &item.StatusDate, &item.TokenKind, &item.CreatedAt,
	); err != nil {
		return nil, err
	}
	item.Properties = map[string]any{}
	if len(props) > 0 {
		if err := json.Unmarshal(props, &item.Properties); err != nil {
			return nil, fmt.Errorf("unmarshal properties: %w", err)
		}
	}
	return &item, nil
}
