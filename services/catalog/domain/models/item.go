package models

import (
	"cmp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus is the lifecycle state of an Item.
type ItemStatus string

const (
	ItemStatusCreated ItemStatus = "Created"
	ItemStatusListed  ItemStatus = "Listed"
	ItemStatusSold    ItemStatus = "Sold"
)

// UnassignedIndex is the per-collection index every new Item starts with.
// A later minting step replaces it with the real token index.
const UnassignedIndex = "0"

// Item is a single collectible asset inside a Collection.
// (Collection, Index) identifies it for reads; ArtURI is unique across all items.
type Item struct {
	ID           uuid.UUID       `json:"id"`
	Collection   string          `json:"collection"`
	Index        string          `json:"index"`
	Owner        string          `json:"owner"`
	Creator      string          `json:"creator"`
	ArtURI       string          `json:"art_uri"`
	Name         string          `json:"name"`
	ExternalLink string          `json:"external_link"`
	Description  string          `json:"description"`
	Properties   map[string]any  `json:"properties"`
	IsExplicit   bool            `json:"is_explicit"`
	LockContent  string          `json:"lock_content"`
	Price        decimal.Decimal `json:"price"`
	Status       ItemStatus      `json:"status"`
	StatusDate   time.Time       `json:"status_date"`
	TokenKind    TokenKind       `json:"token_kind"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewItemParams carries the caller-provided fields for a new Item.
type NewItemParams struct {
	Collection   string
	ArtURI       string
	Name         string
	ExternalLink string
	Description  string
	Properties   map[string]any
	LockContent  string
	IsExplicit   bool
	TokenKind    TokenKind
}

// NewItem builds an Item in its initial state. Owner and creator stay empty
// until a minting step assigns them; the store assigns ID on insert.
func NewItem(p NewItemParams) *Item {
	props := p.Properties
	if props == nil {
		props = map[string]any{}
	}
	now := time.Now().UTC()
	return &Item{
		Collection:   p.Collection,
		Index:        UnassignedIndex,
		ArtURI:       p.ArtURI,
		Name:         p.Name,
		ExternalLink: p.ExternalLink,
		Description:  p.Description,
		Properties:   props,
		IsExplicit:   p.IsExplicit,
		LockContent:  p.LockContent,
		Price:        decimal.Zero,
		Status:       ItemStatusCreated,
		StatusDate:   now,
		TokenKind:    p.TokenKind,
		CreatedAt:    now,
	}
}

// CompareIndex orders token indexes numerically when both are decimal
// strings: shorter first, then lexically. "9" sorts before "10".
func CompareIndex(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Field returns the value of a filterable attribute by its DSL name.
func (i *Item) Field(name string) (any, bool) {
	switch name {
	case "id":
		return i.ID.String(), true
	case "collection":
		return i.Collection, true
	case "index":
		return i.Index, true
	case "owner":
		return i.Owner, true
	case "creator":
		return i.Creator, true
	case "name":
		return i.Name, true
	case "status":
		return string(i.Status), true
	case "token_kind":
		return string(i.TokenKind), true
	case "is_explicit":
		return i.IsExplicit, true
	case "price":
		return i.Price, true
	case "status_date":
		return i.StatusDate, true
	case "created_at":
		return i.CreatedAt, true
	default:
		return nil, false
	}
}

// Project returns a copy of the Item keeping only the named fields.
// ID, Collection and Index are always kept so the copy can still be enriched.
func (i *Item) Project(fields []string) *Item {
	if len(fields) == 0 {
		cp := *i
		return &cp
	}
	out := &Item{ID: i.ID, Collection: i.Collection, Index: i.Index}
	for _, f := range fields {
		switch f {
		case "owner":
			out.Owner = i.Owner
		case "creator":
			out.Creator = i.Creator
		case "art_uri":
			out.ArtURI = i.ArtURI
		case "name":
			out.Name = i.Name
		case "external_link":
			out.ExternalLink = i.ExternalLink
		case "description":
			out.Description = i.Description
		case "properties":
			out.Properties = i.Properties
		case "is_explicit":
			out.IsExplicit = i.IsExplicit
		case "lock_content":
			out.LockContent = i.LockContent
		case "price":
			out.Price = i.Price
		case "status":
			out.Status = i.Status
		case "status_date":
			out.StatusDate = i.StatusDate
		case "token_kind":
			out.TokenKind = i.TokenKind
		case "created_at":
			out.CreatedAt = i.CreatedAt
		}
	}
	return out
}
