package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a wallet-identified participant. The item ID slices are read
// models; the store may keep them in join tables rather than inline.
type Account struct {
	ID            uuid.UUID   `json:"id"`
	Wallet        string      `json:"wallet"`
	Name          string      `json:"name"`
	PhotoURL      string      `json:"photo_url"`
	BackgroundURL string      `json:"background_url"`
	JoinedDate    time.Time   `json:"joined_date"`
	Items         []uuid.UUID `json:"nfts"`
	Created       []uuid.UUID `json:"created"`
	Favourites    []uuid.UUID `json:"favourites"`
	History       []uuid.UUID `json:"history"`
}

// AccountRelation names the join between an Account and an Item.
type AccountRelation string

const (
	RelationOwned     AccountRelation = "owned"
	RelationCreated   AccountRelation = "created"
	RelationFavourite AccountRelation = "favourite"
)
