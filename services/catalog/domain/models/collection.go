package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection groups Items that share a contract identifier.
type Collection struct {
	ID        uuid.UUID `json:"id"`
	Contract  string    `json:"contract"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CollectionSummary is the trimmed projection attached to listed items.
type CollectionSummary struct {
	ID       uuid.UUID `json:"id"`
	Contract string    `json:"contract"`
	Name     string    `json:"name"`
}

// Summary returns the listing projection of c.
func (c *Collection) Summary() *CollectionSummary {
	return &CollectionSummary{ID: c.ID, Contract: c.Contract, Name: c.Name}
}
