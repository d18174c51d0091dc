package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicItemCreated is the Watermill topic published when an Item is created.
const TopicItemCreated = "item.created"

// ItemCreatedVersion is the current ItemCreatedEvent schema version.
const ItemCreatedVersion = 1

// ItemCreatedEvent is published in the same transaction that inserts the Item.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     uuid.UUID `json:"item_id"`
	Collection string    `json:"collection"`
	Index      string    `json:"index"`
	ArtURI     string    `json:"art_uri"`
	TokenKind  string    `json:"token_kind"`
	OccurredAt time.Time `json:"occurred_at"`
}
