package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActivityType tags an Activity record.
type ActivityType string

const (
	ActivitySold     ActivityType = "Sold"
	ActivityTransfer ActivityType = "Transfer"
	ActivityOffer    ActivityType = "Offer"
	ActivityListing  ActivityType = "Listing"
	ActivityMint     ActivityType = "Mint"
)

// HistoryTypes are the activity types reported as an item's history.
var HistoryTypes = []ActivityType{ActivitySold, ActivityTransfer}

// OfferTypes are the activity types reported as an item's offers.
var OfferTypes = []ActivityType{ActivityOffer}

// Activity is an append-only event tied to a collection and item index.
type Activity struct {
	ID         uuid.UUID       `json:"id"`
	Type       ActivityType    `json:"type"`
	Collection string          `json:"collection"`
	ItemIndex  string          `json:"nft_id"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Price      decimal.Decimal `json:"price"`
	Date       time.Time       `json:"date"`
}

// ActivitySelector scopes an activity scan. An empty ItemIndex matches every
// item in the collection; an empty Types slice matches every type.
type ActivitySelector struct {
	Collection string
	ItemIndex  string
	Types      []ActivityType
}

// Matches reports whether a satisfies the selector.
func (s ActivitySelector) Matches(a *Activity) bool {
	if a.Collection != s.Collection {
		return false
	}
	if s.ItemIndex != "" && a.ItemIndex != s.ItemIndex {
		return false
	}
	if len(s.Types) == 0 {
		return true
	}
	for _, t := range s.Types {
		if a.Type == t {
			return true
		}
	}
	return false
}
