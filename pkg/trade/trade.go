// Package trade defines the domain model for the P2P token offer marketplace.
package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle position of an offer.
//
// Transitions are monotonic:
//
//	ACTIVE -> PENDING_PAYMENT -> COMPLETED
//	ACTIVE -> COMPLETED
//	ACTIVE | PENDING_PAYMENT -> CANCELLED
//
// COMPLETED and CANCELLED are terminal.
type Status string

const (
	StatusActive         Status = "ACTIVE"
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPendingPayment, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether the state machine permits moving from s to next.
func (s Status) CanTransition(next Status) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusPendingPayment:
		return s == StatusActive
	case StatusCompleted, StatusCancelled:
		return s == StatusActive || s == StatusPendingPayment
	}
	return false
}

// Offer represents a standing intent to sell a quantity of an asset at a
// unit price denominated in BNB. Amount and Price are immutable after
// creation; BuyerIdentity is set exactly once when the offer is reserved.
type Offer struct {
	ID             int64           `json:"id"`
	SellerIdentity string          `json:"seller_identity"`
	BuyerIdentity  string          `json:"buyer_identity,omitzero"`
	AssetSymbol    string          `json:"asset_symbol"`
	Amount         decimal.Decimal `json:"amount"`
	Price          decimal.Decimal `json:"price"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AssetSummary aggregates active offers for one asset symbol.
type AssetSummary struct {
	AssetSymbol  string          `json:"asset_symbol"`
	ActiveOffers int             `json:"active_offers"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// MarketSummary is the read-side view of the active market.
type MarketSummary struct {
	ActiveOffers int            `json:"active_offers"`
	Assets       []AssetSummary `json:"assets"`
}
