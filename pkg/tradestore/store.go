package tradestore

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/slhlabs/wallet-middleware/pkg/trade"
)

// ErrOfferNotFound is returned when an offer lookup finds no matching record.
var ErrOfferNotFound = errors.New("trade offer not found")

// ErrInvalidState is returned when a status transition is not permitted from
// the offer's current state. Under concurrent transitions exactly one caller
// wins the compare-and-swap; the others observe this error.
var ErrInvalidState = errors.New("invalid offer state for requested transition")

// Store defines the interface for trade offer persistence.
//
// Reserve, Complete and Cancel are compare-and-swap transitions: the allowed
// source states live in the UPDATE's WHERE clause, so the read-check-write
// sequence for a single offer is serialized by the database row lock.
type Store interface {
	Create(ctx context.Context, seller, asset string, amount, price decimal.Decimal) (*trade.Offer, error)
	Get(ctx context.Context, id int64) (*trade.Offer, error)
	List(ctx context.Context, status trade.Status, limit int) ([]*trade.Offer, error)
	Reserve(ctx context.Context, id int64, buyer string) (*trade.Offer, error)
	Complete(ctx context.Context, id int64) (*trade.Offer, error)
	Cancel(ctx context.Context, id int64) (*trade.Offer, error)
	Summary(ctx context.Context) (*trade.MarketSummary, error)
	Recent(ctx context.Context, limit int) ([]*trade.Offer, error)
	CountOffers(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status trade.Status) (int, error)
}
