package tradestore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/slhlabs/wallet-middleware/pkg/trade"
)

// OfferDao is a data access object that maps directly to the 'trade_offers' table in PostgreSQL.
type OfferDao struct {
	bun.BaseModel `bun:"table:trade_offers,alias:o"`

	ID             int64           `bun:"id,pk,autoincrement"`
	SellerIdentity string          `bun:"seller_identity,notnull,type:varchar(64)"`
	BuyerIdentity  *string         `bun:"buyer_identity,type:varchar(64)"`
	AssetSymbol    string          `bun:"asset_symbol,notnull,type:varchar(32)"`
	Amount         decimal.Decimal `bun:"amount,notnull,type:numeric(38,18)"`
	Price          decimal.Decimal `bun:"price,notnull,type:numeric(38,18)"`
	Status         string          `bun:"status,notnull,type:varchar(32),default:'ACTIVE'"`
	CreatedAt      time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// toOffer converts an OfferDao to trade.Offer.
func toOffer(dao *OfferDao) *trade.Offer {
	o := &trade.Offer{
		ID:             dao.ID,
		SellerIdentity: dao.SellerIdentity,
		AssetSymbol:    dao.AssetSymbol,
		Amount:         dao.Amount,
		Price:          dao.Price,
		Status:         trade.Status(dao.Status),
		CreatedAt:      dao.CreatedAt,
		UpdatedAt:      dao.UpdatedAt,
	}
	if dao.BuyerIdentity != nil {
		o.BuyerIdentity = *dao.BuyerIdentity
	}
	return o
}
