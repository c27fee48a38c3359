package tradestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/slhlabs/wallet-middleware/pkg/trade"
)

const maxListLimit = 200

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the trade offer store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Create(ctx context.Context, seller, asset string, amount, price decimal.Decimal) (*trade.Offer, error) {
	dao := &OfferDao{
		SellerIdentity: seller,
		AssetSymbol:    asset,
		Amount:         amount,
		Price:          price,
		Status:         string(trade.StatusActive),
	}

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	return toOffer(dao), nil
}

func (s *pgStore) Get(ctx context.Context, id int64) (*trade.Offer, error) {
	dao := new(OfferDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return toOffer(dao), nil
}

func (s *pgStore) List(ctx context.Context, status trade.Status, limit int) ([]*trade.Offer, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	var daos []OfferDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	offers := make([]*trade.Offer, len(daos))
	for i := range daos {
		offers[i] = toOffer(&daos[i])
	}
	return offers, nil
}

func (s *pgStore) Reserve(ctx context.Context, id int64, buyer string) (*trade.Offer, error) {
	return s.transition(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.
			Set("status = ?", string(trade.StatusPendingPayment)).
			Set("buyer_identity = ?", buyer).
			Where("status = ?", string(trade.StatusActive))
	})
}

func (s *pgStore) Complete(ctx context.Context, id int64) (*trade.Offer, error) {
	return s.transition(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.
			Set("status = ?", string(trade.StatusCompleted)).
			Where("status IN (?)", bun.In([]string{
				string(trade.StatusActive),
				string(trade.StatusPendingPayment),
			}))
	})
}

func (s *pgStore) Cancel(ctx context.Context, id int64) (*trade.Offer, error) {
	return s.transition(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.
			Set("status = ?", string(trade.StatusCancelled)).
			Where("status IN (?)", bun.In([]string{
				string(trade.StatusActive),
				string(trade.StatusPendingPayment),
			}))
	})
}

// transition performs a compare-and-swap status update. Zero rows affected
// means either the offer does not exist or its current status is outside the
// allowed source set; the follow-up read distinguishes the two.
func (s *pgStore) transition(
	ctx context.Context,
	id int64,
	apply func(*bun.UpdateQuery) *bun.UpdateQuery,
) (*trade.Offer, error) {
	q := s.db.NewUpdate().
		Model((*OfferDao)(nil)).
		Set("updated_at = NOW()").
		Where("id = ?", id)
	q = apply(q)

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to transition offer: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidState
	}

	return s.Get(ctx, id)
}

func (s *pgStore) Summary(ctx context.Context) (*trade.MarketSummary, error) {
	var rows []struct {
		AssetSymbol  string          `bun:"asset_symbol"`
		ActiveOffers int             `bun:"active_offers"`
		AveragePrice decimal.Decimal `bun:"average_price"`
	}

	err := s.db.NewSelect().
		Model((*OfferDao)(nil)).
		Column("asset_symbol").
		ColumnExpr("COUNT(*) AS active_offers").
		ColumnExpr("AVG(price) AS average_price").
		Where("status = ?", string(trade.StatusActive)).
		Group("asset_symbol").
		Order("asset_symbol ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to compute market summary: %w", err)
	}

	summary := &trade.MarketSummary{Assets: make([]trade.AssetSummary, 0, len(rows))}
	for _, row := range rows {
		summary.ActiveOffers += row.ActiveOffers
		summary.Assets = append(summary.Assets, trade.AssetSummary{
			AssetSymbol:  row.AssetSymbol,
			ActiveOffers: row.ActiveOffers,
			AveragePrice: row.AveragePrice,
		})
	}
	return summary, nil
}

func (s *pgStore) Recent(ctx context.Context, limit int) ([]*trade.Offer, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	var daos []OfferDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent offers: %w", err)
	}

	offers := make([]*trade.Offer, len(daos))
	for i := range daos {
		offers[i] = toOffer(&daos[i])
	}
	return offers, nil
}

func (s *pgStore) CountOffers(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*OfferDao)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count offers: %w", err)
	}
	return count, nil
}

func (s *pgStore) CountByStatus(ctx context.Context, status trade.Status) (int, error) {
	count, err := s.db.NewSelect().
		Model((*OfferDao)(nil)).
		Where("status = ?", string(status)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count offers by status: %w", err)
	}
	return count, nil
}
