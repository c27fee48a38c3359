package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/internal/metrics"
	apperrors "github.com/slhlabs/wallet-middleware/pkg/app/errors"
	"github.com/slhlabs/wallet-middleware/pkg/config"
	"github.com/slhlabs/wallet-middleware/pkg/trade"
	"github.com/slhlabs/wallet-middleware/pkg/tradestore"
	"github.com/slhlabs/wallet-middleware/pkg/walletstore"
)

var (
	ErrNotSeller         = errors.New("caller is not the offer seller")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNonPositivePrice  = errors.New("price must be positive")
)

// WalletRegistry is the narrow wallet lookup the trade service needs.
type WalletRegistry interface {
	Exists(ctx context.Context, identity string) (bool, error)
}

// Service defines the trade offer business logic
type Service interface {
	Create(ctx context.Context, seller, asset string, amount, price decimal.Decimal) (*trade.Offer, error)
	Get(ctx context.Context, id int64) (*trade.Offer, error)
	Reserve(ctx context.Context, id int64, buyer string) (*trade.Offer, error)
	Complete(ctx context.Context, id int64, caller string) (*trade.Offer, error)
	Cancel(ctx context.Context, id int64, caller string) (*trade.Offer, error)
	List(ctx context.Context, status trade.Status, limit int) ([]*trade.Offer, error)
	MarketSummary(ctx context.Context) (*trade.MarketSummary, error)
}

type tradeService struct {
	store        tradestore.Store
	wallets      WalletRegistry
	defaultAsset string
	logger       *zap.Logger
}

// NewService creates a new trade service
func NewService(
	store tradestore.Store,
	wallets WalletRegistry,
	tokenCfg *config.TokenConfig,
	logger *zap.Logger,
) Service {
	return &tradeService{
		store:        store,
		wallets:      wallets,
		defaultAsset: tokenCfg.Symbol,
		logger:       logger,
	}
}

func (s *tradeService) Create(ctx context.Context, seller, asset string, amount, price decimal.Decimal) (*trade.Offer, error) {
	if !amount.IsPositive() {
		return nil, apperrors.BadRequestError(ErrNonPositiveAmount, "amount must be positive")
	}
	if !price.IsPositive() {
		return nil, apperrors.BadRequestError(ErrNonPositivePrice, "price must be positive")
	}
	if asset == "" {
		asset = s.defaultAsset
	}

	if err := s.requireWallet(ctx, seller); err != nil {
		return nil, err
	}

	offer, err := s.store.Create(ctx, seller, asset, amount, price)
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}
	return offer, nil
}

func (s *tradeService) Get(ctx context.Context, id int64) (*trade.Offer, error) {
	offer, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return offer, nil
}

func (s *tradeService) Reserve(ctx context.Context, id int64, buyer string) (*trade.Offer, error) {
	if err := s.requireWallet(ctx, buyer); err != nil {
		return nil, err
	}

	offer, err := s.store.Reserve(ctx, id, buyer)
	if err != nil {
		metrics.OfferTransitionsTotal.WithLabelValues("reserve", "error").Inc()
		return nil, mapStoreErr(err)
	}
	metrics.OfferTransitionsTotal.WithLabelValues("reserve", "ok").Inc()
	return offer, nil
}

// Complete marks an offer settled. Only the seller may complete; the
// authorization check runs before the state transition so an unauthorized
// caller on a terminal offer still sees Forbidden, not Conflict.
func (s *tradeService) Complete(ctx context.Context, id int64, caller string) (*trade.Offer, error) {
	if err := s.requireSeller(ctx, id, caller); err != nil {
		return nil, err
	}

	offer, err := s.store.Complete(ctx, id)
	if err != nil {
		metrics.OfferTransitionsTotal.WithLabelValues("complete", "error").Inc()
		return nil, mapStoreErr(err)
	}
	metrics.OfferTransitionsTotal.WithLabelValues("complete", "ok").Inc()
	return offer, nil
}

// Cancel withdraws an offer. Seller-only, same ordering as Complete.
func (s *tradeService) Cancel(ctx context.Context, id int64, caller string) (*trade.Offer, error) {
	if err := s.requireSeller(ctx, id, caller); err != nil {
		return nil, err
	}

	offer, err := s.store.Cancel(ctx, id)
	if err != nil {
		metrics.OfferTransitionsTotal.WithLabelValues("cancel", "error").Inc()
		return nil, mapStoreErr(err)
	}
	metrics.OfferTransitionsTotal.WithLabelValues("cancel", "ok").Inc()
	return offer, nil
}

func (s *tradeService) List(ctx context.Context, status trade.Status, limit int) ([]*trade.Offer, error) {
	if !status.Valid() {
		return nil, apperrors.BadRequestError(nil, fmt.Sprintf("unknown status %q", status))
	}
	return s.store.List(ctx, status, limit)
}

func (s *tradeService) MarketSummary(ctx context.Context) (*trade.MarketSummary, error) {
	summary, err := s.store.Summary(ctx)
	if err != nil {
		return nil, err
	}
	metrics.ActiveOffers.Set(float64(summary.ActiveOffers))
	return summary, nil
}

func (s *tradeService) requireWallet(ctx context.Context, identity string) error {
	exists, err := s.wallets.Exists(ctx, identity)
	if err != nil {
		return fmt.Errorf("failed to check wallet existence: %w", err)
	}
	if !exists {
		return apperrors.ResourceNotFoundError(walletstore.ErrWalletNotFound, "wallet not found")
	}
	return nil
}

func (s *tradeService) requireSeller(ctx context.Context, id int64, caller string) error {
	offer, err := s.store.Get(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if offer.SellerIdentity != caller {
		return apperrors.ForbiddenError(ErrNotSeller, "only the seller may modify this offer")
	}
	return nil
}

func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tradestore.ErrOfferNotFound):
		return apperrors.ResourceNotFoundError(err, "trade offer not found")
	case errors.Is(err, tradestore.ErrInvalidState):
		return apperrors.ConflictError(err, "offer state does not permit this transition")
	default:
		return err
	}
}
