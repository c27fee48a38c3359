package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/slhlabs/wallet-middleware/pkg/app/errors"
	"github.com/slhlabs/wallet-middleware/pkg/config"
	"github.com/slhlabs/wallet-middleware/pkg/trade"
	"github.com/slhlabs/wallet-middleware/pkg/tradestore"
)

func newTestService(store *MockStore, registry *MockRegistry) Service {
	if registry == nil {
		registry = &MockRegistry{}
	}
	return NewService(store, registry, &config.TokenConfig{Symbol: "SLH"}, zap.NewNop())
}

func TestTradeService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&MockStore{}, nil)

	_, err := svc.Create(ctx, "seller", "SLH", decimal.Zero, decimal.NewFromInt(1))
	if !errors.Is(err, ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
	_, err = svc.Create(ctx, "seller", "SLH", decimal.NewFromInt(1), decimal.NewFromInt(-2))
	if !errors.Is(err, ErrNonPositivePrice) {
		t.Fatalf("expected ErrNonPositivePrice, got %v", err)
	}
	if !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected CategoryDataError, got %v", err)
	}
}

func TestTradeService_CreateDefaultsAssetSymbol(t *testing.T) {
	ctx := context.Background()
	var gotAsset string

	store := &MockStore{
		CreateFunc: func(_ context.Context, seller, asset string, amount, price decimal.Decimal) (*trade.Offer, error) {
			gotAsset = asset
			return &trade.Offer{ID: 1, SellerIdentity: seller, AssetSymbol: asset, Amount: amount, Price: price, Status: trade.StatusActive}, nil
		},
	}
	svc := newTestService(store, nil)

	offer, err := svc.Create(ctx, "seller", "", decimal.NewFromInt(10), decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if gotAsset != "SLH" {
		t.Fatalf("expected default asset SLH, got %q", gotAsset)
	}
	if offer.Status != trade.StatusActive {
		t.Fatalf("expected new offer to be active, got %s", offer.Status)
	}
}

func TestTradeService_CreateRequiresRegisteredSeller(t *testing.T) {
	ctx := context.Background()
	storeCalled := false

	store := &MockStore{
		CreateFunc: func(context.Context, string, string, decimal.Decimal, decimal.Decimal) (*trade.Offer, error) {
			storeCalled = true
			return nil, nil
		},
	}
	registry := &MockRegistry{
		ExistsFunc: func(context.Context, string) (bool, error) { return false, nil },
	}
	svc := newTestService(store, registry)

	_, err := svc.Create(ctx, "ghost", "SLH", decimal.NewFromInt(1), decimal.NewFromInt(1))
	if !apperrors.Is(err, apperrors.CategoryResourceNotFound) {
		t.Fatalf("expected CategoryResourceNotFound, got %v", err)
	}
	if storeCalled {
		t.Fatal("store must not be reached for an unregistered seller")
	}
}

func TestTradeService_ReserveRequiresRegisteredBuyer(t *testing.T) {
	ctx := context.Background()
	registry := &MockRegistry{
		ExistsFunc: func(context.Context, string) (bool, error) { return false, nil },
	}
	svc := newTestService(&MockStore{}, registry)

	_, err := svc.Reserve(ctx, 1, "ghost")
	if !apperrors.Is(err, apperrors.CategoryResourceNotFound) {
		t.Fatalf("expected CategoryResourceNotFound, got %v", err)
	}
}

func TestTradeService_SellerOnlyTransitions(t *testing.T) {
	ctx := context.Background()

	store := &MockStore{
		GetFunc: func(_ context.Context, id int64) (*trade.Offer, error) {
			// terminal offer owned by "seller"
			return &trade.Offer{ID: id, SellerIdentity: "seller", Status: trade.StatusCompleted}, nil
		},
		CompleteFunc: func(_ context.Context, id int64) (*trade.Offer, error) {
			return nil, tradestore.ErrInvalidState
		},
		CancelFunc: func(_ context.Context, id int64) (*trade.Offer, error) {
			return nil, tradestore.ErrInvalidState
		},
	}
	svc := newTestService(store, nil)

	// a stranger on a terminal offer sees Forbidden, not Conflict
	_, err := svc.Complete(ctx, 1, "stranger")
	if !errors.Is(err, ErrNotSeller) {
		t.Fatalf("expected ErrNotSeller, got %v", err)
	}
	if !apperrors.Is(err, apperrors.CategoryForbidden) {
		t.Fatalf("expected CategoryForbidden, got %v", err)
	}

	_, err = svc.Cancel(ctx, 1, "stranger")
	if !apperrors.Is(err, apperrors.CategoryForbidden) {
		t.Fatalf("expected CategoryForbidden, got %v", err)
	}

	// the seller on a terminal offer sees the state conflict
	_, err = svc.Complete(ctx, 1, "seller")
	if !apperrors.Is(err, apperrors.CategoryDataConflict) {
		t.Fatalf("expected CategoryDataConflict, got %v", err)
	}
}

func TestTradeService_GetMapsNotFound(t *testing.T) {
	store := &MockStore{
		GetFunc: func(context.Context, int64) (*trade.Offer, error) {
			return nil, tradestore.ErrOfferNotFound
		},
	}
	svc := newTestService(store, nil)

	_, err := svc.Get(context.Background(), 404)
	if !apperrors.Is(err, apperrors.CategoryResourceNotFound) {
		t.Fatalf("expected CategoryResourceNotFound, got %v", err)
	}
}

func TestTradeService_ListRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&MockStore{}, nil)

	_, err := svc.List(context.Background(), trade.Status("BOGUS"), 10)
	if !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected CategoryDataError, got %v", err)
	}
}

func TestTradeService_MarketSummaryPassesThrough(t *testing.T) {
	store := &MockStore{
		SummaryFunc: func(context.Context) (*trade.MarketSummary, error) {
			return &trade.MarketSummary{
				ActiveOffers: 3,
				Assets: []trade.AssetSummary{
					{AssetSymbol: "SLH", ActiveOffers: 3, AveragePrice: decimal.NewFromInt(2)},
				},
			}, nil
		},
	}
	svc := newTestService(store, nil)

	summary, err := svc.MarketSummary(context.Background())
	if err != nil {
		t.Fatalf("MarketSummary() failed: %v", err)
	}
	if summary.ActiveOffers != 3 || len(summary.Assets) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
