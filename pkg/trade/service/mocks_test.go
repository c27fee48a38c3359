package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/slhlabs/wallet-middleware/pkg/trade"
)

// MockStore is a func-field mock of tradestore.Store
type MockStore struct {
	CreateFunc        func(ctx context.Context, seller, asset string, amount, price decimal.Decimal) (*trade.Offer, error)
	GetFunc           func(ctx context.Context, id int64) (*trade.Offer, error)
	ListFunc          func(ctx context.Context, status trade.Status, limit int) ([]*trade.Offer, error)
	ReserveFunc       func(ctx context.Context, id int64, buyer string) (*trade.Offer, error)
	CompleteFunc      func(ctx context.Context, id int64) (*trade.Offer, error)
	CancelFunc        func(ctx context.Context, id int64) (*trade.Offer, error)
	SummaryFunc       func(ctx context.Context) (*trade.MarketSummary, error)
	RecentFunc        func(ctx context.Context, limit int) ([]*trade.Offer, error)
	CountOffersFunc   func(ctx context.Context) (int, error)
	CountByStatusFunc func(ctx context.Context, status trade.Status) (int, error)
}

func (m *MockStore) Create(ctx context.Context, seller, asset string, amount, price decimal.Decimal) (*trade.Offer, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, seller, asset, amount, price)
	}
	return nil, nil
}

func (m *MockStore) Get(ctx context.Context, id int64) (*trade.Offer, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStore) List(ctx context.Context, status trade.Status, limit int) ([]*trade.Offer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, limit)
	}
	return nil, nil
}

func (m *MockStore) Reserve(ctx context.Context, id int64, buyer string) (*trade.Offer, error) {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, id, buyer)
	}
	return nil, nil
}

func (m *MockStore) Complete(ctx context.Context, id int64) (*trade.Offer, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStore) Cancel(ctx context.Context, id int64) (*trade.Offer, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStore) Summary(ctx context.Context) (*trade.MarketSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return &trade.MarketSummary{}, nil
}

func (m *MockStore) Recent(ctx context.Context, limit int) ([]*trade.Offer, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockStore) CountOffers(ctx context.Context) (int, error) {
	if m.CountOffersFunc != nil {
		return m.CountOffersFunc(ctx)
	}
	return 0, nil
}

func (m *MockStore) CountByStatus(ctx context.Context, status trade.Status) (int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, status)
	}
	return 0, nil
}

// MockRegistry is a func-field mock of WalletRegistry
type MockRegistry struct {
	ExistsFunc func(ctx context.Context, identity string) (bool, error)
}

func (m *MockRegistry) Exists(ctx context.Context, identity string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, identity)
	}
	return true, nil
}
