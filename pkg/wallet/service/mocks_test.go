package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/slhlabs/wallet-middleware/pkg/balances"
	"github.com/slhlabs/wallet-middleware/pkg/wallet"
)

// MockStore is a func-field mock of walletstore.Store
type MockStore struct {
	UpsertFunc                func(ctx context.Context, req *wallet.UpdateRequest) (*wallet.Wallet, error)
	GetFunc                   func(ctx context.Context, identity string) (*wallet.Wallet, error)
	ExistsFunc                func(ctx context.Context, identity string) (bool, error)
	CreditFunc                func(ctx context.Context, identity string, amount decimal.Decimal) error
	DebitFunc                 func(ctx context.Context, identity string, amount decimal.Decimal) error
	TransferFunc              func(ctx context.Context, from, to string, amount decimal.Decimal, memo string) (*wallet.InternalTransfer, error)
	LockFunc                  func(ctx context.Context, identity string, amount decimal.Decimal) error
	UnlockFunc                func(ctx context.Context, identity string, amount decimal.Decimal) error
	ListTransfersFunc         func(ctx context.Context, identity string, limit int) ([]*wallet.InternalTransfer, error)
	CreateStakeFunc           func(ctx context.Context, identity string, amount, annualRate decimal.Decimal, unlockAt *time.Time) (*wallet.StakingPosition, error)
	CloseStakeFunc            func(ctx context.Context, identity string, stakeID int64) (*wallet.StakingPosition, error)
	ListStakesFunc            func(ctx context.Context, identity string) ([]*wallet.StakingPosition, error)
	ListWalletsFunc           func(ctx context.Context) ([]*wallet.Wallet, error)
	UpdateOnChainBalancesFunc func(ctx context.Context, identity string, bnb, slh, ton decimal.Decimal) error
	CountWalletsFunc          func(ctx context.Context) (int, error)
	CountTransfersFunc        func(ctx context.Context) (int, error)
	CountActiveStakesFunc     func(ctx context.Context) (int, error)
}

func (m *MockStore) Upsert(ctx context.Context, req *wallet.UpdateRequest) (*wallet.Wallet, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockStore) Get(ctx context.Context, identity string) (*wallet.Wallet, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, identity)
	}
	return nil, nil
}

func (m *MockStore) Exists(ctx context.Context, identity string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, identity)
	}
	return false, nil
}

func (m *MockStore) Credit(ctx context.Context, identity string, amount decimal.Decimal) error {
	if m.CreditFunc != nil {
		return m.CreditFunc(ctx, identity, amount)
	}
	return nil
}

func (m *MockStore) Debit(ctx context.Context, identity string, amount decimal.Decimal) error {
	if m.DebitFunc != nil {
		return m.DebitFunc(ctx, identity, amount)
	}
	return nil
}

func (m *MockStore) Transfer(ctx context.Context, from, to string, amount decimal.Decimal, memo string) (*wallet.InternalTransfer, error) {
	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, from, to, amount, memo)
	}
	return nil, nil
}

func (m *MockStore) Lock(ctx context.Context, identity string, amount decimal.Decimal) error {
	if m.LockFunc != nil {
		return m.LockFunc(ctx, identity, amount)
	}
	return nil
}

func (m *MockStore) Unlock(ctx context.Context, identity string, amount decimal.Decimal) error {
	if m.UnlockFunc != nil {
		return m.UnlockFunc(ctx, identity, amount)
	}
	return nil
}

func (m *MockStore) ListTransfers(ctx context.Context, identity string, limit int) ([]*wallet.InternalTransfer, error) {
	if m.ListTransfersFunc != nil {
		return m.ListTransfersFunc(ctx, identity, limit)
	}
	return nil, nil
}

func (m *MockStore) CreateStake(ctx context.Context, identity string, amount, annualRate decimal.Decimal, unlockAt *time.Time) (*wallet.StakingPosition, error) {
	if m.CreateStakeFunc != nil {
		return m.CreateStakeFunc(ctx, identity, amount, annualRate, unlockAt)
	}
	return nil, nil
}

func (m *MockStore) CloseStake(ctx context.Context, identity string, stakeID int64) (*wallet.StakingPosition, error) {
	if m.CloseStakeFunc != nil {
		return m.CloseStakeFunc(ctx, identity, stakeID)
	}
	return nil, nil
}

func (m *MockStore) ListStakes(ctx context.Context, identity string) ([]*wallet.StakingPosition, error) {
	if m.ListStakesFunc != nil {
		return m.ListStakesFunc(ctx, identity)
	}
	return nil, nil
}

func (m *MockStore) ListWallets(ctx context.Context) ([]*wallet.Wallet, error) {
	if m.ListWalletsFunc != nil {
		return m.ListWalletsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) UpdateOnChainBalances(ctx context.Context, identity string, bnb, slh, ton decimal.Decimal) error {
	if m.UpdateOnChainBalancesFunc != nil {
		return m.UpdateOnChainBalancesFunc(ctx, identity, bnb, slh, ton)
	}
	return nil
}

func (m *MockStore) CountWallets(ctx context.Context) (int, error) {
	if m.CountWalletsFunc != nil {
		return m.CountWalletsFunc(ctx)
	}
	return 0, nil
}

func (m *MockStore) CountTransfers(ctx context.Context) (int, error) {
	if m.CountTransfersFunc != nil {
		return m.CountTransfersFunc(ctx)
	}
	return 0, nil
}

func (m *MockStore) CountActiveStakes(ctx context.Context) (int, error) {
	if m.CountActiveStakesFunc != nil {
		return m.CountActiveStakesFunc(ctx)
	}
	return 0, nil
}

// MockResolver is a func-field mock of the snapshot resolver
type MockResolver struct {
	ResolveFunc func(ctx context.Context, w *wallet.Wallet) *balances.Snapshot
}

func (m *MockResolver) Resolve(ctx context.Context, w *wallet.Wallet) *balances.Snapshot {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, w)
	}
	return &balances.Snapshot{}
}
