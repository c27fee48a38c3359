package walletstore

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/slhlabs/wallet-middleware/pkg/wallet"
)

// ErrWalletNotFound is returned when a wallet lookup finds no matching record.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrInsufficientBalance is returned when a debit or lock would drive the
// available balance (internal_balance - internal_locked) negative.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrStakeNotFound is returned when a staking position lookup finds no matching record.
var ErrStakeNotFound = errors.New("staking position not found")

// ErrStakeClosed is returned when closing a staking position that is already inactive.
var ErrStakeClosed = errors.New("staking position already closed")

// ErrNotOwner is returned when a mutation references a staking position
// owned by a different identity.
var ErrNotOwner = errors.New("staking position owned by another identity")

// LedgerStore defines internal balance operations.
// Every mutation is atomic; paired movements append an InternalTransfer row
// in the same transaction.
type LedgerStore interface {
	Credit(ctx context.Context, identity string, amount decimal.Decimal) error
	Debit(ctx context.Context, identity string, amount decimal.Decimal) error
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal, memo string) (*wallet.InternalTransfer, error)
	Lock(ctx context.Context, identity string, amount decimal.Decimal) error
	Unlock(ctx context.Context, identity string, amount decimal.Decimal) error
	ListTransfers(ctx context.Context, identity string, limit int) ([]*wallet.InternalTransfer, error)
}

// StakeStore defines staking position persistence.
type StakeStore interface {
	CreateStake(ctx context.Context, identity string, amount, annualRate decimal.Decimal, unlockAt *time.Time) (*wallet.StakingPosition, error)
	CloseStake(ctx context.Context, identity string, stakeID int64) (*wallet.StakingPosition, error)
	ListStakes(ctx context.Context, identity string) ([]*wallet.StakingPosition, error)
}

// BalanceCacheStore defines operations on the cached on-chain display
// balances. Used by the background refresher only.
type BalanceCacheStore interface {
	ListWallets(ctx context.Context) ([]*wallet.Wallet, error)
	UpdateOnChainBalances(ctx context.Context, identity string, bnb, slh, ton decimal.Decimal) error
}

// Store defines the interface for wallet data persistence
type Store interface {
	LedgerStore
	StakeStore
	BalanceCacheStore
	Upsert(ctx context.Context, req *wallet.UpdateRequest) (*wallet.Wallet, error)
	Get(ctx context.Context, identity string) (*wallet.Wallet, error)
	Exists(ctx context.Context, identity string) (bool, error)
	CountWallets(ctx context.Context) (int, error)
	CountTransfers(ctx context.Context) (int, error)
	CountActiveStakes(ctx context.Context) (int, error)
}
