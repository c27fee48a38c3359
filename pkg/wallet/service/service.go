package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/internal/metrics"
	apperrors "github.com/slhlabs/wallet-middleware/pkg/app/errors"
	"github.com/slhlabs/wallet-middleware/pkg/balances"
	"github.com/slhlabs/wallet-middleware/pkg/config"
	"github.com/slhlabs/wallet-middleware/pkg/wallet"
	"github.com/slhlabs/wallet-middleware/pkg/walletstore"
)

var ErrNonPositiveAmount = errors.New("amount must be positive")

// SnapshotResolver resolves the live on-chain view of a wallet.
type SnapshotResolver interface {
	Resolve(ctx context.Context, w *wallet.Wallet) *balances.Snapshot
}

// BalancesResponse is the combined ledger and on-chain balance view returned
// to callers. SLHTotal sums the internal ledger balance with the on-chain
// token balance; TonEquivalent expresses the TON-side token holding in
// BSC-side units through the configured cross-chain factor.
type BalancesResponse struct {
	*balances.Snapshot
	SLHTotal      decimal.Decimal `json:"slh_total"`
	TonEquivalent decimal.Decimal `json:"ton_equivalent"`
}

// Service defines the wallet ledger business logic.
type Service interface {
	RegisterOrUpdate(ctx context.Context, req *wallet.UpdateRequest) (*wallet.Wallet, error)
	Get(ctx context.Context, identity string) (*wallet.Wallet, error)
	Exists(ctx context.Context, identity string) (bool, error)
	Credit(ctx context.Context, identity string, amount decimal.Decimal) error
	Debit(ctx context.Context, identity string, amount decimal.Decimal) error
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal, memo string) (*wallet.InternalTransfer, error)
	Lock(ctx context.Context, identity string, amount decimal.Decimal) error
	Unlock(ctx context.Context, identity string, amount decimal.Decimal) error
	Stake(ctx context.Context, identity string, amount decimal.Decimal, unlockAt *time.Time) (*wallet.StakingPosition, error)
	CloseStake(ctx context.Context, identity string, stakeID int64) (*wallet.StakingPosition, error)
	ListStakes(ctx context.Context, identity string) ([]*wallet.StakingPosition, error)
	Balances(ctx context.Context, identity string) (*BalancesResponse, error)
	ListTransfers(ctx context.Context, identity string, limit int) ([]*wallet.InternalTransfer, error)
}

type walletService struct {
	store     walletstore.Store
	resolver  SnapshotResolver
	validate  *validator.Validate
	stakeRate decimal.Decimal
	tonFactor decimal.Decimal
	logger    *zap.Logger
}

// NewService creates a new wallet service
func NewService(
	store walletstore.Store,
	resolver SnapshotResolver,
	tokenCfg *config.TokenConfig,
	stakingCfg *config.StakingConfig,
	logger *zap.Logger,
) Service {
	return &walletService{
		store:     store,
		resolver:  resolver,
		validate:  validator.New(),
		stakeRate: decimal.NewFromFloat(stakingCfg.AnnualRatePercent),
		tonFactor: decimal.NewFromFloat(tokenCfg.TonFactor),
		logger:    logger,
	}
}

func (s *walletService) RegisterOrUpdate(ctx context.Context, req *wallet.UpdateRequest) (*wallet.Wallet, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid wallet payload")
	}

	w, err := s.store.Upsert(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert wallet: %w", err)
	}
	return w, nil
}

func (s *walletService) Get(ctx context.Context, identity string) (*wallet.Wallet, error) {
	w, err := s.store.Get(ctx, identity)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return w, nil
}

func (s *walletService) Exists(ctx context.Context, identity string) (bool, error) {
	return s.store.Exists(ctx, identity)
}

func (s *walletService) Credit(ctx context.Context, identity string, amount decimal.Decimal) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	return observeLedger("credit", mapStoreErr(s.store.Credit(ctx, identity, amount)))
}

func (s *walletService) Debit(ctx context.Context, identity string, amount decimal.Decimal) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	return observeLedger("debit", mapStoreErr(s.store.Debit(ctx, identity, amount)))
}

func (s *walletService) Transfer(ctx context.Context, from, to string, amount decimal.Decimal, memo string) (*wallet.InternalTransfer, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	if from == to {
		return nil, apperrors.BadRequestError(nil, "cannot transfer to self")
	}

	tr, err := s.store.Transfer(ctx, from, to, amount, memo)
	if err := observeLedger("transfer", mapStoreErr(err)); err != nil {
		return nil, err
	}
	metrics.TransferAmount.WithLabelValues("internal").Observe(amount.InexactFloat64())
	return tr, nil
}

func (s *walletService) Lock(ctx context.Context, identity string, amount decimal.Decimal) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	return observeLedger("lock", mapStoreErr(s.store.Lock(ctx, identity, amount)))
}

func (s *walletService) Unlock(ctx context.Context, identity string, amount decimal.Decimal) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	return observeLedger("unlock", mapStoreErr(s.store.Unlock(ctx, identity, amount)))
}

func (s *walletService) Stake(ctx context.Context, identity string, amount decimal.Decimal, unlockAt *time.Time) (*wallet.StakingPosition, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}

	pos, err := s.store.CreateStake(ctx, identity, amount, s.stakeRate, unlockAt)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return pos, nil
}

func (s *walletService) CloseStake(ctx context.Context, identity string, stakeID int64) (*wallet.StakingPosition, error) {
	pos, err := s.store.CloseStake(ctx, identity, stakeID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return pos, nil
}

func (s *walletService) ListStakes(ctx context.Context, identity string) ([]*wallet.StakingPosition, error) {
	return s.store.ListStakes(ctx, identity)
}

// Balances resolves the live on-chain view of the wallet and derives the
// cross-chain totals. Provider failures surface as unavailable fields, never
// as an error.
func (s *walletService) Balances(ctx context.Context, identity string) (*BalancesResponse, error) {
	w, err := s.store.Get(ctx, identity)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	snap := s.resolver.Resolve(ctx, w)

	resp := &BalancesResponse{
		Snapshot: snap,
		SLHTotal: snap.InternalBalance.Add(snap.Token.Value),
	}
	if !s.tonFactor.IsZero() {
		resp.TonEquivalent = snap.TonToken.Value.Div(s.tonFactor)
	}
	return resp, nil
}

func (s *walletService) ListTransfers(ctx context.Context, identity string, limit int) ([]*wallet.InternalTransfer, error) {
	transfers, err := s.store.ListTransfers(ctx, identity, limit)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return transfers, nil
}

// observeLedger records the outcome of a ledger mutation and passes the
// error through unchanged.
func observeLedger(op string, err error) error {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.LedgerOperationsTotal.WithLabelValues(op, status).Inc()
	return err
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.BadRequestError(ErrNonPositiveAmount, "amount must be positive")
	}
	return nil
}

// mapStoreErr translates store sentinels into service error categories.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, walletstore.ErrWalletNotFound):
		return apperrors.ResourceNotFoundError(err, "wallet not found")
	case errors.Is(err, walletstore.ErrStakeNotFound):
		return apperrors.ResourceNotFoundError(err, "staking position not found")
	case errors.Is(err, walletstore.ErrInsufficientBalance):
		return apperrors.InsufficientFundsError(err, "insufficient available balance")
	case errors.Is(err, walletstore.ErrStakeClosed):
		return apperrors.ConflictError(err, "staking position already closed")
	case errors.Is(err, walletstore.ErrNotOwner):
		return apperrors.ForbiddenError(err, "staking position owned by another identity")
	default:
		return err
	}
}
