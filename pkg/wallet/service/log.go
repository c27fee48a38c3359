package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/pkg/wallet"
)

const serviceName = "WalletService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the wallet Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) log(method string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		ls.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", fields...)
}

func (ls *logService) RegisterOrUpdate(ctx context.Context, req *wallet.UpdateRequest) (w *wallet.Wallet, err error) {
	start := time.Now()
	defer func() {
		ls.log("RegisterOrUpdate", start, err, zap.String("identity_id", req.IdentityID))
	}()
	return ls.svc.RegisterOrUpdate(ctx, req)
}

func (ls *logService) Get(ctx context.Context, identity string) (*wallet.Wallet, error) {
	return ls.svc.Get(ctx, identity)
}

func (ls *logService) Exists(ctx context.Context, identity string) (bool, error) {
	return ls.svc.Exists(ctx, identity)
}

func (ls *logService) Credit(ctx context.Context, identity string, amount decimal.Decimal) (err error) {
	start := time.Now()
	defer func() {
		ls.log("Credit", start, err,
			zap.String("identity_id", identity),
			zap.String("amount", amount.String()))
	}()
	return ls.svc.Credit(ctx, identity, amount)
}

func (ls *logService) Debit(ctx context.Context, identity string, amount decimal.Decimal) (err error) {
	start := time.Now()
	defer func() {
		ls.log("Debit", start, err,
			zap.String("identity_id", identity),
			zap.String("amount", amount.String()))
	}()
	return ls.svc.Debit(ctx, identity, amount)
}

func (ls *logService) Transfer(ctx context.Context, from, to string, amount decimal.Decimal, memo string) (tr *wallet.InternalTransfer, err error) {
	start := time.Now()
	defer func() {
		fields := []zap.Field{
			zap.String("from", from),
			zap.String("to", to),
			zap.String("amount", amount.String()),
		}
		if err == nil {
			fields = append(fields, zap.String("reference", tr.Reference))
		}
		ls.log("Transfer", start, err, fields...)
	}()
	return ls.svc.Transfer(ctx, from, to, amount, memo)
}

func (ls *logService) Lock(ctx context.Context, identity string, amount decimal.Decimal) (err error) {
	start := time.Now()
	defer func() {
		ls.log("Lock", start, err,
			zap.String("identity_id", identity),
			zap.String("amount", amount.String()))
	}()
	return ls.svc.Lock(ctx, identity, amount)
}

func (ls *logService) Unlock(ctx context.Context, identity string, amount decimal.Decimal) (err error) {
	start := time.Now()
	defer func() {
		ls.log("Unlock", start, err,
			zap.String("identity_id", identity),
			zap.String("amount", amount.String()))
	}()
	return ls.svc.Unlock(ctx, identity, amount)
}

func (ls *logService) Stake(ctx context.Context, identity string, amount decimal.Decimal, unlockAt *time.Time) (pos *wallet.StakingPosition, err error) {
	start := time.Now()
	defer func() {
		fields := []zap.Field{
			zap.String("identity_id", identity),
			zap.String("amount", amount.String()),
		}
		if err == nil {
			fields = append(fields, zap.Int64("stake_id", pos.ID))
		}
		ls.log("Stake", start, err, fields...)
	}()
	return ls.svc.Stake(ctx, identity, amount, unlockAt)
}

func (ls *logService) CloseStake(ctx context.Context, identity string, stakeID int64) (pos *wallet.StakingPosition, err error) {
	start := time.Now()
	defer func() {
		ls.log("CloseStake", start, err,
			zap.String("identity_id", identity),
			zap.Int64("stake_id", stakeID))
	}()
	return ls.svc.CloseStake(ctx, identity, stakeID)
}

func (ls *logService) ListStakes(ctx context.Context, identity string) ([]*wallet.StakingPosition, error) {
	return ls.svc.ListStakes(ctx, identity)
}

func (ls *logService) Balances(ctx context.Context, identity string) (*BalancesResponse, error) {
	return ls.svc.Balances(ctx, identity)
}

func (ls *logService) ListTransfers(ctx context.Context, identity string, limit int) ([]*wallet.InternalTransfer, error) {
	return ls.svc.ListTransfers(ctx, identity, limit)
}
