package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/pkg/trade"
)

const serviceName = "TradeService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the trade Service.
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

func (ls *logService) Create(ctx context.Context, seller, asset string, amount, price decimal.Decimal) (offer *trade.Offer, err error) {
	start := time.Now()
	defer func() {
		fields := []zap.Field{
			zap.String("seller", seller),
			zap.String("asset", asset),
			zap.String("amount", amount.String()),
			zap.String("price", price.String()),
		}
		if err == nil {
			fields = append(fields, zap.Int64("offer_id", offer.ID))
		}
		ls.log("Create", start, err, fields...)
	}()
	return ls.svc.Create(ctx, seller, asset, amount, price)
}

func (ls *logService) Get(ctx context.Context, id int64) (*trade.Offer, error) {
	return ls.svc.Get(ctx, id)
}

func (ls *logService) Reserve(ctx context.Context, id int64, buyer string) (offer *trade.Offer, err error) {
	start := time.Now()
	defer func() {
		ls.log("Reserve", start, err,
			zap.Int64("offer_id", id),
			zap.String("buyer", buyer))
	}()
	return ls.svc.Reserve(ctx, id, buyer)
}

func (ls *logService) Complete(ctx context.Context, id int64, caller string) (offer *trade.Offer, err error) {
	start := time.Now()
	defer func() {
		ls.log("Complete", start, err,
			zap.Int64("offer_id", id),
			zap.String("caller", caller))
	}()
	return ls.svc.Complete(ctx, id, caller)
}

func (ls *logService) Cancel(ctx context.Context, id int64, caller string) (offer *trade.Offer, err error) {
	start := time.Now()
	defer func() {
		ls.log("Cancel", start, err,
			zap.Int64("offer_id", id),
			zap.String("caller", caller))
	}()
	return ls.svc.Cancel(ctx, id, caller)
}

func (ls *logService) List(ctx context.Context, status trade.Status, limit int) ([]*trade.Offer, error) {
	return ls.svc.List(ctx, status, limit)
}

func (ls *logService) MarketSummary(ctx context.Context) (*trade.MarketSummary, error) {
	return ls.svc.MarketSummary(ctx)
}
