package balances

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/internal/metrics"
	"github.com/slhlabs/wallet-middleware/pkg/wallet"
)

// Amount is a chain balance in both the chain's integer base units and the
// converted whole-token value.
type Amount struct {
	Raw   string          `json:"raw"`
	Value decimal.Decimal `json:"value"`
}

// ChainProvider reads balances from a BNB Smart Chain node.
type ChainProvider interface {
	NativeBalance(ctx context.Context, address string) (Amount, error)
	TokenBalance(ctx context.Context, address string) (Amount, error)
}

// TonProvider reads token balances from a TON indexer.
type TonProvider interface {
	TokenBalance(ctx context.Context, address string) (Amount, error)
}

// Field is a single resolved balance. Available is false when the upstream
// provider failed or the wallet has no address for the chain; Amount is zero
// in that case.
type Field struct {
	Amount
	Available bool `json:"available"`
}

// Snapshot is the combined on-chain and internal view of a wallet.
type Snapshot struct {
	IdentityID      string          `json:"identity_id"`
	BNB             Field           `json:"bnb"`
	Token           Field           `json:"token"`
	TonToken        Field           `json:"ton_token"`
	InternalBalance decimal.Decimal `json:"internal_balance"`
	InternalLocked  decimal.Decimal `json:"internal_locked"`
	AvailableAmount decimal.Decimal `json:"available_amount"`
	RefreshedAt     time.Time       `json:"refreshed_at"`
}

// Resolver fans out to the chain providers and assembles a snapshot.
// Provider failures never fail a resolve; the affected field is simply
// marked unavailable.
type Resolver struct {
	chain   ChainProvider
	ton     TonProvider
	timeout time.Duration
	logger  *zap.Logger
}

func NewResolver(chain ChainProvider, ton TonProvider, timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		chain:   chain,
		ton:     ton,
		timeout: timeout,
		logger:  logger,
	}
}

// Resolve queries all providers concurrently and returns a snapshot for the
// given wallet. Each provider call gets its own timeout.
func (r *Resolver) Resolve(ctx context.Context, w *wallet.Wallet) *Snapshot {
	unresolved := Field{Amount: Amount{Raw: "0", Value: decimal.Zero}}
	snap := &Snapshot{
		IdentityID:      w.IdentityID,
		InternalBalance: w.InternalBalance,
		InternalLocked:  w.InternalLocked,
		AvailableAmount: w.Available(),
		RefreshedAt:     time.Now().UTC(),
		BNB:             unresolved,
		Token:           unresolved,
		TonToken:        unresolved,
	}

	var wg sync.WaitGroup

	if r.chain != nil && w.BNBAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap.BNB = r.lookup(ctx, "bnb", w.BNBAddress, r.chain.NativeBalance)
		}()
	}

	if r.chain != nil && w.SLHAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap.Token = r.lookup(ctx, "token", w.SLHAddress, r.chain.TokenBalance)
		}()
	}

	if r.ton != nil && w.SLHTonAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap.TonToken = r.lookup(ctx, "ton_token", w.SLHTonAddress, r.ton.TokenBalance)
		}()
	}

	wg.Wait()
	return snap
}

func (r *Resolver) lookup(
	ctx context.Context,
	chain, address string,
	fn func(context.Context, string) (Amount, error),
) Field {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	amount, err := fn(callCtx, address)
	metrics.BalanceLookupDuration.WithLabelValues(chain).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BalanceLookupsTotal.WithLabelValues(chain, "error").Inc()
		r.logger.Warn("Balance lookup failed",
			zap.String("chain", chain),
			zap.String("address", address),
			zap.Error(err))
		return Field{Amount: Amount{Raw: "0", Value: decimal.Zero}}
	}
	metrics.BalanceLookupsTotal.WithLabelValues(chain, "ok").Inc()
	return Field{Amount: amount, Available: true}
}
