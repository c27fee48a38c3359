package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/internal/metrics"
	"github.com/slhlabs/wallet-middleware/pkg/balances"
	"github.com/slhlabs/wallet-middleware/pkg/wallet"
)

// WalletStore provides the wallet listing and cache update operations the
// refresher needs.
type WalletStore interface {
	ListWallets(ctx context.Context) ([]*wallet.Wallet, error)
	UpdateOnChainBalances(ctx context.Context, identity string, bnb, slh, ton decimal.Decimal) error
}

// SnapshotResolver resolves the live on-chain view of a wallet.
type SnapshotResolver interface {
	Resolve(ctx context.Context, w *wallet.Wallet) *balances.Snapshot
}

// Reconciler keeps the cached on-chain balance columns in sync with the
// chains by periodically resolving every registered wallet.
type Reconciler struct {
	store    WalletStore
	resolver SnapshotResolver
	logger   *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new Reconciler
func New(store WalletStore, resolver SnapshotResolver, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		resolver: resolver,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// RefreshAll resolves on-chain balances for every wallet and writes the
// results to the cache columns. A failed update for one wallet does not
// stop the sweep; fields whose provider was unavailable are cached as zero.
func (r *Reconciler) RefreshAll(ctx context.Context) error {
	r.logger.Info("Starting balance refresh sweep")
	start := time.Now()

	wallets, err := r.store.ListWallets(ctx)
	if err != nil {
		metrics.RefreshSweepsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to list wallets: %w", err)
	}

	var refreshed int
	for _, w := range wallets {
		snap := r.resolver.Resolve(ctx, w)

		err := r.store.UpdateOnChainBalances(ctx, w.IdentityID,
			snap.BNB.Value, snap.Token.Value, snap.TonToken.Value)
		if err != nil {
			metrics.ErrorsTotal.WithLabelValues("reconciler", "cache_update").Inc()
			r.logger.Warn("Failed to update cached balances",
				zap.String("identity_id", w.IdentityID),
				zap.Error(err))
			continue
		}
		refreshed++
	}

	metrics.RefreshSweepsTotal.WithLabelValues("ok").Inc()
	r.logger.Info("Balance refresh sweep completed",
		zap.Int("wallets", len(wallets)),
		zap.Int("refreshed", refreshed),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// StartPeriodicRefresh starts a background goroutine that refreshes cached
// balances on the given interval.
func (r *Reconciler) StartPeriodicRefresh(interval time.Duration) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		r.logger.Info("Started periodic balance refresh", zap.Duration("interval", interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				if err := r.RefreshAll(ctx); err != nil {
					r.logger.Error("Periodic balance refresh failed", zap.Error(err))
				}
				cancel()
			case <-r.stopCh:
				r.logger.Info("Stopping periodic balance refresh")
				return
			}
		}
	}()
}

// Stop stops the periodic refresh. Safe to call more than once.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}
