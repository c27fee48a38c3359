// Package api implements app.Runner for the wallet middleware API server.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	adminservice "github.com/slhlabs/wallet-middleware/pkg/admin/service"
	apphttp "github.com/slhlabs/wallet-middleware/pkg/app/http"
	"github.com/slhlabs/wallet-middleware/pkg/auth"
	"github.com/slhlabs/wallet-middleware/pkg/balances"
	"github.com/slhlabs/wallet-middleware/pkg/balances/bsc"
	"github.com/slhlabs/wallet-middleware/pkg/balances/ton"
	"github.com/slhlabs/wallet-middleware/pkg/config"
	"github.com/slhlabs/wallet-middleware/pkg/pgutil"
	reconcilerpkg "github.com/slhlabs/wallet-middleware/pkg/reconciler"
	tradeservice "github.com/slhlabs/wallet-middleware/pkg/trade/service"
	"github.com/slhlabs/wallet-middleware/pkg/tradestore"
	walletservice "github.com/slhlabs/wallet-middleware/pkg/wallet/service"
	"github.com/slhlabs/wallet-middleware/pkg/walletstore"
)

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting wallet API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	walletStore := walletstore.NewStore(db)
	tradeStore := tradestore.NewStore(db)

	resolver, closeProviders, err := s.buildResolver(logger)
	if err != nil {
		return err
	}
	defer closeProviders()

	rec := reconcilerpkg.New(walletStore, resolver, logger)
	s.runInitialRefresh(ctx, rec, logger)

	stopRefresh := s.startPeriodicRefresh(rec, logger)
	// We will call stopRefresh explicitly after ServeAndWait returns for deterministic shutdown order.
	// Keep this defer as a safety net.
	defer stopRefresh()

	walletSvc := walletservice.NewLog(
		walletservice.NewService(walletStore, resolver, &cfg.Token, &cfg.Staking, logger),
		logger,
	)
	tradeSvc := tradeservice.NewLog(
		tradeservice.NewService(tradeStore, walletSvc, &cfg.Token, logger),
		logger,
	)
	adminSvc := adminservice.NewService(walletStore, tradeStore, logger)
	issuer := auth.NewTokenIssuer(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)

	router := s.setupRouter(walletSvc, tradeSvc, adminSvc, issuer, logger)

	stopMetrics := s.startMetricsServer(logger)
	defer stopMetrics()

	err = apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)

	// Stop background work before deferred DB/provider closes kick in.
	stopRefresh()
	stopMetrics()

	return err
}

// buildResolver wires the configured chain providers. Unconfigured providers
// stay nil; the resolver treats their fields as unavailable.
func (s *Server) buildResolver(logger *zap.Logger) (*balances.Resolver, func(), error) {
	var chainProvider balances.ChainProvider
	closeProviders := func() {}

	if s.cfg.Chain.RPCURL != "" {
		provider, err := bsc.NewProvider(&s.cfg.Chain, &s.cfg.Token, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create BSC provider: %w", err)
		}
		chainProvider = provider
		closeProviders = provider.Close
	}

	var tonProvider balances.TonProvider
	if s.cfg.Ton.APIURL != "" {
		tonProvider = ton.NewProvider(&s.cfg.Ton, logger)
	}

	resolver := balances.NewResolver(chainProvider, tonProvider, s.cfg.Chain.RequestTimeout, logger)
	return resolver, closeProviders, nil
}

func (s *Server) runInitialRefresh(
	ctx context.Context,
	rec *reconcilerpkg.Reconciler,
	logger *zap.Logger,
) {
	if s.cfg.Refresh.InitialTimeout <= 0 {
		return
	}

	logger.Info("Running initial balance refresh",
		zap.Duration("timeout", s.cfg.Refresh.InitialTimeout),
	)

	startupCtx, cancel := context.WithTimeout(ctx, s.cfg.Refresh.InitialTimeout)
	defer cancel()

	if err := rec.RefreshAll(startupCtx); err != nil {
		logger.Warn("Initial balance refresh failed (will retry periodically)", zap.Error(err))
		return
	}

	logger.Info("Initial balance refresh completed")
}

func (s *Server) startPeriodicRefresh(
	rec *reconcilerpkg.Reconciler,
	logger *zap.Logger,
) func() {
	if s.cfg.Refresh.Interval <= 0 {
		return func() {}
	}

	rec.StartPeriodicRefresh(s.cfg.Refresh.Interval)

	// Return stopper for deterministic shutdown ordering.
	return func() { rec.Stop() }
}

// startMetricsServer exposes /metrics on its own listener so the metrics
// port can stay firewalled off from the public API.
func (s *Server) startMetricsServer(logger *zap.Logger) func() {
	if !s.cfg.Monitoring.Enabled {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Monitoring.MetricsPort),
		Handler: mux,
	}

	go func() {
		logger.Info("Metrics enabled", zap.Int("port", s.cfg.Monitoring.MetricsPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	return func() { _ = srv.Close() }
}

func (s *Server) setupRouter(
	walletSvc walletservice.Service,
	tradeSvc tradeservice.Service,
	adminSvc adminservice.Service,
	issuer *auth.TokenIssuer,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		walletservice.RegisterRoutes(r, walletSvc, logger)
		tradeservice.RegisterRoutes(r, tradeSvc, logger)
		adminservice.RegisterRoutes(r, adminSvc, issuer, logger)
	})

	return r
}
