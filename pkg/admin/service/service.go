package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/pkg/trade"
	"github.com/slhlabs/wallet-middleware/pkg/tradestore"
	"github.com/slhlabs/wallet-middleware/pkg/walletstore"
)

const recentOfferCount = 20

// Summary is the operator overview of the whole system.
type Summary struct {
	TotalWallets   int            `json:"total_wallets"`
	TotalOffers    int            `json:"total_offers"`
	ActiveOffers   int            `json:"active_offers"`
	TotalTransfers int            `json:"total_transfers"`
	ActiveStakes   int            `json:"active_stakes"`
	RecentOffers   []*trade.Offer `json:"recent_offers"`
}

// Service defines the admin reporting operations.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type adminService struct {
	wallets walletstore.Store
	offers  tradestore.Store
	logger  *zap.Logger
}

// NewService creates a new admin service
func NewService(wallets walletstore.Store, offers tradestore.Store, logger *zap.Logger) Service {
	return &adminService{
		wallets: wallets,
		offers:  offers,
		logger:  logger,
	}
}

func (s *adminService) Summary(ctx context.Context) (*Summary, error) {
	wallets, err := s.wallets.CountWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count wallets: %w", err)
	}

	offers, err := s.offers.CountOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count offers: %w", err)
	}

	active, err := s.offers.CountByStatus(ctx, trade.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count active offers: %w", err)
	}

	transfers, err := s.wallets.CountTransfers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count transfers: %w", err)
	}

	stakes, err := s.wallets.CountActiveStakes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active stakes: %w", err)
	}

	recent, err := s.offers.Recent(ctx, recentOfferCount)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent offers: %w", err)
	}

	return &Summary{
		TotalWallets:   wallets,
		TotalOffers:    offers,
		ActiveOffers:   active,
		TotalTransfers: transfers,
		ActiveStakes:   stakes,
		RecentOffers:   recent,
	}, nil
}
