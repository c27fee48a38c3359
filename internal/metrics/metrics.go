package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerOperationsTotal counts internal ledger mutations by operation and status
	LedgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_ledger_operations_total",
			Help: "Total number of internal ledger operations",
		},
		[]string{"operation", "status"},
	)

	// TransferAmount tracks the amount of tokens moved between wallets
	TransferAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_transfer_amount",
			Help:    "Amount of tokens moved per internal transfer",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10, 100, 1000, 10000},
		},
		[]string{"token"},
	)

	// OfferTransitionsTotal counts trade offer state transitions
	OfferTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_offer_transitions_total",
			Help: "Total number of trade offer state transitions",
		},
		[]string{"transition", "status"},
	)

	// BalanceLookupsTotal counts external balance provider calls
	BalanceLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_balance_lookups_total",
			Help: "Total number of external balance lookups",
		},
		[]string{"chain", "status"},
	)

	// BalanceLookupDuration tracks external balance lookup latency
	BalanceLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_balance_lookup_duration_seconds",
			Help:    "External balance lookup duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain"},
	)

	// RefreshSweepsTotal counts background balance refresh sweeps
	RefreshSweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_refresh_sweeps_total",
			Help: "Total number of background balance refresh sweeps",
		},
		[]string{"status"},
	)

	// ActiveOffers tracks the current number of active trade offers
	ActiveOffers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallet_active_offers",
			Help: "Current number of active trade offers",
		},
	)

	// ErrorsTotal counts errors by component
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
