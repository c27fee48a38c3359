// Package wallet defines the domain model for identity-linked community wallets.
package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents the domain model for a registered community wallet.
// IdentityID is the stable messaging-platform user id that anchors the
// wallet; it is immutable once created.
type Wallet struct {
	IdentityID string `json:"identity_id"`

	Username  string `json:"username,omitzero"`
	FirstName string `json:"first_name,omitzero"`
	LastName  string `json:"last_name,omitzero"`

	// External chain addresses
	BNBAddress    string `json:"bnb_address,omitzero"`
	SLHAddress    string `json:"slh_address,omitzero"`
	SLHTonAddress string `json:"slh_ton_address,omitzero"`

	// Optional bank details for fiat settlement, stored opaque
	BankAccountName   string `json:"bank_account_name,omitzero"`
	BankAccountNumber string `json:"bank_account_number,omitzero"`

	// Internal ledger
	InternalBalance decimal.Decimal `json:"internal_balance"`
	InternalLocked  decimal.Decimal `json:"internal_locked"`

	// Cached on-chain display balances, refreshed in the background.
	// Zero values with a nil BalanceRefreshedAt mean "never refreshed".
	BNBOnChain         decimal.Decimal `json:"bnb_on_chain"`
	SLHOnChain         decimal.Decimal `json:"slh_on_chain"`
	TonOnChain         decimal.Decimal `json:"ton_on_chain"`
	BalanceRefreshedAt *time.Time      `json:"balance_refreshed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available returns the spendable part of the internal balance.
func (w *Wallet) Available() decimal.Decimal {
	return w.InternalBalance.Sub(w.InternalLocked)
}

// UpdateRequest carries a sparse-merge wallet upsert. Only non-nil fields
// overwrite stored values; nil fields are left untouched, which makes
// repeated calls with the same payload fully idempotent.
type UpdateRequest struct {
	IdentityID string `json:"identity_id" validate:"required,max=64"`

	Username  *string `json:"username,omitempty" validate:"omitempty,max=64"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=128"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=128"`

	BNBAddress    *string `json:"bnb_address,omitempty" validate:"omitempty,max=255"`
	SLHAddress    *string `json:"slh_address,omitempty" validate:"omitempty,max=255"`
	SLHTonAddress *string `json:"slh_ton_address,omitempty" validate:"omitempty,max=255"`

	BankAccountName   *string `json:"bank_account_name,omitempty" validate:"omitempty,max=255"`
	BankAccountNumber *string `json:"bank_account_number,omitempty" validate:"omitempty,max=64"`
}

// InternalTransfer records a completed internal ledger movement between two
// wallets. Rows are append-only and never mutated.
type InternalTransfer struct {
	ID           int64           `json:"id"`
	Reference    string          `json:"reference"`
	FromIdentity string          `json:"from_identity"`
	ToIdentity   string          `json:"to_identity"`
	Amount       decimal.Decimal `json:"amount"`
	Memo         string          `json:"memo,omitzero"`
	CreatedAt    time.Time       `json:"created_at"`
}

// StakingPosition is an amount locked from a wallet's internal balance.
// Closing a position releases the amount and flips Active exactly once.
type StakingPosition struct {
	ID                int64           `json:"id"`
	IdentityID        string          `json:"identity_id"`
	Amount            decimal.Decimal `json:"amount"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	StartedAt         time.Time       `json:"started_at"`
	UnlockAt          *time.Time      `json:"unlock_at,omitempty"`
	Active            bool            `json:"active"`
}
