package walletstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/slhlabs/wallet-middleware/pkg/wallet"
)

// WalletDao is a data access object that maps directly to the 'wallets' table in PostgreSQL.
type WalletDao struct {
	bun.BaseModel `bun:"table:wallets,alias:w"`

	IdentityID string  `bun:"identity_id,pk,type:varchar(64)"`
	Username   *string `bun:"username,type:varchar(64)"`
	FirstName  *string `bun:"first_name,type:varchar(128)"`
	LastName   *string `bun:"last_name,type:varchar(128)"`

	BNBAddress    *string `bun:"bnb_address,type:varchar(255)"`
	SLHAddress    *string `bun:"slh_address,type:varchar(255)"`
	SLHTonAddress *string `bun:"slh_ton_address,type:varchar(255)"`

	BankAccountName   *string `bun:"bank_account_name,type:varchar(255)"`
	BankAccountNumber *string `bun:"bank_account_number,type:varchar(64)"`

	InternalBalance decimal.Decimal `bun:"internal_balance,notnull,type:numeric(38,18),default:0"`
	InternalLocked  decimal.Decimal `bun:"internal_locked,notnull,type:numeric(38,18),default:0"`

	BNBOnChain         decimal.Decimal `bun:"bnb_onchain,notnull,type:numeric(38,18),default:0"`
	SLHOnChain         decimal.Decimal `bun:"slh_onchain,notnull,type:numeric(38,18),default:0"`
	TonOnChain         decimal.Decimal `bun:"ton_onchain,notnull,type:numeric(38,18),default:0"`
	BalanceRefreshedAt *time.Time      `bun:"balance_refreshed_at"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// TransferDao is a data access object that maps directly to the 'internal_transfers' table.
type TransferDao struct {
	bun.BaseModel `bun:"table:internal_transfers,alias:it"`

	ID           int64           `bun:"id,pk,autoincrement"`
	Reference    string          `bun:"reference,notnull,type:varchar(36)"`
	FromIdentity string          `bun:"from_identity,notnull,type:varchar(64)"`
	ToIdentity   string          `bun:"to_identity,notnull,type:varchar(64)"`
	Amount       decimal.Decimal `bun:"amount,notnull,type:numeric(38,18)"`
	Memo         *string         `bun:"memo,type:varchar(255)"`
	CreatedAt    time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// StakeDao is a data access object that maps directly to the 'staking_positions' table.
type StakeDao struct {
	bun.BaseModel `bun:"table:staking_positions,alias:sp"`

	ID                int64           `bun:"id,pk,autoincrement"`
	IdentityID        string          `bun:"identity_id,notnull,type:varchar(64)"`
	Amount            decimal.Decimal `bun:"amount,notnull,type:numeric(38,18)"`
	AnnualRatePercent decimal.Decimal `bun:"annual_rate_percent,notnull,type:numeric(10,4)"`
	StartedAt         time.Time       `bun:"started_at,nullzero,notnull,default:current_timestamp"`
	UnlockAt          *time.Time      `bun:"unlock_at"`
	Active            bool            `bun:"active,notnull,default:true"`
}

// toWallet converts a WalletDao to wallet.Wallet.
func toWallet(dao *WalletDao) *wallet.Wallet {
	w := &wallet.Wallet{
		IdentityID:         dao.IdentityID,
		InternalBalance:    dao.InternalBalance,
		InternalLocked:     dao.InternalLocked,
		BNBOnChain:         dao.BNBOnChain,
		SLHOnChain:         dao.SLHOnChain,
		TonOnChain:         dao.TonOnChain,
		BalanceRefreshedAt: dao.BalanceRefreshedAt,
		CreatedAt:          dao.CreatedAt,
		UpdatedAt:          dao.UpdatedAt,
	}

	if dao.Username != nil {
		w.Username = *dao.Username
	}
	if dao.FirstName != nil {
		w.FirstName = *dao.FirstName
	}
	if dao.LastName != nil {
		w.LastName = *dao.LastName
	}
	if dao.BNBAddress != nil {
		w.BNBAddress = *dao.BNBAddress
	}
	if dao.SLHAddress != nil {
		w.SLHAddress = *dao.SLHAddress
	}
	if dao.SLHTonAddress != nil {
		w.SLHTonAddress = *dao.SLHTonAddress
	}
	if dao.BankAccountName != nil {
		w.BankAccountName = *dao.BankAccountName
	}
	if dao.BankAccountNumber != nil {
		w.BankAccountNumber = *dao.BankAccountNumber
	}

	return w
}

// toTransfer converts a TransferDao to wallet.InternalTransfer.
func toTransfer(dao *TransferDao) *wallet.InternalTransfer {
	t := &wallet.InternalTransfer{
		ID:           dao.ID,
		Reference:    dao.Reference,
		FromIdentity: dao.FromIdentity,
		ToIdentity:   dao.ToIdentity,
		Amount:       dao.Amount,
		CreatedAt:    dao.CreatedAt,
	}
	if dao.Memo != nil {
		t.Memo = *dao.Memo
	}
	return t
}

// toStake converts a StakeDao to wallet.StakingPosition.
func toStake(dao *StakeDao) *wallet.StakingPosition {
	return &wallet.StakingPosition{
		ID:                dao.ID,
		IdentityID:        dao.IdentityID,
		Amount:            dao.Amount,
		AnnualRatePercent: dao.AnnualRatePercent,
		StartedAt:         dao.StartedAt,
		UnlockAt:          dao.UnlockAt,
		Active:            dao.Active,
	}
}
