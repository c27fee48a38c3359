package walletstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/slhlabs/wallet-middleware/pkg/wallet"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the wallet store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

// applyField copies a sparse-merge field onto the DAO. Empty strings are
// normalized to unset rather than stored literally.
func applyField(dst **string, src *string) {
	if src == nil {
		return
	}
	if *src == "" {
		*dst = nil
		return
	}
	v := *src
	*dst = &v
}

func (s *pgStore) Upsert(ctx context.Context, req *wallet.UpdateRequest) (*wallet.Wallet, error) {
	var result *wallet.Wallet

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		dao := new(WalletDao)
		err := tx.NewSelect().
			Model(dao).
			Where("identity_id = ?", req.IdentityID).
			For("UPDATE").
			Scan(ctx)

		created := false
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to load wallet for upsert: %w", err)
			}
			dao = &WalletDao{IdentityID: req.IdentityID}
			created = true
		}

		applyField(&dao.Username, req.Username)
		applyField(&dao.FirstName, req.FirstName)
		applyField(&dao.LastName, req.LastName)
		applyField(&dao.BNBAddress, req.BNBAddress)
		applyField(&dao.SLHAddress, req.SLHAddress)
		applyField(&dao.SLHTonAddress, req.SLHTonAddress)
		applyField(&dao.BankAccountName, req.BankAccountName)
		applyField(&dao.BankAccountNumber, req.BankAccountNumber)

		if created {
			if _, err := tx.NewInsert().Model(dao).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create wallet: %w", err)
			}
		} else {
			dao.UpdatedAt = time.Now()
			if _, err := tx.NewUpdate().Model(dao).WherePK().Exec(ctx); err != nil {
				return fmt.Errorf("failed to update wallet: %w", err)
			}
		}

		// Re-read so DB-side defaults (timestamps) are reflected in the result.
		fresh := new(WalletDao)
		if err := tx.NewSelect().Model(fresh).Where("identity_id = ?", req.IdentityID).Scan(ctx); err != nil {
			return fmt.Errorf("failed to reload wallet: %w", err)
		}
		result = toWallet(fresh)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *pgStore) Get(ctx context.Context, identity string) (*wallet.Wallet, error) {
	dao := new(WalletDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("identity_id = ?", identity).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return toWallet(dao), nil
}

func (s *pgStore) Exists(ctx context.Context, identity string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*WalletDao)(nil)).
		Where("identity_id = ?", identity).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check wallet exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) Credit(ctx context.Context, identity string, amount decimal.Decimal) error {
	return creditTx(ctx, s.db, identity, amount)
}

func (s *pgStore) Debit(ctx context.Context, identity string, amount decimal.Decimal) error {
	return debitTx(ctx, s.db, identity, amount)
}

func creditTx(ctx context.Context, db bun.IDB, identity string, amount decimal.Decimal) error {
	res, err := db.NewUpdate().
		Model((*WalletDao)(nil)).
		Set("internal_balance = internal_balance + ?", amount).
		Set("updated_at = NOW()").
		Where("identity_id = ?", identity).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// debitTx decrements the internal balance. The availability guard lives in
// the WHERE clause so check and write are one atomic statement.
func debitTx(ctx context.Context, db bun.IDB, identity string, amount decimal.Decimal) error {
	res, err := db.NewUpdate().
		Model((*WalletDao)(nil)).
		Set("internal_balance = internal_balance - ?", amount).
		Set("updated_at = NOW()").
		Where("identity_id = ?", identity).
		Where("internal_balance - internal_locked >= ?", amount).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return classifyNoRows(ctx, db, identity)
	}
	return nil
}

func lockTx(ctx context.Context, db bun.IDB, identity string, amount decimal.Decimal) error {
	res, err := db.NewUpdate().
		Model((*WalletDao)(nil)).
		Set("internal_locked = internal_locked + ?", amount).
		Set("updated_at = NOW()").
		Where("identity_id = ?", identity).
		Where("internal_balance - internal_locked >= ?", amount).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to lock balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return classifyNoRows(ctx, db, identity)
	}
	return nil
}

func unlockTx(ctx context.Context, db bun.IDB, identity string, amount decimal.Decimal) error {
	res, err := db.NewUpdate().
		Model((*WalletDao)(nil)).
		Set("internal_locked = internal_locked - ?", amount).
		Set("updated_at = NOW()").
		Where("identity_id = ?", identity).
		Where("internal_locked >= ?", amount).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to unlock balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return classifyNoRows(ctx, db, identity)
	}
	return nil
}

// classifyNoRows distinguishes a missing wallet from a failed balance guard
// after a zero-row conditional update.
func classifyNoRows(ctx context.Context, db bun.IDB, identity string) error {
	exists, err := db.NewSelect().
		Model((*WalletDao)(nil)).
		Where("identity_id = ?", identity).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check wallet exists: %w", err)
	}
	if !exists {
		return ErrWalletNotFound
	}
	return ErrInsufficientBalance
}

func (s *pgStore) Transfer(
	ctx context.Context,
	from, to string,
	amount decimal.Decimal,
	memo string,
) (*wallet.InternalTransfer, error) {
	dao := &TransferDao{
		Reference:    uuid.NewString(),
		FromIdentity: from,
		ToIdentity:   to,
		Amount:       amount,
	}
	if memo != "" {
		dao.Memo = &memo
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := debitTx(ctx, tx, from, amount); err != nil {
			return fmt.Errorf("sender: %w", err)
		}
		if err := creditTx(ctx, tx, to, amount); err != nil {
			return fmt.Errorf("recipient: %w", err)
		}
		if _, err := tx.NewInsert().Model(dao).Exec(ctx); err != nil {
			return fmt.Errorf("failed to record transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toTransfer(dao), nil
}

func (s *pgStore) Lock(ctx context.Context, identity string, amount decimal.Decimal) error {
	return lockTx(ctx, s.db, identity, amount)
}

func (s *pgStore) Unlock(ctx context.Context, identity string, amount decimal.Decimal) error {
	return unlockTx(ctx, s.db, identity, amount)
}

func (s *pgStore) ListTransfers(ctx context.Context, identity string, limit int) ([]*wallet.InternalTransfer, error) {
	var daos []TransferDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("from_identity = ? OR to_identity = ?", identity, identity).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	transfers := make([]*wallet.InternalTransfer, len(daos))
	for i := range daos {
		transfers[i] = toTransfer(&daos[i])
	}
	return transfers, nil
}

func (s *pgStore) CreateStake(
	ctx context.Context,
	identity string,
	amount, annualRate decimal.Decimal,
	unlockAt *time.Time,
) (*wallet.StakingPosition, error) {
	dao := &StakeDao{
		IdentityID:        identity,
		Amount:            amount,
		AnnualRatePercent: annualRate,
		UnlockAt:          unlockAt,
		Active:            true,
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockTx(ctx, tx, identity, amount); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(dao).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create staking position: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toStake(dao), nil
}

func (s *pgStore) CloseStake(ctx context.Context, identity string, stakeID int64) (*wallet.StakingPosition, error) {
	var result *wallet.StakingPosition

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		dao := new(StakeDao)
		err := tx.NewSelect().
			Model(dao).
			Where("id = ?", stakeID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrStakeNotFound
			}
			return fmt.Errorf("failed to load staking position: %w", err)
		}

		if dao.IdentityID != identity {
			return ErrNotOwner
		}
		if !dao.Active {
			return ErrStakeClosed
		}

		dao.Active = false
		if _, err := tx.NewUpdate().
			Model(dao).
			Column("active").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to close staking position: %w", err)
		}

		if err := unlockTx(ctx, tx, identity, dao.Amount); err != nil {
			return err
		}

		result = toStake(dao)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *pgStore) ListStakes(ctx context.Context, identity string) ([]*wallet.StakingPosition, error) {
	var daos []StakeDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("identity_id = ?", identity).
		Order("started_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staking positions: %w", err)
	}
	stakes := make([]*wallet.StakingPosition, len(daos))
	for i := range daos {
		stakes[i] = toStake(&daos[i])
	}
	return stakes, nil
}

func (s *pgStore) ListWallets(ctx context.Context) ([]*wallet.Wallet, error) {
	var daos []WalletDao
	err := s.db.NewSelect().Model(&daos).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	wallets := make([]*wallet.Wallet, len(daos))
	for i := range daos {
		wallets[i] = toWallet(&daos[i])
	}
	return wallets, nil
}

func (s *pgStore) UpdateOnChainBalances(ctx context.Context, identity string, bnb, slh, ton decimal.Decimal) error {
	res, err := s.db.NewUpdate().
		Model((*WalletDao)(nil)).
		Set("bnb_onchain = ?", bnb).
		Set("slh_onchain = ?", slh).
		Set("ton_onchain = ?", ton).
		Set("balance_refreshed_at = NOW()").
		Where("identity_id = ?", identity).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update on-chain balances: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (s *pgStore) CountWallets(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*WalletDao)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count wallets: %w", err)
	}
	return count, nil
}

func (s *pgStore) CountTransfers(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*TransferDao)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count transfers: %w", err)
	}
	return count, nil
}

func (s *pgStore) CountActiveStakes(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().
		Model((*StakeDao)(nil)).
		Where("active = TRUE").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count active staking positions: %w", err)
	}
	return count, nil
}
