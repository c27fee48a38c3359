package walletdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/slhlabs/wallet-middleware/pkg/pgutil/migrations"
	"github.com/slhlabs/wallet-middleware/pkg/walletstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating staking_positions table...")
		if err := mghelper.CreateSchema(ctx, db, &walletstore.StakeDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &walletstore.StakeDao{},
			"identity_id", "active")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping staking_positions table...")
		return mghelper.DropTables(ctx, db, &walletstore.StakeDao{})
	})
}
