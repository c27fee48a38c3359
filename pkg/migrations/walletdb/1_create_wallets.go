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
		log.Println("creating wallets table...")
		if err := mghelper.CreateSchema(ctx, db, &walletstore.WalletDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &walletstore.WalletDao{}, "username")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping wallets table...")
		return mghelper.DropTables(ctx, db, &walletstore.WalletDao{})
	})
}
