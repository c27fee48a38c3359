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
		log.Println("creating internal_transfers table...")
		if err := mghelper.CreateSchema(ctx, db, &walletstore.TransferDao{}); err != nil {
			return err
		}
		if err := mghelper.CreateModelUniqueIndexes(ctx, db, &walletstore.TransferDao{}, "reference"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &walletstore.TransferDao{},
			"from_identity", "to_identity")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping internal_transfers table...")
		return mghelper.DropTables(ctx, db, &walletstore.TransferDao{})
	})
}
