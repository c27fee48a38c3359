package walletdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/slhlabs/wallet-middleware/pkg/pgutil/migrations"
	"github.com/slhlabs/wallet-middleware/pkg/tradestore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating trade_offers table...")
		if err := mghelper.CreateSchema(ctx, db, &tradestore.OfferDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &tradestore.OfferDao{},
			"status", "seller_identity", "asset_symbol")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping trade_offers table...")
		return mghelper.DropTables(ctx, db, &tradestore.OfferDao{})
	})
}
