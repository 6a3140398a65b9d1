package appdb

import (
	"context"
	"log"

	"github.com/optimahq/optima/pkg/fundingstore"
	mghelper "github.com/optimahq/optima/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating funding tables...")
		if err := mghelper.CreateSchema(ctx, db,
			&fundingstore.DepositDao{},
			&fundingstore.DepositRecordDao{},
			&fundingstore.WithdrawalDao{},
			&fundingstore.WalletDao{},
		); err != nil {
			return err
		}
		if err := mghelper.CreateModelIndexes(ctx, db, &fundingstore.DepositRecordDao{}, "username"); err != nil {
			return err
		}
		if err := mghelper.CreateModelIndexes(ctx, db, &fundingstore.WithdrawalDao{}, "username", "status"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &fundingstore.WalletDao{}, "username")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping funding tables...")
		return mghelper.DropTables(ctx, db,
			&fundingstore.DepositDao{},
			&fundingstore.DepositRecordDao{},
			&fundingstore.WithdrawalDao{},
			&fundingstore.WalletDao{},
		)
	})
}
