package appdb

import (
	"context"
	"log"

	mghelper "github.com/optimahq/optima/pkg/pgutil/migrations"
	"github.com/optimahq/optima/pkg/userstore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating referral_codes table...")
		if err := mghelper.CreateSchema(ctx, db, &userstore.ReferralCodeDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelUniqueIndexes(ctx, db, &userstore.ReferralCodeDao{}, "code")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping referral_codes table...")
		return mghelper.DropTables(ctx, db, &userstore.ReferralCodeDao{})
	})
}
