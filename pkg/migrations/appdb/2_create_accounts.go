package appdb

import (
	"context"
	"log"

	"github.com/optimahq/optima/pkg/accountstore"
	mghelper "github.com/optimahq/optima/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating accounts table...")
		return mghelper.CreateSchema(ctx, db, &accountstore.AccountDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping accounts table...")
		return mghelper.DropTables(ctx, db, &accountstore.AccountDao{})
	})
}
