package appdb

import (
	"context"
	"log"

	"github.com/optimahq/optima/pkg/optimizationstore"
	mghelper "github.com/optimahq/optima/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating optimizations table...")
		if err := mghelper.CreateSchema(ctx, db, &optimizationstore.EntryDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &optimizationstore.EntryDao{}, "username", "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping optimizations table...")
		return mghelper.DropTables(ctx, db, &optimizationstore.EntryDao{})
	})
}
