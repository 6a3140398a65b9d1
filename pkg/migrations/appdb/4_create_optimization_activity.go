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
		log.Println("creating optimization_activity table...")
		return mghelper.CreateSchema(ctx, db, &optimizationstore.ActivityDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping optimization_activity table...")
		return mghelper.DropTables(ctx, db, &optimizationstore.ActivityDao{})
	})
}
