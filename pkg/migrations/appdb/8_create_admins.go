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
		log.Println("creating admins table...")
		return mghelper.CreateSchema(ctx, db, &userstore.AdminDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping admins table...")
		return mghelper.DropTables(ctx, db, &userstore.AdminDao{})
	})
}
