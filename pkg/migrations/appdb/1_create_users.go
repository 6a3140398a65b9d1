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
		log.Println("creating users table...")
		if err := mghelper.CreateSchema(ctx, db, &userstore.UserDao{}); err != nil {
			return err
		}
		if err := mghelper.CreateModelUniqueIndexes(ctx, db, &userstore.UserDao{}, "email", "invitation_code"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &userstore.UserDao{}, "phone_number", "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping users table...")
		return mghelper.DropTables(ctx, db, &userstore.UserDao{})
	})
}
