package appdb

import (
	"context"
	"log"

	mghelper "github.com/optimahq/optima/pkg/pgutil/migrations"
	"github.com/optimahq/optima/pkg/rewardstore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating reward override tables...")
		return mghelper.CreateSchema(ctx, db,
			&rewardstore.FrozenRewardDao{},
			&rewardstore.PendingRewardDao{},
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping reward override tables...")
		return mghelper.DropTables(ctx, db,
			&rewardstore.FrozenRewardDao{},
			&rewardstore.PendingRewardDao{},
		)
	})
}
