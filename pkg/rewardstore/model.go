package rewardstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/reward"
)

// FrozenRewardDao is a data access object that maps directly to the 'frozen_rewards' table in PostgreSQL.
type FrozenRewardDao struct {
	bun.BaseModel `bun:"table:frozen_rewards,alias:fr"`
	Username      string    `bun:"username,pk,type:varchar(64)"`
	USDCAmount    string    `bun:"usdc_amount,notnull,type:numeric(20,2)"`
	ProfitAmount  string    `bun:"profit_amount,notnull,type:numeric(20,2)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// PendingRewardDao is a data access object that maps directly to the 'pending_rewards' table in PostgreSQL.
type PendingRewardDao struct {
	bun.BaseModel `bun:"table:pending_rewards,alias:pr"`
	Username      string    `bun:"username,pk,type:varchar(64)"`
	USDCAmount    string    `bun:"usdc_amount,notnull,type:numeric(20,2)"`
	ProfitAmount  string    `bun:"profit_amount,notnull,type:numeric(20,2)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

func toFrozenRewardDao(rw *reward.FrozenReward) *FrozenRewardDao {
	return &FrozenRewardDao{
		Username:     rw.Username,
		USDCAmount:   rw.USDCAmount.String(),
		ProfitAmount: rw.ProfitAmount.String(),
		CreatedAt:    rw.CreatedAt,
	}
}

func toFrozenReward(dao *FrozenRewardDao) (*reward.FrozenReward, error) {
	usdcAmount, err := decimal.NewFromString(dao.USDCAmount)
	if err != nil {
		return nil, err
	}
	profitAmount, err := decimal.NewFromString(dao.ProfitAmount)
	if err != nil {
		return nil, err
	}

	return &reward.FrozenReward{
		Username:     dao.Username,
		USDCAmount:   usdcAmount,
		ProfitAmount: profitAmount,
		CreatedAt:    dao.CreatedAt,
	}, nil
}

func toPendingRewardDao(rw *reward.PendingReward) *PendingRewardDao {
	return &PendingRewardDao{
		Username:     rw.Username,
		USDCAmount:   rw.USDCAmount.String(),
		ProfitAmount: rw.ProfitAmount.String(),
		CreatedAt:    rw.CreatedAt,
	}
}

func toPendingReward(dao *PendingRewardDao) (*reward.PendingReward, error) {
	usdcAmount, err := decimal.NewFromString(dao.USDCAmount)
	if err != nil {
		return nil, err
	}
	profitAmount, err := decimal.NewFromString(dao.ProfitAmount)
	if err != nil {
		return nil, err
	}

	return &reward.PendingReward{
		Username:     dao.Username,
		USDCAmount:   usdcAmount,
		ProfitAmount: profitAmount,
		CreatedAt:    dao.CreatedAt,
	}, nil
}
