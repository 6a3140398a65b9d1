package accountstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/account"
)

// AccountDao is a data access object that maps directly to the 'accounts' table in PostgreSQL.
type AccountDao struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,unique,notnull,type:varchar(64)"`
	TotalBalance  string    `bun:"total_balance,notnull,type:numeric(20,2),default:'0'"`
	TodaysProfit  string    `bun:"todays_profit,notnull,type:numeric(20,2),default:'0'"`
	TotalProfits  string    `bun:"total_profits,notnull,type:numeric(20,2),default:'0'"`
	FrozenAmount  string    `bun:"frozen_amount,notnull,type:numeric(20,2),default:'0'"`
	FreezingPoint *int      `bun:"freezing_point"`
	VIPLevel      string    `bun:"vip_level,notnull,type:varchar(8),default:'VIP1'"`
	DailyLimit    int       `bun:"daily_limit,notnull,default:0"`
	Version       int64     `bun:"version,notnull,default:0"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// toAccountDao converts an account.Account to AccountDao.
func toAccountDao(acct *account.Account) *AccountDao {
	return &AccountDao{
		Username:      acct.Username,
		TotalBalance:  acct.TotalBalance.String(),
		TodaysProfit:  acct.TodaysProfit.String(),
		TotalProfits:  acct.TotalProfits.String(),
		FrozenAmount:  acct.FrozenAmount.String(),
		FreezingPoint: acct.FreezingPoint,
		VIPLevel:      string(acct.VIPLevel),
		DailyLimit:    acct.DailyLimit,
		Version:       acct.Version,
		CreatedAt:     acct.CreatedAt,
	}
}

// toAccount converts an AccountDao to account.Account.
func toAccount(dao *AccountDao) (*account.Account, error) {
	totalBalance, err := decimal.NewFromString(dao.TotalBalance)
	if err != nil {
		return nil, err
	}
	todaysProfit, err := decimal.NewFromString(dao.TodaysProfit)
	if err != nil {
		return nil, err
	}
	totalProfits, err := decimal.NewFromString(dao.TotalProfits)
	if err != nil {
		return nil, err
	}
	frozenAmount, err := decimal.NewFromString(dao.FrozenAmount)
	if err != nil {
		return nil, err
	}

	return &account.Account{
		Username:      dao.Username,
		TotalBalance:  totalBalance,
		TodaysProfit:  todaysProfit,
		TotalProfits:  totalProfits,
		FrozenAmount:  frozenAmount,
		FreezingPoint: dao.FreezingPoint,
		VIPLevel:      account.VIPLevel(dao.VIPLevel),
		DailyLimit:    dao.DailyLimit,
		Version:       dao.Version,
		CreatedAt:     dao.CreatedAt,
	}, nil
}
