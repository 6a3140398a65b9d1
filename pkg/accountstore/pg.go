package accountstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/account"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the account store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Create(ctx context.Context, acct *account.Account) error {
	dao := toAccountDao(acct)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (s *pgStore) Get(ctx context.Context, username string) (*account.Account, error) {
	dao := new(AccountDao)

	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return toAccount(dao)
}

func (s *pgStore) Update(ctx context.Context, acct *account.Account) error {
	dao := toAccountDao(acct)

	res, err := s.db.NewUpdate().
		Model(dao).
		Set("total_balance = ?", dao.TotalBalance).
		Set("todays_profit = ?", dao.TodaysProfit).
		Set("total_profits = ?", dao.TotalProfits).
		Set("frozen_amount = ?", dao.FrozenAmount).
		Set("freezing_point = ?", dao.FreezingPoint).
		Set("vip_level = ?", dao.VIPLevel).
		Set("daily_limit = ?", dao.DailyLimit).
		Set("version = version + 1").
		Where("username = ?", dao.Username).
		Where("version = ?", dao.Version).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		exists, err := s.db.NewSelect().
			Model((*AccountDao)(nil)).
			Where("username = ?", dao.Username).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check account exists: %w", err)
		}
		if !exists {
			return ErrAccountNotFound
		}
		return ErrVersionConflict
	}

	acct.Version++
	return nil
}

func (s *pgStore) ListWithFreezingPoint(ctx context.Context) ([]*account.Account, error) {
	var daos []AccountDao

	err := s.db.NewSelect().
		Model(&daos).
		Where("freezing_point IS NOT NULL").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts with freezing point: %w", err)
	}

	return toAccounts(daos)
}

func (s *pgStore) ResetTodaysProfits(ctx context.Context) (int64, error) {
	res, err := s.db.NewUpdate().
		Model((*AccountDao)(nil)).
		Set("todays_profit = '0'").
		Where("todays_profit <> '0'").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reset todays profits: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read reset result: %w", err)
	}

	return rows, nil
}

func (s *pgStore) DeleteByUsername(ctx context.Context, username string) error {
	_, err := s.db.NewDelete().
		Model((*AccountDao)(nil)).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}

func toAccounts(daos []AccountDao) ([]*account.Account, error) {
	accts := make([]*account.Account, 0, len(daos))
	for i := range daos {
		acct, err := toAccount(&daos[i])
		if err != nil {
			return nil, err
		}
		accts = append(accts, acct)
	}
	return accts, nil
}
