package fundingstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/funding"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the funding store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) GetDeposit(ctx context.Context, username string) (*funding.Deposit, error) {
	dao := new(DepositDao)

	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDepositNotFound
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}

	return toDeposit(dao)
}

func (s *pgStore) UpsertDeposit(ctx context.Context, dep *funding.Deposit) error {
	dao := toDepositDao(dep)

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (username) DO UPDATE").
		Set("amount = EXCLUDED.amount").
		Set("updated_at = NOW()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert deposit: %w", err)
	}

	return nil
}

func (s *pgStore) InsertDepositRecord(ctx context.Context, rec *funding.DepositRecord) error {
	dao := toDepositRecordDao(rec)
	dao.ID = 0

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert deposit record: %w", err)
	}

	rec.ID = dao.ID
	return nil
}

func (s *pgStore) ListDepositRecords(ctx context.Context, username string) ([]*funding.DepositRecord, error) {
	var daos []DepositRecordDao

	err := s.db.NewSelect().
		Model(&daos).
		Where("username = ?", username).
		Order("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposit records: %w", err)
	}

	records := make([]*funding.DepositRecord, 0, len(daos))
	for i := range daos {
		rec, err := toDepositRecord(&daos[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *pgStore) InsertWithdrawal(ctx context.Context, wd *funding.Withdrawal) error {
	dao := toWithdrawalDao(wd)
	dao.ID = 0

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert withdrawal: %w", err)
	}

	wd.ID = dao.ID
	return nil
}

func (s *pgStore) ListWithdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error) {
	var daos []WithdrawalDao

	query := s.db.NewSelect().
		Model(&daos).
		Order("id DESC")
	if username != "" {
		query = query.Where("username = ?", username)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}

	withdrawals := make([]*funding.Withdrawal, 0, len(daos))
	for i := range daos {
		wd, err := toWithdrawal(&daos[i])
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, wd)
	}
	return withdrawals, nil
}

func (s *pgStore) UpdateWithdrawalStatus(ctx context.Context, id int64, status funding.Status) error {
	res, err := s.db.NewUpdate().
		Model((*WithdrawalDao)(nil)).
		Set("status = ?", string(status)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrWithdrawalNotFound
	}

	return nil
}

func (s *pgStore) DeleteWithdrawal(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*WithdrawalDao)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete withdrawal: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return ErrWithdrawalNotFound
	}

	return nil
}

func (s *pgStore) InsertWallet(ctx context.Context, w *funding.Wallet) error {
	dao := toWalletDao(w)
	dao.ID = 0

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert wallet: %w", err)
	}

	w.ID = dao.ID
	return nil
}

func (s *pgStore) ListWallets(ctx context.Context, username string) ([]*funding.Wallet, error) {
	var daos []WalletDao

	err := s.db.NewSelect().
		Model(&daos).
		Where("username = ?", username).
		Order("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	wallets := make([]*funding.Wallet, 0, len(daos))
	for i := range daos {
		wallets = append(wallets, toWallet(&daos[i]))
	}
	return wallets, nil
}

func (s *pgStore) DeleteByUsername(ctx context.Context, username string) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{
			(*DepositDao)(nil),
			(*DepositRecordDao)(nil),
			(*WithdrawalDao)(nil),
			(*WalletDao)(nil),
		} {
			if _, err := tx.NewDelete().
				Model(model).
				Where("username = ?", username).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete funding rows: %w", err)
	}

	return nil
}
