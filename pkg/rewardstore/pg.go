package rewardstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/reward"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the reward store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) GetFrozenReward(ctx context.Context, username string) (*reward.FrozenReward, error) {
	dao := new(FrozenRewardDao)

	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to get frozen reward: %w", err)
	}

	return toFrozenReward(dao)
}

func (s *pgStore) UpsertFrozenReward(ctx context.Context, rw *reward.FrozenReward) error {
	dao := toFrozenRewardDao(rw)

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (username) DO UPDATE").
		Set("usdc_amount = EXCLUDED.usdc_amount").
		Set("profit_amount = EXCLUDED.profit_amount").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert frozen reward: %w", err)
	}

	return nil
}

func (s *pgStore) GetPendingReward(ctx context.Context, username string) (*reward.PendingReward, error) {
	dao := new(PendingRewardDao)

	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to get pending reward: %w", err)
	}

	return toPendingReward(dao)
}

func (s *pgStore) UpsertPendingReward(ctx context.Context, rw *reward.PendingReward) error {
	dao := toPendingRewardDao(rw)

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (username) DO UPDATE").
		Set("usdc_amount = EXCLUDED.usdc_amount").
		Set("profit_amount = EXCLUDED.profit_amount").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert pending reward: %w", err)
	}

	return nil
}

func (s *pgStore) DeleteByUsername(ctx context.Context, username string) error {
	if _, err := s.db.NewDelete().
		Model((*FrozenRewardDao)(nil)).
		Where("username = ?", username).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete frozen reward: %w", err)
	}

	if _, err := s.db.NewDelete().
		Model((*PendingRewardDao)(nil)).
		Where("username = ?", username).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete pending reward: %w", err)
	}

	return nil
}
