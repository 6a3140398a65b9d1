package optimizationstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/optimization"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the optimization store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Insert(ctx context.Context, entry *optimization.Entry) error {
	dao := toEntryDao(entry)
	dao.ID = 0

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert optimization entry: %w", err)
	}

	entry.ID = dao.ID
	return nil
}

func (s *pgStore) InsertPair(ctx context.Context, first, second *optimization.Entry) error {
	firstDao := toEntryDao(first)
	firstDao.ID = 0
	secondDao := toEntryDao(second)
	secondDao.ID = 0

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(firstDao).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert first entry: %w", err)
		}
		if _, err := tx.NewInsert().Model(secondDao).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert second entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert entry pair: %w", err)
	}

	first.ID = firstDao.ID
	second.ID = secondDao.ID
	return nil
}

func (s *pgStore) FindLatest(ctx context.Context, username string) (*optimization.Entry, error) {
	dao := new(EntryDao)

	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Order("id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find latest entry: %w", err)
	}

	return toEntry(dao)
}

func (s *pgStore) ListOutstanding(ctx context.Context, username string) ([]*optimization.Entry, error) {
	var daos []EntryDao

	err := s.db.NewSelect().
		Model(&daos).
		Where("username = ?", username).
		Where("status IN (?)", bun.In([]string{string(optimization.StatusPending), string(optimization.StatusFrozen)})).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding entries: %w", err)
	}

	return toEntries(daos)
}

func (s *pgStore) CountSince(ctx context.Context, username string, cutoff time.Time) (int, error) {
	count, err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		Where("username = ?", username).
		Where("submitted_at >= ?", cutoff).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries since cutoff: %w", err)
	}
	return count, nil
}

func (s *pgStore) CountByUsername(ctx context.Context, username string) (int, error) {
	count, err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		Where("username = ?", username).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

func (s *pgStore) ListByUsername(ctx context.Context, username string) ([]*optimization.Entry, error) {
	var daos []EntryDao

	err := s.db.NewSelect().
		Model(&daos).
		Where("username = ?", username).
		Order("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return toEntries(daos)
}

func (s *pgStore) MarkCompleted(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.db.NewUpdate().
		Model((*EntryDao)(nil)).
		Set("status = ?", string(optimization.StatusCompleted)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark entries completed: %w", err)
	}

	return nil
}

func (s *pgStore) MarkLatestPendingCompleted(ctx context.Context, username string) error {
	_, err := s.db.NewUpdate().
		Model((*EntryDao)(nil)).
		Set("status = ?", string(optimization.StatusCompleted)).
		Where("id = (SELECT id FROM optimizations WHERE username = ? AND status = ? ORDER BY id DESC LIMIT 1)",
			username, string(optimization.StatusPending)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to complete latest pending entry: %w", err)
	}

	return nil
}

func (s *pgStore) DeleteByUsername(ctx context.Context, username string) error {
	_, err := s.db.NewDelete().
		Model((*EntryDao)(nil)).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}

	return nil
}

func (s *pgStore) GetResetCount(ctx context.Context, username string) (int, error) {
	dao := new(ActivityDao)

	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get reset count: %w", err)
	}

	return dao.ResetCount, nil
}

func (s *pgStore) IncrementResetCount(ctx context.Context, username string) (int, error) {
	dao := &ActivityDao{
		Username:   username,
		ResetCount: 1,
		UpdatedAt:  time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (username) DO UPDATE").
		Set("reset_count = optimization_activity.reset_count + 1").
		Set("updated_at = NOW()").
		Returning("reset_count").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to increment reset count: %w", err)
	}

	return dao.ResetCount, nil
}

func (s *pgStore) ListResetActivity(ctx context.Context) ([]*ResetActivity, error) {
	var daos []ActivityDao

	err := s.db.NewSelect().
		Model(&daos).
		Order("username ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reset activity: %w", err)
	}

	activity := make([]*ResetActivity, 0, len(daos))
	for i := range daos {
		activity = append(activity, &ResetActivity{
			Username:   daos[i].Username,
			ResetCount: daos[i].ResetCount,
			UpdatedAt:  daos[i].UpdatedAt,
		})
	}
	return activity, nil
}

func (s *pgStore) ClearResetCount(ctx context.Context, username string) error {
	_, err := s.db.NewDelete().
		Model((*ActivityDao)(nil)).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear reset count: %w", err)
	}

	return nil
}

func (s *pgStore) ClearAllResetCounts(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*ActivityDao)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear reset counts: %w", err)
	}

	return nil
}
