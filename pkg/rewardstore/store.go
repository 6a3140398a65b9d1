package rewardstore

import (
	"context"
	"errors"

	"github.com/optimahq/optima/pkg/reward"
)

// ErrRewardNotFound is returned when no override row exists for a user.
var ErrRewardNotFound = errors.New("reward not found")

// Store defines the interface for reward override persistence.
type Store interface {
	GetFrozenReward(ctx context.Context, username string) (*reward.FrozenReward, error)
	UpsertFrozenReward(ctx context.Context, rw *reward.FrozenReward) error
	GetPendingReward(ctx context.Context, username string) (*reward.PendingReward, error)
	UpsertPendingReward(ctx context.Context, rw *reward.PendingReward) error
	DeleteByUsername(ctx context.Context, username string) error
}
