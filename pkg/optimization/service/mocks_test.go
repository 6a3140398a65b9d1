package service

import (
	"context"
	"time"

	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/accountstore"
	"github.com/optimahq/optima/pkg/optimization"
	"github.com/optimahq/optima/pkg/optimizationstore"
	"github.com/optimahq/optima/pkg/reward"
	"github.com/optimahq/optima/pkg/rewardstore"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

// MockAccountStore is a mock implementation of AccountStore
type MockAccountStore struct {
	GetFunc    func(ctx context.Context, username string) (*account.Account, error)
	UpdateFunc func(ctx context.Context, acct *account.Account) error
}

func (m *MockAccountStore) Get(ctx context.Context, username string) (*account.Account, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, username)
	}
	return nil, accountstore.ErrAccountNotFound
}

func (m *MockAccountStore) Update(ctx context.Context, acct *account.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, acct)
	}
	return nil
}

// MockEntryStore is a mock implementation of EntryStore
type MockEntryStore struct {
	InsertFunc                     func(ctx context.Context, entry *optimization.Entry) error
	InsertPairFunc                 func(ctx context.Context, first, second *optimization.Entry) error
	FindLatestFunc                 func(ctx context.Context, username string) (*optimization.Entry, error)
	ListOutstandingFunc            func(ctx context.Context, username string) ([]*optimization.Entry, error)
	ListByUsernameFunc             func(ctx context.Context, username string) ([]*optimization.Entry, error)
	CountSinceFunc                 func(ctx context.Context, username string, cutoff time.Time) (int, error)
	MarkCompletedFunc              func(ctx context.Context, ids []int64) error
	MarkLatestPendingCompletedFunc func(ctx context.Context, username string) error
}

func (m *MockEntryStore) Insert(ctx context.Context, entry *optimization.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	return nil
}

func (m *MockEntryStore) InsertPair(ctx context.Context, first, second *optimization.Entry) error {
	if m.InsertPairFunc != nil {
		return m.InsertPairFunc(ctx, first, second)
	}
	return nil
}

func (m *MockEntryStore) FindLatest(ctx context.Context, username string) (*optimization.Entry, error) {
	if m.FindLatestFunc != nil {
		return m.FindLatestFunc(ctx, username)
	}
	return nil, optimizationstore.ErrEntryNotFound
}

func (m *MockEntryStore) ListOutstanding(ctx context.Context, username string) ([]*optimization.Entry, error) {
	if m.ListOutstandingFunc != nil {
		return m.ListOutstandingFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockEntryStore) ListByUsername(ctx context.Context, username string) ([]*optimization.Entry, error) {
	if m.ListByUsernameFunc != nil {
		return m.ListByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockEntryStore) CountSince(ctx context.Context, username string, cutoff time.Time) (int, error) {
	if m.CountSinceFunc != nil {
		return m.CountSinceFunc(ctx, username, cutoff)
	}
	return 0, nil
}

func (m *MockEntryStore) MarkCompleted(ctx context.Context, ids []int64) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, ids)
	}
	return nil
}

func (m *MockEntryStore) MarkLatestPendingCompleted(ctx context.Context, username string) error {
	if m.MarkLatestPendingCompletedFunc != nil {
		return m.MarkLatestPendingCompletedFunc(ctx, username)
	}
	return nil
}

// MockUserStore is a mock implementation of UserStore
type MockUserStore struct {
	GetUserFunc func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
}

func (m *MockUserStore) GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, opts...)
	}
	return nil, userstore.ErrUserNotFound
}

// MockRewardStore is a mock implementation of RewardStore
type MockRewardStore struct {
	GetFrozenRewardFunc  func(ctx context.Context, username string) (*reward.FrozenReward, error)
	GetPendingRewardFunc func(ctx context.Context, username string) (*reward.PendingReward, error)
}

func (m *MockRewardStore) GetFrozenReward(ctx context.Context, username string) (*reward.FrozenReward, error) {
	if m.GetFrozenRewardFunc != nil {
		return m.GetFrozenRewardFunc(ctx, username)
	}
	return nil, rewardstore.ErrRewardNotFound
}

func (m *MockRewardStore) GetPendingReward(ctx context.Context, username string) (*reward.PendingReward, error) {
	if m.GetPendingRewardFunc != nil {
		return m.GetPendingRewardFunc(ctx, username)
	}
	return nil, rewardstore.ErrRewardNotFound
}
