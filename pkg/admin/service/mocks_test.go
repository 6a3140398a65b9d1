package service

import (
	"context"

	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/accountstore"
	"github.com/optimahq/optima/pkg/funding"
	"github.com/optimahq/optima/pkg/fundingstore"
	"github.com/optimahq/optima/pkg/optimization"
	"github.com/optimahq/optima/pkg/optimizationstore"
	"github.com/optimahq/optima/pkg/reward"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

type MockAccountStore struct {
	CreateFunc                func(ctx context.Context, acct *account.Account) error
	GetFunc                   func(ctx context.Context, username string) (*account.Account, error)
	UpdateFunc                func(ctx context.Context, acct *account.Account) error
	ListWithFreezingPointFunc func(ctx context.Context) ([]*account.Account, error)
	ResetTodaysProfitsFunc    func(ctx context.Context) (int64, error)
	DeleteByUsernameFunc      func(ctx context.Context, username string) error
}

func (m *MockAccountStore) Create(ctx context.Context, acct *account.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, acct)
	}
	return nil
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

func (m *MockAccountStore) ListWithFreezingPoint(ctx context.Context) ([]*account.Account, error) {
	if m.ListWithFreezingPointFunc != nil {
		return m.ListWithFreezingPointFunc(ctx)
	}
	return nil, nil
}

func (m *MockAccountStore) ResetTodaysProfits(ctx context.Context) (int64, error) {
	if m.ResetTodaysProfitsFunc != nil {
		return m.ResetTodaysProfitsFunc(ctx)
	}
	return 0, nil
}

func (m *MockAccountStore) DeleteByUsername(ctx context.Context, username string) error {
	if m.DeleteByUsernameFunc != nil {
		return m.DeleteByUsernameFunc(ctx, username)
	}
	return nil
}

type MockEntryStore struct {
	InsertFunc           func(ctx context.Context, entry *optimization.Entry) error
	FindLatestFunc       func(ctx context.Context, username string) (*optimization.Entry, error)
	CountByUsernameFunc  func(ctx context.Context, username string) (int, error)
	DeleteByUsernameFunc func(ctx context.Context, username string) error
}

func (m *MockEntryStore) Insert(ctx context.Context, entry *optimization.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	return nil
}

func (m *MockEntryStore) FindLatest(ctx context.Context, username string) (*optimization.Entry, error) {
	if m.FindLatestFunc != nil {
		return m.FindLatestFunc(ctx, username)
	}
	return nil, optimizationstore.ErrEntryNotFound
}

func (m *MockEntryStore) CountByUsername(ctx context.Context, username string) (int, error) {
	if m.CountByUsernameFunc != nil {
		return m.CountByUsernameFunc(ctx, username)
	}
	return 0, nil
}

func (m *MockEntryStore) DeleteByUsername(ctx context.Context, username string) error {
	if m.DeleteByUsernameFunc != nil {
		return m.DeleteByUsernameFunc(ctx, username)
	}
	return nil
}

type MockActivityStore struct {
	GetResetCountFunc       func(ctx context.Context, username string) (int, error)
	IncrementResetCountFunc func(ctx context.Context, username string) (int, error)
	ListResetActivityFunc   func(ctx context.Context) ([]*optimizationstore.ResetActivity, error)
	ClearResetCountFunc     func(ctx context.Context, username string) error
	ClearAllResetCountsFunc func(ctx context.Context) error
}

func (m *MockActivityStore) GetResetCount(ctx context.Context, username string) (int, error) {
	if m.GetResetCountFunc != nil {
		return m.GetResetCountFunc(ctx, username)
	}
	return 0, nil
}

func (m *MockActivityStore) IncrementResetCount(ctx context.Context, username string) (int, error) {
	if m.IncrementResetCountFunc != nil {
		return m.IncrementResetCountFunc(ctx, username)
	}
	return 1, nil
}

func (m *MockActivityStore) ListResetActivity(ctx context.Context) ([]*optimizationstore.ResetActivity, error) {
	if m.ListResetActivityFunc != nil {
		return m.ListResetActivityFunc(ctx)
	}
	return nil, nil
}

func (m *MockActivityStore) ClearResetCount(ctx context.Context, username string) error {
	if m.ClearResetCountFunc != nil {
		return m.ClearResetCountFunc(ctx, username)
	}
	return nil
}

func (m *MockActivityStore) ClearAllResetCounts(ctx context.Context) error {
	if m.ClearAllResetCountsFunc != nil {
		return m.ClearAllResetCountsFunc(ctx)
	}
	return nil
}

type MockUserStore struct {
	GetUserFunc            func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	UpdateStatusFunc       func(ctx context.Context, username string, status user.Status) error
	ListUsersFunc          func(ctx context.Context) ([]*user.User, error)
	CountByStatusFunc      func(ctx context.Context) (*userstore.StatusCounts, error)
	DeleteUserFunc         func(ctx context.Context, username string) error
	CreateReferralCodeFunc func(ctx context.Context, code *user.ReferralCode) error
	ListReferralCodesFunc  func(ctx context.Context) ([]*user.ReferralCode, error)
	DeleteReferralCodeFunc func(ctx context.Context, id int64) error
}

func (m *MockUserStore) GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, opts...)
	}
	return nil, userstore.ErrUserNotFound
}

func (m *MockUserStore) UpdateStatus(ctx context.Context, username string, status user.Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, username, status)
	}
	return nil
}

func (m *MockUserStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserStore) CountByStatus(ctx context.Context) (*userstore.StatusCounts, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return &userstore.StatusCounts{}, nil
}

func (m *MockUserStore) DeleteUser(ctx context.Context, username string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, username)
	}
	return nil
}

func (m *MockUserStore) CreateReferralCode(ctx context.Context, code *user.ReferralCode) error {
	if m.CreateReferralCodeFunc != nil {
		return m.CreateReferralCodeFunc(ctx, code)
	}
	return nil
}

func (m *MockUserStore) ListReferralCodes(ctx context.Context) ([]*user.ReferralCode, error) {
	if m.ListReferralCodesFunc != nil {
		return m.ListReferralCodesFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserStore) DeleteReferralCode(ctx context.Context, id int64) error {
	if m.DeleteReferralCodeFunc != nil {
		return m.DeleteReferralCodeFunc(ctx, id)
	}
	return nil
}

type MockRewardStore struct {
	UpsertFrozenRewardFunc  func(ctx context.Context, rw *reward.FrozenReward) error
	UpsertPendingRewardFunc func(ctx context.Context, rw *reward.PendingReward) error
	DeleteByUsernameFunc    func(ctx context.Context, username string) error
}

func (m *MockRewardStore) UpsertFrozenReward(ctx context.Context, rw *reward.FrozenReward) error {
	if m.UpsertFrozenRewardFunc != nil {
		return m.UpsertFrozenRewardFunc(ctx, rw)
	}
	return nil
}

func (m *MockRewardStore) UpsertPendingReward(ctx context.Context, rw *reward.PendingReward) error {
	if m.UpsertPendingRewardFunc != nil {
		return m.UpsertPendingRewardFunc(ctx, rw)
	}
	return nil
}

func (m *MockRewardStore) DeleteByUsername(ctx context.Context, username string) error {
	if m.DeleteByUsernameFunc != nil {
		return m.DeleteByUsernameFunc(ctx, username)
	}
	return nil
}

type MockFundingStore struct {
	UpsertDepositFunc          func(ctx context.Context, dep *funding.Deposit) error
	InsertDepositRecordFunc    func(ctx context.Context, rec *funding.DepositRecord) error
	ListWithdrawalsFunc        func(ctx context.Context, username string) ([]*funding.Withdrawal, error)
	UpdateWithdrawalStatusFunc func(ctx context.Context, id int64, status funding.Status) error
	DeleteWithdrawalFunc       func(ctx context.Context, id int64) error
	DeleteByUsernameFunc       func(ctx context.Context, username string) error
}

func (m *MockFundingStore) UpsertDeposit(ctx context.Context, dep *funding.Deposit) error {
	if m.UpsertDepositFunc != nil {
		return m.UpsertDepositFunc(ctx, dep)
	}
	return nil
}

func (m *MockFundingStore) InsertDepositRecord(ctx context.Context, rec *funding.DepositRecord) error {
	if m.InsertDepositRecordFunc != nil {
		return m.InsertDepositRecordFunc(ctx, rec)
	}
	return nil
}

func (m *MockFundingStore) ListWithdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error) {
	if m.ListWithdrawalsFunc != nil {
		return m.ListWithdrawalsFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockFundingStore) UpdateWithdrawalStatus(ctx context.Context, id int64, status funding.Status) error {
	if m.UpdateWithdrawalStatusFunc != nil {
		return m.UpdateWithdrawalStatusFunc(ctx, id, status)
	}
	return fundingstore.ErrWithdrawalNotFound
}

func (m *MockFundingStore) DeleteWithdrawal(ctx context.Context, id int64) error {
	if m.DeleteWithdrawalFunc != nil {
		return m.DeleteWithdrawalFunc(ctx, id)
	}
	return fundingstore.ErrWithdrawalNotFound
}

func (m *MockFundingStore) DeleteByUsername(ctx context.Context, username string) error {
	if m.DeleteByUsernameFunc != nil {
		return m.DeleteByUsernameFunc(ctx, username)
	}
	return nil
}
