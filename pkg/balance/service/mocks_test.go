package service

import (
	"context"

	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/accountstore"
	"github.com/optimahq/optima/pkg/funding"
	"github.com/optimahq/optima/pkg/fundingstore"
	"github.com/optimahq/optima/pkg/optimization"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

type MockAccountStore struct {
	GetFunc    func(ctx context.Context, username string) (*account.Account, error)
	CreateFunc func(ctx context.Context, acct *account.Account) error
}

func (m *MockAccountStore) Get(ctx context.Context, username string) (*account.Account, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, username)
	}
	return nil, accountstore.ErrAccountNotFound
}

func (m *MockAccountStore) Create(ctx context.Context, acct *account.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, acct)
	}
	return nil
}

type MockEntryStore struct {
	ListByUsernameFunc func(ctx context.Context, username string) ([]*optimization.Entry, error)
}

func (m *MockEntryStore) ListByUsername(ctx context.Context, username string) ([]*optimization.Entry, error) {
	if m.ListByUsernameFunc != nil {
		return m.ListByUsernameFunc(ctx, username)
	}
	return nil, nil
}

type MockUserStore struct {
	GetUserFunc func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
}

func (m *MockUserStore) GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, opts...)
	}
	return nil, userstore.ErrUserNotFound
}

type MockFundingStore struct {
	GetDepositFunc         func(ctx context.Context, username string) (*funding.Deposit, error)
	ListDepositRecordsFunc func(ctx context.Context, username string) ([]*funding.DepositRecord, error)
}

func (m *MockFundingStore) GetDeposit(ctx context.Context, username string) (*funding.Deposit, error) {
	if m.GetDepositFunc != nil {
		return m.GetDepositFunc(ctx, username)
	}
	return nil, fundingstore.ErrDepositNotFound
}

func (m *MockFundingStore) ListDepositRecords(ctx context.Context, username string) ([]*funding.DepositRecord, error) {
	if m.ListDepositRecordsFunc != nil {
		return m.ListDepositRecordsFunc(ctx, username)
	}
	return nil, nil
}
