package service

import (
	"context"
	"time"

	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

type MockUserStore struct {
	CreateUserFunc           func(ctx context.Context, usr *user.User) error
	GetUserFunc              func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	UserExistsFunc           func(ctx context.Context, opts ...userstore.QueryOption) (bool, error)
	UpdateUserFunc           func(ctx context.Context, usr *user.User) error
	CountCreatedSinceFunc    func(ctx context.Context, cutoff time.Time) (int, error)
	GetReferralCodeFunc      func(ctx context.Context, code string) (*user.ReferralCode, error)
	MarkReferralCodeUsedFunc func(ctx context.Context, code string) error
	GetAdminFunc             func(ctx context.Context, username string) (*user.Admin, error)
}

func (m *MockUserStore) CreateUser(ctx context.Context, usr *user.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, usr)
	}
	return nil
}

func (m *MockUserStore) GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, opts...)
	}
	return nil, userstore.ErrUserNotFound
}

func (m *MockUserStore) UserExists(ctx context.Context, opts ...userstore.QueryOption) (bool, error) {
	if m.UserExistsFunc != nil {
		return m.UserExistsFunc(ctx, opts...)
	}
	return false, nil
}

func (m *MockUserStore) UpdateUser(ctx context.Context, usr *user.User) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, usr)
	}
	return nil
}

func (m *MockUserStore) CountCreatedSince(ctx context.Context, cutoff time.Time) (int, error) {
	if m.CountCreatedSinceFunc != nil {
		return m.CountCreatedSinceFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *MockUserStore) GetReferralCode(ctx context.Context, code string) (*user.ReferralCode, error) {
	if m.GetReferralCodeFunc != nil {
		return m.GetReferralCodeFunc(ctx, code)
	}
	return nil, userstore.ErrCodeNotFound
}

func (m *MockUserStore) MarkReferralCodeUsed(ctx context.Context, code string) error {
	if m.MarkReferralCodeUsedFunc != nil {
		return m.MarkReferralCodeUsedFunc(ctx, code)
	}
	return nil
}

func (m *MockUserStore) GetAdmin(ctx context.Context, username string) (*user.Admin, error) {
	if m.GetAdminFunc != nil {
		return m.GetAdminFunc(ctx, username)
	}
	return nil, userstore.ErrAdminNotFound
}

type MockAccountStore struct {
	CreateFunc func(ctx context.Context, acct *account.Account) error
}

func (m *MockAccountStore) Create(ctx context.Context, acct *account.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, acct)
	}
	return nil
}

type MockSessionIssuer struct {
	IssueFunc func(username, role string) (string, error)
}

func (m *MockSessionIssuer) Issue(username, role string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(username, role)
	}
	return "token-" + username, nil
}

type MockResetTokenVault struct {
	IssueFunc   func(username string) string
	ConsumeFunc func(token string) (string, error)
}

func (m *MockResetTokenVault) Issue(username string) string {
	if m.IssueFunc != nil {
		return m.IssueFunc(username)
	}
	return "reset-" + username
}

func (m *MockResetTokenVault) Consume(token string) (string, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(token)
	}
	return "", ErrResetVerification
}
