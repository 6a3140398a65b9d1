package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/config"
	"github.com/optimahq/optima/pkg/funding"
	"github.com/optimahq/optima/pkg/optimization"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

func testBusinessConfig() *config.BusinessConfig {
	return &config.BusinessConfig{
		DefaultDailyLimit:    165,
		DefaultFreezingPoint: 103,
	}
}

func testAccount(username string) *account.Account {
	acct := account.New(username, 500)
	acct.TotalBalance = decimal.RequireFromString("250.50")
	acct.TodaysProfit = decimal.RequireFromString("12.30")
	acct.TotalProfits = decimal.RequireFromString("98.76")
	return acct
}

func testUser(username string) *user.User {
	return &user.User{
		Username:       username,
		InvitationCode: "AB23CDE",
		Status:         user.StatusActive,
	}
}

func newTestService(accounts *MockAccountStore, entries *MockEntryStore, users *MockUserStore, fundings *MockFundingStore) Service {
	return NewService(accounts, entries, users, fundings, testBusinessConfig(), zap.NewNop())
}

func TestStartPageBelowFreezingPoint(t *testing.T) {
	acct := testAccount("alice")
	accounts := &MockAccountStore{
		GetFunc: func(ctx context.Context, username string) (*account.Account, error) {
			return acct, nil
		},
	}
	entries := &MockEntryStore{
		ListByUsernameFunc: func(ctx context.Context, username string) ([]*optimization.Entry, error) {
			return []*optimization.Entry{
				{Count: 12, Status: optimization.StatusPending},
				{Count: 11, Status: optimization.StatusCompleted},
				{Count: 10, Status: optimization.StatusCompleted},
			}, nil
		},
	}
	users := &MockUserStore{
		GetUserFunc: func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
			return testUser("alice"), nil
		},
	}

	view, err := newTestService(accounts, entries, users, &MockFundingStore{}).StartPage(context.Background(), "alice")
	if err != nil {
		t.Fatalf("StartPage returned error: %v", err)
	}
	if view.Frozen {
		t.Fatal("expected account below the freezing point to be unfrozen")
	}
	if !view.DisplayBalance.Equal(acct.TotalBalance) {
		t.Fatalf("expected display balance %s, got %s", acct.TotalBalance, view.DisplayBalance)
	}
	if view.LatestCount != 12 {
		t.Fatalf("expected latest count 12, got %d", view.LatestCount)
	}
	if view.CompletedCount != 2 {
		t.Fatalf("expected 2 completed entries, got %d", view.CompletedCount)
	}
	if view.MaxOptimizationCount != 40 {
		t.Fatalf("expected VIP1 cap 40, got %d", view.MaxOptimizationCount)
	}
	if view.FreezingPoint != 103 {
		t.Fatalf("expected fallback freezing point 103, got %d", view.FreezingPoint)
	}
	if view.InvitationCode != "AB23CDE" {
		t.Fatalf("unexpected invitation code %q", view.InvitationCode)
	}
}

func TestStartPageFrozenShowsNegatedDeposit(t *testing.T) {
	acct := testAccount("alice")
	acct.SetFreezingPoint(10)
	accounts := &MockAccountStore{
		GetFunc: func(ctx context.Context, username string) (*account.Account, error) {
			return acct, nil
		},
	}
	entries := &MockEntryStore{
		ListByUsernameFunc: func(ctx context.Context, username string) ([]*optimization.Entry, error) {
			return []*optimization.Entry{{Count: 10, Status: optimization.StatusFrozen}}, nil
		},
	}
	users := &MockUserStore{
		GetUserFunc: func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
			return testUser("alice"), nil
		},
	}
	fundings := &MockFundingStore{
		GetDepositFunc: func(ctx context.Context, username string) (*funding.Deposit, error) {
			return &funding.Deposit{Username: "alice", Amount: decimal.RequireFromString("500")}, nil
		},
	}

	view, err := newTestService(accounts, entries, users, fundings).StartPage(context.Background(), "alice")
	if err != nil {
		t.Fatalf("StartPage returned error: %v", err)
	}
	if !view.Frozen {
		t.Fatal("expected account at the freezing point to be frozen")
	}
	want := decimal.RequireFromString("-500")
	if !view.DisplayBalance.Equal(want) {
		t.Fatalf("expected display balance %s, got %s", want, view.DisplayBalance)
	}
	if !view.DepositAmount.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("unexpected deposit amount %s", view.DepositAmount)
	}
}

func TestStartPageZeroFreezingPointNeverFreezes(t *testing.T) {
	acct := testAccount("alice")
	acct.SetFreezingPoint(0)
	accounts := &MockAccountStore{
		GetFunc: func(ctx context.Context, username string) (*account.Account, error) {
			return acct, nil
		},
	}
	entries := &MockEntryStore{
		ListByUsernameFunc: func(ctx context.Context, username string) ([]*optimization.Entry, error) {
			return []*optimization.Entry{{Count: 999, Status: optimization.StatusPending}}, nil
		},
	}
	users := &MockUserStore{
		GetUserFunc: func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
			return testUser("alice"), nil
		},
	}

	view, err := newTestService(accounts, entries, users, &MockFundingStore{}).StartPage(context.Background(), "alice")
	if err != nil {
		t.Fatalf("StartPage returned error: %v", err)
	}
	if view.Frozen {
		t.Fatal("expected zero freezing point to disable the gate")
	}
}

func TestProfileSeedsMissingLedger(t *testing.T) {
	var created *account.Account
	accounts := &MockAccountStore{
		CreateFunc: func(ctx context.Context, acct *account.Account) error {
			created = acct
			return nil
		},
	}
	users := &MockUserStore{
		GetUserFunc: func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
			return testUser("bob"), nil
		},
	}

	view, err := newTestService(accounts, &MockEntryStore{}, users, &MockFundingStore{}).Profile(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected a default ledger to be created")
	}
	if created.Username != "bob" {
		t.Fatalf("unexpected seeded username %q", created.Username)
	}
	if created.DailyLimit != 165 {
		t.Fatalf("expected seeded daily limit 165, got %d", created.DailyLimit)
	}
	if created.FreezingPoint != nil {
		t.Fatal("expected seeded ledger to leave the freezing point unset")
	}
	if !view.DisplayBalance.IsZero() {
		t.Fatalf("expected zero balance for a fresh ledger, got %s", view.DisplayBalance)
	}
}

func TestDepositHistoryGroupsAndTotals(t *testing.T) {
	now := time.Now()
	accounts := &MockAccountStore{
		GetFunc: func(ctx context.Context, username string) (*account.Account, error) {
			return testAccount("alice"), nil
		},
	}
	fundings := &MockFundingStore{
		ListDepositRecordsFunc: func(ctx context.Context, username string) ([]*funding.DepositRecord, error) {
			return []*funding.DepositRecord{
				{TransactionID: "DEP-1", Amount: decimal.RequireFromString("100"), Status: funding.StatusSuccess, CreatedAt: now},
				{TransactionID: "DEP-2", Amount: decimal.RequireFromString("40"), Status: funding.StatusSuccess, CreatedAt: now.AddDate(0, 0, -3)},
				{TransactionID: "DEP-3", Amount: decimal.RequireFromString("75"), Status: funding.StatusReviewing, CreatedAt: now},
				{TransactionID: "DEP-4", Amount: decimal.RequireFromString("20"), Status: funding.StatusRejected, CreatedAt: now},
			}, nil
		},
	}

	view, err := newTestService(accounts, &MockEntryStore{}, &MockUserStore{}, fundings).DepositHistory(context.Background(), "alice")
	if err != nil {
		t.Fatalf("DepositHistory returned error: %v", err)
	}
	if len(view.Success) != 2 || len(view.Reviewing) != 1 || len(view.Rejected) != 1 {
		t.Fatalf("unexpected grouping: success=%d reviewing=%d rejected=%d",
			len(view.Success), len(view.Reviewing), len(view.Rejected))
	}
	if !view.TotalDeposits.Equal(decimal.RequireFromString("140")) {
		t.Fatalf("expected total deposits 140, got %s", view.TotalDeposits)
	}
	if !view.TodaysCommission.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("expected todays commission 100, got %s", view.TodaysCommission)
	}
}

func TestProfileTodaysCommissionCountsTodayOnly(t *testing.T) {
	now := time.Now()
	accounts := &MockAccountStore{
		GetFunc: func(ctx context.Context, username string) (*account.Account, error) {
			return testAccount("alice"), nil
		},
	}
	users := &MockUserStore{
		GetUserFunc: func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
			return testUser("alice"), nil
		},
	}
	fundings := &MockFundingStore{
		ListDepositRecordsFunc: func(ctx context.Context, username string) ([]*funding.DepositRecord, error) {
			return []*funding.DepositRecord{
				{Amount: decimal.RequireFromString("30"), Status: funding.StatusSuccess, CreatedAt: now},
				{Amount: decimal.RequireFromString("99"), Status: funding.StatusSuccess, CreatedAt: now.AddDate(0, 0, -1)},
				{Amount: decimal.RequireFromString("12"), Status: funding.StatusReviewing, CreatedAt: now},
			}, nil
		},
	}

	view, err := newTestService(accounts, &MockEntryStore{}, users, fundings).Profile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if !view.TodaysCommission.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("expected todays commission 30, got %s", view.TodaysCommission)
	}
}
