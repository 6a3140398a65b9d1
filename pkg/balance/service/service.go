// Package service assembles the user-facing balance views: profile, start
// page and deposit history. Every displayed balance passes through the
// freezing gate, so no surface can leak a real balance to a frozen user.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/accountstore"
	apperrors "github.com/optimahq/optima/pkg/app/errors"
	"github.com/optimahq/optima/pkg/config"
	"github.com/optimahq/optima/pkg/funding"
	"github.com/optimahq/optima/pkg/fundingstore"
	"github.com/optimahq/optima/pkg/gate"
	"github.com/optimahq/optima/pkg/optimization"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

// AccountStore is the narrow ledger interface for the balance service.
type AccountStore interface {
	Get(ctx context.Context, username string) (*account.Account, error)
	Create(ctx context.Context, acct *account.Account) error
}

// EntryStore is the narrow log interface for the balance service.
type EntryStore interface {
	ListByUsername(ctx context.Context, username string) ([]*optimization.Entry, error)
}

// UserStore is the narrow identity interface for the balance service.
type UserStore interface {
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
}

// FundingStore is the narrow funding interface for the balance service.
type FundingStore interface {
	GetDeposit(ctx context.Context, username string) (*funding.Deposit, error)
	ListDepositRecords(ctx context.Context, username string) ([]*funding.DepositRecord, error)
}

// ProfileView is the data behind the profile surface.
type ProfileView struct {
	Username         string
	DisplayBalance   decimal.Decimal
	Frozen           bool
	TodaysProfit     decimal.Decimal
	TotalProfits     decimal.Decimal
	FrozenAmount     decimal.Decimal
	VIPLevel         account.VIPLevel
	InvitationCode   string
	TodaysCommission decimal.Decimal
}

// StartPageView is the data behind the start page.
type StartPageView struct {
	Username             string
	DisplayBalance       decimal.Decimal
	Frozen               bool
	TodaysProfit         decimal.Decimal
	TotalProfits         decimal.Decimal
	FrozenAmount         decimal.Decimal
	VIPLevel             account.VIPLevel
	CompletedCount       int
	LatestCount          int
	MaxOptimizationCount int
	DepositAmount        decimal.Decimal
	FreezingPoint        int
	InvitationCode       string
}

// DepositView is the data behind the deposit history surface.
type DepositView struct {
	Username         string
	DisplayBalance   decimal.Decimal
	Frozen           bool
	TotalDeposits    decimal.Decimal
	TodaysCommission decimal.Decimal
	Reviewing        []*funding.DepositRecord
	Success          []*funding.DepositRecord
	Rejected         []*funding.DepositRecord
}

// Service defines the interface for the balance view logic
type Service interface {
	Profile(ctx context.Context, username string) (*ProfileView, error)
	StartPage(ctx context.Context, username string) (*StartPageView, error)
	DepositHistory(ctx context.Context, username string) (*DepositView, error)
}

type balanceService struct {
	accounts AccountStore
	entries  EntryStore
	users    UserStore
	fundings FundingStore
	cfg      *config.BusinessConfig
	logger   *zap.Logger
}

// NewService creates a new balance view service
func NewService(
	accounts AccountStore,
	entries EntryStore,
	users UserStore,
	fundings FundingStore,
	cfg *config.BusinessConfig,
	logger *zap.Logger,
) Service {
	return &balanceService{
		accounts: accounts,
		entries:  entries,
		users:    users,
		fundings: fundings,
		cfg:      cfg,
		logger:   logger,
	}
}

// loadAccount fetches the ledger, lazily seeding a default row for users that
// registered before their ledger was created.
func (s *balanceService) loadAccount(ctx context.Context, username string) (*account.Account, error) {
	acct, err := s.accounts.Get(ctx, username)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, accountstore.ErrAccountNotFound) {
		return nil, err
	}

	acct = account.New(username, s.cfg.DefaultDailyLimit)
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}
	s.logger.Info("seeded default ledger", zap.String("username", username))
	return acct, nil
}

// evaluateGate loads the inputs the freezing gate needs and evaluates it.
func (s *balanceService) evaluateGate(ctx context.Context, acct *account.Account, entries []*optimization.Entry) (gate.Result, decimal.Decimal, error) {
	latestCount := 0
	if len(entries) > 0 {
		latestCount = entries[0].Count
	}

	depositAmount := decimal.Zero
	dep, err := s.fundings.GetDeposit(ctx, acct.Username)
	switch {
	case err == nil:
		depositAmount = dep.Amount
	case errors.Is(err, fundingstore.ErrDepositNotFound):
	default:
		return gate.Result{}, decimal.Zero, err
	}

	verdict := gate.Evaluate(gate.Input{
		FreezingPoint: acct.EffectiveFreezingPoint(s.cfg.DefaultFreezingPoint),
		LatestCount:   latestCount,
		TotalBalance:  acct.TotalBalance,
		DepositAmount: depositAmount,
	})
	return verdict, depositAmount, nil
}

func (s *balanceService) Profile(ctx context.Context, username string) (*ProfileView, error) {
	acct, err := s.loadAccount(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load account")
	}

	usr, err := s.users.GetUser(ctx, userstore.WithUsername(username))
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "user not found")
		}
		return nil, apperrors.GeneralError(err, "failed to load user")
	}

	entries, err := s.entries.ListByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load entries")
	}

	verdict, _, err := s.evaluateGate(ctx, acct, entries)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to evaluate balance")
	}

	commission, err := s.todaysCommission(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to total deposits")
	}

	return &ProfileView{
		Username:         username,
		DisplayBalance:   verdict.DisplayBalance,
		Frozen:           verdict.Frozen,
		TodaysProfit:     acct.TodaysProfit,
		TotalProfits:     acct.TotalProfits,
		FrozenAmount:     acct.FrozenAmount,
		VIPLevel:         acct.EffectiveVIPLevel(),
		InvitationCode:   usr.InvitationCode,
		TodaysCommission: commission,
	}, nil
}

func (s *balanceService) StartPage(ctx context.Context, username string) (*StartPageView, error) {
	acct, err := s.loadAccount(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load account")
	}

	usr, err := s.users.GetUser(ctx, userstore.WithUsername(username))
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "user not found")
		}
		return nil, apperrors.GeneralError(err, "failed to load user")
	}

	entries, err := s.entries.ListByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load entries")
	}

	verdict, depositAmount, err := s.evaluateGate(ctx, acct, entries)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to evaluate balance")
	}

	completed := 0
	latestCount := 0
	for i, entry := range entries {
		if i == 0 {
			latestCount = entry.Count
		}
		if entry.Status == optimization.StatusCompleted {
			completed++
		}
	}

	return &StartPageView{
		Username:             username,
		DisplayBalance:       verdict.DisplayBalance,
		Frozen:               verdict.Frozen,
		TodaysProfit:         acct.TodaysProfit,
		TotalProfits:         acct.TotalProfits,
		FrozenAmount:         acct.FrozenAmount,
		VIPLevel:             acct.EffectiveVIPLevel(),
		CompletedCount:       completed,
		LatestCount:          latestCount,
		MaxOptimizationCount: acct.EffectiveVIPLevel().LifetimeCap(),
		DepositAmount:        depositAmount,
		FreezingPoint:        acct.EffectiveFreezingPoint(s.cfg.DefaultFreezingPoint),
		InvitationCode:       usr.InvitationCode,
	}, nil
}

func (s *balanceService) DepositHistory(ctx context.Context, username string) (*DepositView, error) {
	acct, err := s.loadAccount(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load account")
	}

	entries, err := s.entries.ListByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load entries")
	}

	verdict, _, err := s.evaluateGate(ctx, acct, entries)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to evaluate balance")
	}

	records, err := s.fundings.ListDepositRecords(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load deposit records")
	}

	view := &DepositView{
		Username:         username,
		DisplayBalance:   verdict.DisplayBalance,
		Frozen:           verdict.Frozen,
		TotalDeposits:    decimal.Zero,
		TodaysCommission: decimal.Zero,
	}
	midnight := startOfToday()
	for _, rec := range records {
		switch rec.Status {
		case funding.StatusReviewing:
			view.Reviewing = append(view.Reviewing, rec)
		case funding.StatusSuccess:
			view.Success = append(view.Success, rec)
			view.TotalDeposits = view.TotalDeposits.Add(rec.Amount)
			if !rec.CreatedAt.Before(midnight) {
				view.TodaysCommission = view.TodaysCommission.Add(rec.Amount)
			}
		case funding.StatusRejected:
			view.Rejected = append(view.Rejected, rec)
		}
	}

	return view, nil
}

func (s *balanceService) todaysCommission(ctx context.Context, username string) (decimal.Decimal, error) {
	records, err := s.fundings.ListDepositRecords(ctx, username)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	midnight := startOfToday()
	for _, rec := range records {
		if rec.Status == funding.StatusSuccess && !rec.CreatedAt.Before(midnight) {
			total = total.Add(rec.Amount)
		}
	}
	return total, nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
