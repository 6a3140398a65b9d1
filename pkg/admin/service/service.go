// Package service implements the operator surface: per-user tuning of the
// freezing point, limits, balances and reward overrides, reporting, and the
// destructive maintenance operations.
package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/optimahq/optima/internal/metrics"
	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/accountstore"
	apperrors "github.com/optimahq/optima/pkg/app/errors"
	"github.com/optimahq/optima/pkg/config"
	"github.com/optimahq/optima/pkg/funding"
	"github.com/optimahq/optima/pkg/fundingstore"
	"github.com/optimahq/optima/pkg/optimization"
	"github.com/optimahq/optima/pkg/optimizationstore"
	"github.com/optimahq/optima/pkg/reward"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

var (
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrResetLimitReached is returned when a user's optimization count has
	// already been reset the maximum number of times.
	ErrResetLimitReached = errors.New("optimization count reset limit reached")
)

// maxCountResets bounds how many times one user's optimization count may be
// reset before the operation is refused.
const maxCountResets = 3

// Placeholder order written by a count reset. The entry restarts the count at
// zero without touching any balance.
const (
	resetEntryImage = "images/msithin15.6.jpg"
	resetEntryName  = `MSI Thin 15.6"`
)

// AccountStore is the ledger surface the admin service manages.
type AccountStore interface {
	Create(ctx context.Context, acct *account.Account) error
	Get(ctx context.Context, username string) (*account.Account, error)
	Update(ctx context.Context, acct *account.Account) error
	ListWithFreezingPoint(ctx context.Context) ([]*account.Account, error)
	ResetTodaysProfits(ctx context.Context) (int64, error)
	DeleteByUsername(ctx context.Context, username string) error
}

// EntryStore is the optimization log surface the admin service manages.
type EntryStore interface {
	Insert(ctx context.Context, entry *optimization.Entry) error
	FindLatest(ctx context.Context, username string) (*optimization.Entry, error)
	CountByUsername(ctx context.Context, username string) (int, error)
	DeleteByUsername(ctx context.Context, username string) error
}

// ActivityStore tracks optimization-count reset activity.
type ActivityStore interface {
	GetResetCount(ctx context.Context, username string) (int, error)
	IncrementResetCount(ctx context.Context, username string) (int, error)
	ListResetActivity(ctx context.Context) ([]*optimizationstore.ResetActivity, error)
	ClearResetCount(ctx context.Context, username string) error
	ClearAllResetCounts(ctx context.Context) error
}

// UserStore is the identity surface the admin service manages.
type UserStore interface {
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	UpdateStatus(ctx context.Context, username string, status user.Status) error
	ListUsers(ctx context.Context) ([]*user.User, error)
	CountByStatus(ctx context.Context) (*userstore.StatusCounts, error)
	DeleteUser(ctx context.Context, username string) error
	CreateReferralCode(ctx context.Context, code *user.ReferralCode) error
	ListReferralCodes(ctx context.Context) ([]*user.ReferralCode, error)
	DeleteReferralCode(ctx context.Context, id int64) error
}

// RewardStore manages per-user reward overrides.
type RewardStore interface {
	UpsertFrozenReward(ctx context.Context, rw *reward.FrozenReward) error
	UpsertPendingReward(ctx context.Context, rw *reward.PendingReward) error
	DeleteByUsername(ctx context.Context, username string) error
}

// FundingStore manages deposits and withdrawal review.
type FundingStore interface {
	UpsertDeposit(ctx context.Context, dep *funding.Deposit) error
	InsertDepositRecord(ctx context.Context, rec *funding.DepositRecord) error
	ListWithdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error)
	UpdateWithdrawalStatus(ctx context.Context, id int64, status funding.Status) error
	DeleteWithdrawal(ctx context.Context, id int64) error
	DeleteByUsername(ctx context.Context, username string) error
}

// EditUserRequest updates any subset of a user's tunables. Nil fields are
// left untouched.
type EditUserRequest struct {
	Username string

	TotalBalance  *decimal.Decimal
	VIPLevel      *account.VIPLevel
	FreezingPoint *int
	DailyLimit    *int

	DepositAmount *decimal.Decimal

	PendingRewardUSDC   *decimal.Decimal
	PendingRewardProfit *decimal.Decimal
	FrozenRewardUSDC    *decimal.Decimal
	FrozenRewardProfit  *decimal.Decimal
}

// UserStatsRow is one user in the stats listing.
type UserStatsRow struct {
	Username          string
	Status            user.Status
	OptimizationCount int
	TotalBalance      decimal.Decimal
	VIPLevel          account.VIPLevel
}

// UserStats is the admin dashboard summary.
type UserStats struct {
	Counts *userstore.StatusCounts
	Users  []*UserStatsRow
}

// FrozenAccountRow is one row of the frozen-accounts report.
type FrozenAccountRow struct {
	Username      string
	FreezingPoint int
	LatestCount   int
	TotalBalance  decimal.Decimal
}

// Service defines the interface for the operator surface
type Service interface {
	EditUser(ctx context.Context, req *EditUserRequest) error
	SetUserStatus(ctx context.Context, username string, status user.Status) error
	DeleteUser(ctx context.Context, username string) error
	UserStats(ctx context.Context) (*UserStats, error)
	FrozenAccounts(ctx context.Context) ([]*FrozenAccountRow, error)

	ResetOptimizationCount(ctx context.Context, username string) error
	ResetActivity(ctx context.Context) ([]*optimizationstore.ResetActivity, error)
	ClearResetCount(ctx context.Context, username string) error
	ClearAllResetCounts(ctx context.Context) error

	CreateReferralCode(ctx context.Context, createdBy string) (*user.ReferralCode, error)
	ReferralCodes(ctx context.Context) ([]*user.ReferralCode, error)
	DeleteReferralCode(ctx context.Context, id int64) error

	Withdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error)
	SetWithdrawalStatus(ctx context.Context, id int64, status funding.Status) error
	DeleteWithdrawal(ctx context.Context, id int64) error

	ResetAllProfits(ctx context.Context) (int64, error)
}

type adminService struct {
	accounts AccountStore
	entries  EntryStore
	activity ActivityStore
	users    UserStore
	rewards  RewardStore
	fundings FundingStore
	cfg      *config.BusinessConfig
	logger   *zap.Logger
}

// NewService creates a new admin service
func NewService(
	accounts AccountStore,
	entries EntryStore,
	activity ActivityStore,
	users UserStore,
	rewards RewardStore,
	fundings FundingStore,
	cfg *config.BusinessConfig,
	logger *zap.Logger,
) Service {
	return &adminService{
		accounts: accounts,
		entries:  entries,
		activity: activity,
		users:    users,
		rewards:  rewards,
		fundings: fundings,
		cfg:      cfg,
		logger:   logger,
	}
}

// EditUser applies any subset of tunables in one call. The ledger row is
// created when missing so operators can fund users that never opened the app.
func (s *adminService) EditUser(ctx context.Context, req *EditUserRequest) error {
	if req.Username == "" {
		return apperrors.BadRequestError(nil, "username is required")
	}
	if req.VIPLevel != nil && !req.VIPLevel.Valid() {
		return apperrors.BadRequestError(nil, "invalid VIP level")
	}

	if err := s.applyAccountEdits(ctx, req); err != nil {
		return err
	}

	if req.DepositAmount != nil {
		dep := &funding.Deposit{Username: req.Username, Amount: req.DepositAmount.Round(2)}
		if err := s.fundings.UpsertDeposit(ctx, dep); err != nil {
			return apperrors.GeneralError(err, "failed to upsert deposit")
		}
		// Operator-set deposits show up in the user's deposit history.
		rec := funding.NewDepositRecord(req.Username, dep.Amount)
		rec.Status = funding.StatusSuccess
		if err := s.fundings.InsertDepositRecord(ctx, rec); err != nil {
			return apperrors.GeneralError(err, "failed to record deposit")
		}
	}

	if req.PendingRewardUSDC != nil || req.PendingRewardProfit != nil {
		if req.PendingRewardUSDC == nil || req.PendingRewardProfit == nil {
			return apperrors.BadRequestError(nil, "pending reward needs both amounts")
		}
		rw := &reward.PendingReward{
			Username:     req.Username,
			USDCAmount:   req.PendingRewardUSDC.Round(2),
			ProfitAmount: req.PendingRewardProfit.Round(2),
		}
		if err := s.rewards.UpsertPendingReward(ctx, rw); err != nil {
			return apperrors.GeneralError(err, "failed to upsert pending reward")
		}
	}

	if req.FrozenRewardUSDC != nil || req.FrozenRewardProfit != nil {
		if req.FrozenRewardUSDC == nil || req.FrozenRewardProfit == nil {
			return apperrors.BadRequestError(nil, "frozen reward needs both amounts")
		}
		rw := &reward.FrozenReward{
			Username:     req.Username,
			USDCAmount:   req.FrozenRewardUSDC.Round(2),
			ProfitAmount: req.FrozenRewardProfit.Round(2),
		}
		if err := s.rewards.UpsertFrozenReward(ctx, rw); err != nil {
			return apperrors.GeneralError(err, "failed to upsert frozen reward")
		}
	}

	s.logger.Info("user edited", zap.String("username", req.Username))
	return nil
}

func (s *adminService) applyAccountEdits(ctx context.Context, req *EditUserRequest) error {
	if req.TotalBalance == nil && req.VIPLevel == nil && req.FreezingPoint == nil && req.DailyLimit == nil {
		return nil
	}

	acct, err := s.accounts.Get(ctx, req.Username)
	if errors.Is(err, accountstore.ErrAccountNotFound) {
		acct = account.New(req.Username, s.cfg.SignupDailyLimit)
		if err := s.accounts.Create(ctx, acct); err != nil {
			return apperrors.GeneralError(err, "failed to create account")
		}
	} else if err != nil {
		return apperrors.GeneralError(err, "failed to load account")
	}

	if req.TotalBalance != nil {
		acct.TotalBalance = req.TotalBalance.Round(2)
	}
	if req.VIPLevel != nil {
		acct.VIPLevel = *req.VIPLevel
	}
	if req.FreezingPoint != nil {
		acct.SetFreezingPoint(*req.FreezingPoint)
	}
	if req.DailyLimit != nil {
		acct.DailyLimit = *req.DailyLimit
	}

	if err := s.accounts.Update(ctx, acct); err != nil {
		if errors.Is(err, accountstore.ErrVersionConflict) {
			return apperrors.ConflictError(err, "account changed concurrently, retry")
		}
		return apperrors.GeneralError(err, "failed to update account")
	}
	return nil
}

func (s *adminService) SetUserStatus(ctx context.Context, username string, status user.Status) error {
	if !status.Valid() {
		return apperrors.BadRequestError(nil, "invalid status")
	}
	if err := s.users.UpdateStatus(ctx, username, status); err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return apperrors.ResourceNotFoundError(ErrUserNotFound, "user not found")
		}
		return apperrors.GeneralError(err, "failed to update status")
	}
	return nil
}

// DeleteUser removes the user and every record they own. Partial failures
// leave orphaned rows behind, so each step is logged.
func (s *adminService) DeleteUser(ctx context.Context, username string) error {
	if _, err := s.users.GetUser(ctx, userstore.WithUsername(username)); err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return apperrors.ResourceNotFoundError(ErrUserNotFound, "user not found")
		}
		return apperrors.GeneralError(err, "failed to load user")
	}

	steps := []struct {
		name string
		fn   func(context.Context, string) error
	}{
		{"entries", s.entries.DeleteByUsername},
		{"rewards", s.rewards.DeleteByUsername},
		{"funding", s.fundings.DeleteByUsername},
		{"account", s.accounts.DeleteByUsername},
		{"activity", s.activity.ClearResetCount},
		{"user", s.users.DeleteUser},
	}
	for _, step := range steps {
		if err := step.fn(ctx, username); err != nil {
			s.logger.Error("cascade delete step failed",
				zap.String("username", username),
				zap.String("step", step.name),
				zap.Error(err),
			)
			return apperrors.GeneralError(err, "failed to delete "+step.name)
		}
	}

	s.logger.Info("user deleted", zap.String("username", username))
	return nil
}

func (s *adminService) UserStats(ctx context.Context) (*UserStats, error) {
	counts, err := s.users.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to count users")
	}

	usrs, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to list users")
	}

	rows := make([]*UserStatsRow, 0, len(usrs))
	for _, usr := range usrs {
		row := &UserStatsRow{Username: usr.Username, Status: usr.Status, VIPLevel: account.VIP1}

		count, err := s.entries.CountByUsername(ctx, usr.Username)
		if err != nil {
			return nil, apperrors.GeneralError(err, "failed to count entries")
		}
		row.OptimizationCount = count

		acct, err := s.accounts.Get(ctx, usr.Username)
		switch {
		case err == nil:
			row.TotalBalance = acct.TotalBalance
			row.VIPLevel = acct.EffectiveVIPLevel()
		case errors.Is(err, accountstore.ErrAccountNotFound):
			row.TotalBalance = decimal.Zero
		default:
			return nil, apperrors.GeneralError(err, "failed to load account")
		}

		rows = append(rows, row)
	}

	return &UserStats{Counts: counts, Users: rows}, nil
}

// FrozenAccounts reports every account whose latest optimization count has
// reached its explicit freezing threshold.
func (s *adminService) FrozenAccounts(ctx context.Context) ([]*FrozenAccountRow, error) {
	accts, err := s.accounts.ListWithFreezingPoint(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to list accounts")
	}

	rows := make([]*FrozenAccountRow, 0)
	for _, acct := range accts {
		fp := acct.EffectiveFreezingPoint(s.cfg.DefaultFreezingPoint)
		if fp <= 0 {
			continue
		}

		latest, err := s.entries.FindLatest(ctx, acct.Username)
		if errors.Is(err, optimizationstore.ErrEntryNotFound) {
			continue
		}
		if err != nil {
			return nil, apperrors.GeneralError(err, "failed to load latest entry")
		}

		if latest.Count >= fp {
			rows = append(rows, &FrozenAccountRow{
				Username:      acct.Username,
				FreezingPoint: fp,
				LatestCount:   latest.Count,
				TotalBalance:  acct.TotalBalance,
			})
		}
	}
	return rows, nil
}

// ResetOptimizationCount restarts a user's count by appending a completed
// placeholder order with count zero. Refused after maxCountResets resets.
func (s *adminService) ResetOptimizationCount(ctx context.Context, username string) error {
	if _, err := s.users.GetUser(ctx, userstore.WithUsername(username)); err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return apperrors.ResourceNotFoundError(ErrUserNotFound, "user not found")
		}
		return apperrors.GeneralError(err, "failed to load user")
	}

	resets, err := s.activity.GetResetCount(ctx, username)
	if err != nil {
		return apperrors.GeneralError(err, "failed to load reset count")
	}
	if resets >= maxCountResets {
		return apperrors.ForbiddenError(ErrResetLimitReached, "reset limit reached for this user")
	}

	entry := &optimization.Entry{
		Username:      username,
		SelectedImage: resetEntryImage,
		ImageName:     resetEntryName,
		USDCAmount:    decimal.Zero,
		ProfitAmount:  decimal.Zero,
		Count:         0,
		Status:        optimization.StatusCompleted,
	}
	if err := s.entries.Insert(ctx, entry); err != nil {
		return apperrors.GeneralError(err, "failed to insert reset entry")
	}

	if _, err := s.activity.IncrementResetCount(ctx, username); err != nil {
		return apperrors.GeneralError(err, "failed to record reset")
	}

	s.logger.Info("optimization count reset",
		zap.String("username", username),
		zap.Int("previous_resets", resets),
	)
	return nil
}

func (s *adminService) ResetActivity(ctx context.Context) ([]*optimizationstore.ResetActivity, error) {
	acts, err := s.activity.ListResetActivity(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to list reset activity")
	}
	return acts, nil
}

func (s *adminService) ClearResetCount(ctx context.Context, username string) error {
	if err := s.activity.ClearResetCount(ctx, username); err != nil {
		return apperrors.GeneralError(err, "failed to clear reset count")
	}
	return nil
}

func (s *adminService) ClearAllResetCounts(ctx context.Context) error {
	if err := s.activity.ClearAllResetCounts(ctx); err != nil {
		return apperrors.GeneralError(err, "failed to clear reset counts")
	}
	return nil
}

func (s *adminService) CreateReferralCode(ctx context.Context, createdBy string) (*user.ReferralCode, error) {
	code, err := user.NewInvitationCode()
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to generate code")
	}

	rc := &user.ReferralCode{Code: code, CreatedBy: createdBy}
	if err := s.users.CreateReferralCode(ctx, rc); err != nil {
		return nil, apperrors.GeneralError(err, "failed to create referral code")
	}
	return rc, nil
}

func (s *adminService) ReferralCodes(ctx context.Context) ([]*user.ReferralCode, error) {
	codes, err := s.users.ListReferralCodes(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to list referral codes")
	}
	return codes, nil
}

func (s *adminService) DeleteReferralCode(ctx context.Context, id int64) error {
	if err := s.users.DeleteReferralCode(ctx, id); err != nil {
		if errors.Is(err, userstore.ErrCodeNotFound) {
			return apperrors.ResourceNotFoundError(err, "referral code not found")
		}
		return apperrors.GeneralError(err, "failed to delete referral code")
	}
	return nil
}

func (s *adminService) Withdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error) {
	wds, err := s.fundings.ListWithdrawals(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to list withdrawals")
	}
	return wds, nil
}

func (s *adminService) SetWithdrawalStatus(ctx context.Context, id int64, status funding.Status) error {
	if !status.Valid() {
		return apperrors.BadRequestError(nil, "invalid status")
	}
	if err := s.fundings.UpdateWithdrawalStatus(ctx, id, status); err != nil {
		if errors.Is(err, fundingstore.ErrWithdrawalNotFound) {
			return apperrors.ResourceNotFoundError(err, "withdrawal not found")
		}
		return apperrors.GeneralError(err, "failed to update withdrawal")
	}
	return nil
}

func (s *adminService) DeleteWithdrawal(ctx context.Context, id int64) error {
	if err := s.fundings.DeleteWithdrawal(ctx, id); err != nil {
		if errors.Is(err, fundingstore.ErrWithdrawalNotFound) {
			return apperrors.ResourceNotFoundError(err, "withdrawal not found")
		}
		return apperrors.GeneralError(err, "failed to delete withdrawal")
	}
	return nil
}

// ResetAllProfits zeroes todaysProfit on every ledger. Shared with the daily
// cron job; exposed here for manual runs.
func (s *adminService) ResetAllProfits(ctx context.Context) (int64, error) {
	affected, err := s.accounts.ResetTodaysProfits(ctx)
	if err != nil {
		metrics.ProfitResetsTotal.WithLabelValues("error").Inc()
		return 0, apperrors.GeneralError(err, "failed to reset profits")
	}

	metrics.ProfitResetsTotal.WithLabelValues("success").Inc()
	s.logger.Info("todays profits reset", zap.Int64("accounts", affected))
	return affected, nil
}
