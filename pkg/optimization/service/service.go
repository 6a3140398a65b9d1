// Package service implements the optimization workflows: order submission,
// history settlement and progress updates.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/optimahq/optima/internal/metrics"
	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/accountstore"
	apperrors "github.com/optimahq/optima/pkg/app/errors"
	"github.com/optimahq/optima/pkg/config"
	"github.com/optimahq/optima/pkg/gate"
	"github.com/optimahq/optima/pkg/optimization"
	"github.com/optimahq/optima/pkg/optimizationstore"
	"github.com/optimahq/optima/pkg/reward"
	"github.com/optimahq/optima/pkg/rewardstore"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

var (
	ErrAccountNotFound          = errors.New("account data not found")
	ErrAccountRestricted        = errors.New("account is restricted from optimizing")
	ErrPendingOrderExists       = errors.New("a pending order must be settled first")
	ErrOptimizationLimitReached = errors.New("lifetime optimization limit reached")
	ErrDailyLimitReached        = errors.New("daily optimization limit reached")
	ErrNothingToSettle          = errors.New("no outstanding entries to settle")
	ErrFrozenRedirect           = errors.New("account is frozen")
	ErrSubmissionWrite          = errors.New("failed to record submission")
	ErrFreezingLimitReached     = errors.New("freezing limit reached")
)

// AccountStore is the narrow ledger interface for the optimization service.
type AccountStore interface {
	Get(ctx context.Context, username string) (*account.Account, error)
	Update(ctx context.Context, acct *account.Account) error
}

// EntryStore is the narrow log interface for the optimization service.
type EntryStore interface {
	Insert(ctx context.Context, entry *optimization.Entry) error
	InsertPair(ctx context.Context, first, second *optimization.Entry) error
	FindLatest(ctx context.Context, username string) (*optimization.Entry, error)
	ListOutstanding(ctx context.Context, username string) ([]*optimization.Entry, error)
	ListByUsername(ctx context.Context, username string) ([]*optimization.Entry, error)
	CountSince(ctx context.Context, username string, cutoff time.Time) (int, error)
	MarkCompleted(ctx context.Context, ids []int64) error
	MarkLatestPendingCompleted(ctx context.Context, username string) error
}

// UserStore is the narrow identity interface for the optimization service.
type UserStore interface {
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
}

// RewardStore is the narrow reward override interface for the optimization service.
type RewardStore interface {
	GetFrozenReward(ctx context.Context, username string) (*reward.FrozenReward, error)
	GetPendingReward(ctx context.Context, username string) (*reward.PendingReward, error)
}

// SubmitRequest is one optimization order submission.
type SubmitRequest struct {
	Username      string
	SelectedImage string
	ImageName     string
	USDCAmount    decimal.Decimal
	ProfitAmount  decimal.Decimal
	// ClaimedCount is the optimization count reported by the client. It is
	// recorded on the entry and compared against the freezing threshold.
	ClaimedCount int
}

// SubmitResult reports what a submission wrote.
type SubmitResult struct {
	Entry *optimization.Entry
	// Frozen is set when the submission tripped the freezing threshold and a
	// frozen entry was written alongside the pending one.
	Frozen bool
}

// SettleResult reports what a settlement credited.
type SettleResult struct {
	SettledCount int
	TotalProfit  decimal.Decimal
	Account      *account.Account
}

// ProgressRequest credits incremental progress to a user's ledger.
type ProgressRequest struct {
	Username     string
	ProfitDelta  decimal.Decimal
	BalanceDelta decimal.Decimal
}

// Service defines the interface for the optimization business logic
type Service interface {
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error)
	Settle(ctx context.Context, username string) (*SettleResult, error)
	ApplyProgress(ctx context.Context, req *ProgressRequest) (*account.Account, error)
	History(ctx context.Context, username string) ([]*optimization.Entry, error)
}

type optimizationService struct {
	accounts AccountStore
	entries  EntryStore
	users    UserStore
	rewards  RewardStore
	cfg      *config.BusinessConfig
	logger   *zap.Logger
}

// NewService creates a new optimization service
func NewService(
	accounts AccountStore,
	entries EntryStore,
	users UserStore,
	rewards RewardStore,
	cfg *config.BusinessConfig,
	logger *zap.Logger,
) Service {
	return &optimizationService{
		accounts: accounts,
		entries:  entries,
		users:    users,
		rewards:  rewards,
		cfg:      cfg,
		logger:   logger,
	}
}

// Submit validates and records one optimization order.
//
// The submission checks run in a fixed order: account existence, account
// status, outstanding order, freezing threshold, lifetime cap, daily cap.
// A submission that reaches the freezing threshold writes the pending entry
// and the frozen entry in a single transaction.
func (s *optimizationService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	acct, err := s.accounts.Get(ctx, req.Username)
	if err != nil {
		if isNotFound(err) {
			metrics.SubmissionsTotal.WithLabelValues("account_not_found").Inc()
			return nil, apperrors.BadRequestError(ErrAccountNotFound, "user data not found")
		}
		return nil, apperrors.GeneralError(err, "failed to load account")
	}

	usr, err := s.users.GetUser(ctx, userstore.WithUsername(req.Username))
	if err != nil {
		if isNotFound(err) {
			metrics.SubmissionsTotal.WithLabelValues("account_not_found").Inc()
			return nil, apperrors.BadRequestError(ErrAccountNotFound, "user not found")
		}
		return nil, apperrors.GeneralError(err, "failed to load user")
	}
	if usr.Status.Restricted() {
		metrics.SubmissionsTotal.WithLabelValues("restricted").Inc()
		return nil, apperrors.ForbiddenError(ErrAccountRestricted,
			"you can not optimize at the moment, please contact customer service")
	}

	latestCount := 0
	latest, err := s.entries.FindLatest(ctx, req.Username)
	switch {
	case err == nil:
		if latest.Status.Outstanding() {
			metrics.SubmissionsTotal.WithLabelValues("pending_exists").Inc()
			return nil, apperrors.ConflictError(ErrPendingOrderExists,
				"settle your outstanding order before submitting a new one")
		}
		latestCount = latest.Count
	case isNotFound(err):
		// First submission.
	default:
		return nil, apperrors.GeneralError(err, "failed to load latest entry")
	}

	freezingPoint := acct.EffectiveFreezingPoint(s.cfg.DefaultFreezingPoint)
	if freezingPoint > 0 && req.ClaimedCount >= freezingPoint {
		return s.submitFrozenPair(ctx, req)
	}

	if latestCount >= acct.EffectiveVIPLevel().LifetimeCap() {
		metrics.SubmissionsTotal.WithLabelValues("lifetime_limit").Inc()
		return nil, apperrors.ForbiddenError(ErrOptimizationLimitReached,
			fmt.Sprintf("optimization limit reached for %s", acct.EffectiveVIPLevel()))
	}

	todayCount, err := s.entries.CountSince(ctx, req.Username, startOfToday())
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to count todays entries")
	}
	if todayCount >= acct.EffectiveDailyLimit(s.cfg.DefaultDailyLimit) {
		metrics.SubmissionsTotal.WithLabelValues("daily_limit").Inc()
		return nil, apperrors.ForbiddenError(ErrDailyLimitReached,
			"daily optimization limit reached")
	}

	entry := optimization.NewPending(req.Username, req.SelectedImage, req.ImageName,
		req.USDCAmount, req.ProfitAmount, req.ClaimedCount)
	if err := s.entries.Insert(ctx, entry); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("write_error").Inc()
		return nil, apperrors.GeneralError(errors.Join(ErrSubmissionWrite, err),
			"failed to record submission")
	}

	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	return &SubmitResult{Entry: entry}, nil
}

// submitFrozenPair writes the pending entry plus the synthetic frozen entry
// atomically when a submission reaches the freezing threshold.
func (s *optimizationService) submitFrozenPair(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	pendingUSDC := decimal.NewFromFloat(s.cfg.PendingRewardUSDC)
	pendingProfit := decimal.NewFromFloat(s.cfg.PendingRewardProfit)
	if override, err := s.rewards.GetPendingReward(ctx, req.Username); err == nil {
		pendingUSDC = override.USDCAmount
		pendingProfit = override.ProfitAmount
	} else if !isNotFound(err) {
		return nil, apperrors.GeneralError(err, "failed to load pending reward")
	}

	frozenUSDC := decimal.NewFromFloat(s.cfg.FrozenRewardUSDC)
	frozenProfit := decimal.NewFromFloat(s.cfg.FrozenRewardProfit)
	if override, err := s.rewards.GetFrozenReward(ctx, req.Username); err == nil {
		frozenUSDC = override.USDCAmount
		frozenProfit = override.ProfitAmount
	} else if !isNotFound(err) {
		return nil, apperrors.GeneralError(err, "failed to load frozen reward")
	}

	pending := optimization.NewPending(req.Username, req.SelectedImage, req.ImageName,
		pendingUSDC, pendingProfit, req.ClaimedCount)

	item := optimization.RandomCatalogItem()
	frozen := &optimization.Entry{
		Username:      req.Username,
		SelectedImage: item.Image,
		ImageName:     item.Name,
		USDCAmount:    frozenUSDC,
		ProfitAmount:  frozenProfit,
		Count:         req.ClaimedCount + 1,
		Status:        optimization.StatusFrozen,
	}

	if err := s.entries.InsertPair(ctx, pending, frozen); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("write_error").Inc()
		return nil, apperrors.GeneralError(errors.Join(ErrSubmissionWrite, err),
			"failed to record submission")
	}

	metrics.SubmissionsTotal.WithLabelValues("frozen").Inc()
	s.logger.Info("submission tripped freezing threshold",
		zap.String("username", req.Username),
		zap.Int("claimed_count", req.ClaimedCount),
	)
	return &SubmitResult{Entry: pending, Frozen: true}, nil
}

// Settle credits every outstanding entry's profit to the user's ledger and
// marks the entries completed. Settling with nothing outstanding fails
// without touching the ledger, so repeated calls cannot double-credit.
func (s *optimizationService) Settle(ctx context.Context, username string) (*SettleResult, error) {
	outstanding, err := s.entries.ListOutstanding(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load outstanding entries")
	}
	if len(outstanding) == 0 {
		metrics.SettlementsTotal.WithLabelValues("nothing_to_settle").Inc()
		return nil, apperrors.BadRequestError(ErrNothingToSettle, "no entries to settle")
	}

	acct, err := s.accounts.Get(ctx, username)
	if err != nil {
		if isNotFound(err) {
			metrics.SettlementsTotal.WithLabelValues("account_not_found").Inc()
			return nil, apperrors.BadRequestError(ErrAccountNotFound, "user data not found")
		}
		return nil, apperrors.GeneralError(err, "failed to load account")
	}

	// Re-check the gate on the newest outstanding entry. A frozen user is
	// redirected without settling anything.
	freezingPoint := acct.EffectiveFreezingPoint(s.cfg.DefaultFreezingPoint)
	newest := outstanding[len(outstanding)-1]
	verdict := gate.Evaluate(gate.Input{
		FreezingPoint: freezingPoint,
		LatestCount:   newest.Count,
	})
	if verdict.Frozen {
		metrics.SettlementsTotal.WithLabelValues("frozen").Inc()
		metrics.FrozenGateTrips.Inc()
		return nil, apperrors.LockedError(ErrFrozenRedirect, "account is frozen")
	}

	totalProfit := decimal.Zero
	ids := make([]int64, 0, len(outstanding))
	for _, entry := range outstanding {
		totalProfit = totalProfit.Add(entry.ProfitAmount)
		ids = append(ids, entry.ID)
	}

	if err := s.entries.MarkCompleted(ctx, ids); err != nil {
		return nil, apperrors.GeneralError(err, "failed to complete entries")
	}

	// The entries are completed at this point, so the credit must not be
	// dropped on a version conflict. Re-read and retry the conditional write
	// before giving up.
	acct, err = s.creditWithRetry(ctx, acct, totalProfit, totalProfit)
	if err != nil {
		if isVersionConflict(err) {
			metrics.SettlementsTotal.WithLabelValues("conflict").Inc()
			return nil, apperrors.ConflictError(err, "account was modified concurrently, retry")
		}
		return nil, apperrors.GeneralError(err, "failed to credit account")
	}

	metrics.SettlementsTotal.WithLabelValues("settled").Inc()
	profitFloat, _ := totalProfit.Float64()
	metrics.SettledProfit.WithLabelValues("settled").Observe(profitFloat)

	return &SettleResult{
		SettledCount: len(outstanding),
		TotalProfit:  totalProfit,
		Account:      acct,
	}, nil
}

// ApplyProgress credits an incremental profit and balance delta to the ledger
// unless the freezing gate blocks the user.
func (s *optimizationService) ApplyProgress(ctx context.Context, req *ProgressRequest) (*account.Account, error) {
	acct, err := s.accounts.Get(ctx, req.Username)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.BadRequestError(ErrAccountNotFound, "user data not found")
		}
		return nil, apperrors.GeneralError(err, "failed to load account")
	}

	latestCount := 0
	latest, err := s.entries.FindLatest(ctx, req.Username)
	switch {
	case err == nil:
		latestCount = latest.Count
	case isNotFound(err):
	default:
		return nil, apperrors.GeneralError(err, "failed to load latest entry")
	}

	freezingPoint := acct.EffectiveFreezingPoint(s.cfg.DefaultFreezingPoint)
	if freezingPoint > 0 && latestCount >= freezingPoint {
		metrics.FrozenGateTrips.Inc()
		return nil, apperrors.LockedError(ErrFreezingLimitReached, "freezing limit reached")
	}

	acct.Credit(req.ProfitDelta, req.BalanceDelta)
	if err := s.accounts.Update(ctx, acct); err != nil {
		if isVersionConflict(err) {
			return nil, apperrors.ConflictError(err, "account was modified concurrently, retry")
		}
		return nil, apperrors.GeneralError(err, "failed to credit account")
	}

	// Completing the newest pending entry is best effort; the credit above
	// stands even if this fails.
	if err := s.entries.MarkLatestPendingCompleted(ctx, req.Username); err != nil {
		s.logger.Warn("failed to complete latest pending entry",
			zap.String("username", req.Username),
			zap.Error(err),
		)
	}

	return acct, nil
}

// History returns the user's optimization log, newest first.
func (s *optimizationService) History(ctx context.Context, username string) ([]*optimization.Entry, error) {
	entries, err := s.entries.ListByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load history")
	}
	return entries, nil
}

// startOfToday returns local midnight.
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// creditRetryAttempts bounds the conditional-write retries in Settle.
const creditRetryAttempts = 3

// creditWithRetry applies the profit and balance credit through the
// version-checked update, re-reading the account and reapplying the credit
// while concurrent writers keep bumping the version.
func (s *optimizationService) creditWithRetry(ctx context.Context, acct *account.Account, profit, balance decimal.Decimal) (*account.Account, error) {
	acct.Credit(profit, balance)
	err := s.accounts.Update(ctx, acct)

	for attempt := 1; attempt < creditRetryAttempts && isVersionConflict(err); attempt++ {
		s.logger.Warn("retrying settlement credit after version conflict",
			zap.String("username", acct.Username),
			zap.Int("attempt", attempt),
		)

		fresh, getErr := s.accounts.Get(ctx, acct.Username)
		if getErr != nil {
			return nil, getErr
		}
		fresh.Credit(profit, balance)
		acct = fresh
		err = s.accounts.Update(ctx, acct)
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, userstore.ErrUserNotFound) ||
		errors.Is(err, optimizationstore.ErrEntryNotFound) ||
		errors.Is(err, rewardstore.ErrRewardNotFound) ||
		errors.Is(err, accountstore.ErrAccountNotFound)
}

func isVersionConflict(err error) bool {
	return errors.Is(err, accountstore.ErrVersionConflict)
}
