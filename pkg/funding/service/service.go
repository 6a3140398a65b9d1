// Package service implements the user-facing funding operations: withdrawal
// requests and saved withdrawal wallets. A withdrawal never moves money by
// itself; it opens a reviewing-state request an operator settles out of band.
package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/optimahq/optima/internal/metrics"
	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/accountstore"
	apperrors "github.com/optimahq/optima/pkg/app/errors"
	"github.com/optimahq/optima/pkg/config"
	"github.com/optimahq/optima/pkg/funding"
	"github.com/optimahq/optima/pkg/fundingstore"
	"github.com/optimahq/optima/pkg/gate"
	"github.com/optimahq/optima/pkg/optimization"
	"github.com/optimahq/optima/pkg/optimizationstore"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

var (
	// ErrAccountNotFound is returned when no ledger exists for the user.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountFrozen is returned when the freezing gate blocks the withdrawal.
	ErrAccountFrozen = errors.New("account is frozen")
	// ErrWrongWithdrawalPassword is returned on a withdrawal password mismatch.
	ErrWrongWithdrawalPassword = errors.New("wrong withdrawal password")
	// ErrInsufficientBalance is returned when the amount exceeds the display balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidAmount is returned for zero or negative withdrawal amounts.
	ErrInvalidAmount = errors.New("withdrawal amount must be positive")
)

// AccountStore is the narrow ledger interface for the funding service.
type AccountStore interface {
	Get(ctx context.Context, username string) (*account.Account, error)
}

// EntryStore resolves the latest optimization count for the freezing gate.
type EntryStore interface {
	FindLatest(ctx context.Context, username string) (*optimization.Entry, error)
}

// UserStore verifies the withdrawal password.
type UserStore interface {
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
}

// FundingStore persists withdrawals and wallets.
type FundingStore interface {
	GetDeposit(ctx context.Context, username string) (*funding.Deposit, error)
	InsertWithdrawal(ctx context.Context, wd *funding.Withdrawal) error
	ListWithdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error)
	InsertWallet(ctx context.Context, w *funding.Wallet) error
	ListWallets(ctx context.Context, username string) ([]*funding.Wallet, error)
}

// WithdrawRequest carries a withdrawal submission.
type WithdrawRequest struct {
	Username           string
	Amount             decimal.Decimal
	WithdrawalPassword string
}

// Service defines the interface for funding operations
type Service interface {
	Withdraw(ctx context.Context, req *WithdrawRequest) (*funding.Withdrawal, error)
	Withdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error)
	SaveWallet(ctx context.Context, w *funding.Wallet) error
	Wallets(ctx context.Context, username string) ([]*funding.Wallet, error)
}

type fundingService struct {
	accounts AccountStore
	entries  EntryStore
	users    UserStore
	fundings FundingStore
	cfg      *config.BusinessConfig
	logger   *zap.Logger
}

// NewService creates a new funding service
func NewService(
	accounts AccountStore,
	entries EntryStore,
	users UserStore,
	fundings FundingStore,
	cfg *config.BusinessConfig,
	logger *zap.Logger,
) Service {
	return &fundingService{
		accounts: accounts,
		entries:  entries,
		users:    users,
		fundings: fundings,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *fundingService) Withdraw(ctx context.Context, req *WithdrawRequest) (*funding.Withdrawal, error) {
	if !req.Amount.IsPositive() {
		metrics.WithdrawalsTotal.WithLabelValues("invalid_amount").Inc()
		return nil, apperrors.BadRequestError(ErrInvalidAmount, "withdrawal amount must be positive")
	}

	acct, err := s.accounts.Get(ctx, req.Username)
	if err != nil {
		if errors.Is(err, accountstore.ErrAccountNotFound) {
			metrics.WithdrawalsTotal.WithLabelValues("account_not_found").Inc()
			return nil, apperrors.ResourceNotFoundError(ErrAccountNotFound, "account not found")
		}
		return nil, apperrors.GeneralError(err, "failed to load account")
	}

	usr, err := s.users.GetUser(ctx, userstore.WithUsername(req.Username))
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.WithdrawalPassword), []byte(req.WithdrawalPassword)); err != nil {
		metrics.WithdrawalsTotal.WithLabelValues("bad_password").Inc()
		return nil, apperrors.UnAuthorizedError(ErrWrongWithdrawalPassword, "wrong withdrawal password")
	}

	verdict, err := s.evaluateGate(ctx, acct)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to evaluate balance")
	}
	if verdict.Frozen {
		metrics.WithdrawalsTotal.WithLabelValues("frozen").Inc()
		metrics.FrozenGateTrips.Inc()
		return nil, apperrors.LockedError(ErrAccountFrozen, "account is frozen")
	}
	if req.Amount.GreaterThan(verdict.DisplayBalance) {
		metrics.WithdrawalsTotal.WithLabelValues("insufficient").Inc()
		return nil, apperrors.BadRequestError(ErrInsufficientBalance, "insufficient balance")
	}

	wd := funding.NewWithdrawal(req.Username, req.Amount.Round(2))
	if err := s.fundings.InsertWithdrawal(ctx, wd); err != nil {
		metrics.WithdrawalsTotal.WithLabelValues("write_error").Inc()
		return nil, apperrors.GeneralError(err, "failed to insert withdrawal")
	}

	metrics.WithdrawalsTotal.WithLabelValues("accepted").Inc()
	return wd, nil
}

func (s *fundingService) Withdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error) {
	wds, err := s.fundings.ListWithdrawals(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to list withdrawals")
	}
	return wds, nil
}

func (s *fundingService) SaveWallet(ctx context.Context, w *funding.Wallet) error {
	if w.WalletAddress == "" {
		return apperrors.BadRequestError(nil, "wallet address is required")
	}
	if err := s.fundings.InsertWallet(ctx, w); err != nil {
		return apperrors.GeneralError(err, "failed to save wallet")
	}
	return nil
}

func (s *fundingService) Wallets(ctx context.Context, username string) ([]*funding.Wallet, error) {
	ws, err := s.fundings.ListWallets(ctx, username)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to list wallets")
	}
	return ws, nil
}

func (s *fundingService) evaluateGate(ctx context.Context, acct *account.Account) (gate.Result, error) {
	latestCount := 0
	latest, err := s.entries.FindLatest(ctx, acct.Username)
	switch {
	case err == nil:
		latestCount = latest.Count
	case errors.Is(err, optimizationstore.ErrEntryNotFound):
	default:
		return gate.Result{}, err
	}

	depositAmount := decimal.Zero
	dep, err := s.fundings.GetDeposit(ctx, acct.Username)
	switch {
	case err == nil:
		depositAmount = dep.Amount
	case errors.Is(err, fundingstore.ErrDepositNotFound):
	default:
		return gate.Result{}, err
	}

	return gate.Evaluate(gate.Input{
		FreezingPoint: acct.EffectiveFreezingPoint(s.cfg.DefaultFreezingPoint),
		LatestCount:   latestCount,
		TotalBalance:  acct.TotalBalance,
		DepositAmount: depositAmount,
	}), nil
}
