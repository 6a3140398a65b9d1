package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/optimahq/optima/pkg/funding"
	"github.com/optimahq/optima/pkg/optimizationstore"
	"github.com/optimahq/optima/pkg/user"
)

const serviceName = "AdminService"

// logService wraps Service with logging. Mutations log entry and exit;
// read methods log failures only.
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the admin Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) logMutation(method, username string, fn func() error) error {
	start := time.Now()

	ls.logger.Info(method+" started",
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.String("username", username),
	)

	err := fn()
	duration := time.Since(start)

	if err != nil {
		ls.logger.Error(method+" failed",
			zap.String("service", serviceName),
			zap.String("method", method),
			zap.String("username", username),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	} else {
		ls.logger.Info(method+" completed",
			zap.String("service", serviceName),
			zap.String("method", method),
			zap.String("username", username),
			zap.Duration("duration", duration),
		)
	}
	return err
}

func (ls *logService) logRead(method string, err error) {
	if err != nil {
		ls.logger.Error(method+" failed",
			zap.String("service", serviceName),
			zap.String("method", method),
			zap.Error(err),
		)
	}
}

func (ls *logService) EditUser(ctx context.Context, req *EditUserRequest) error {
	return ls.logMutation("EditUser", req.Username, func() error {
		return ls.svc.EditUser(ctx, req)
	})
}

func (ls *logService) SetUserStatus(ctx context.Context, username string, status user.Status) error {
	return ls.logMutation("SetUserStatus", username, func() error {
		return ls.svc.SetUserStatus(ctx, username, status)
	})
}

func (ls *logService) DeleteUser(ctx context.Context, username string) error {
	return ls.logMutation("DeleteUser", username, func() error {
		return ls.svc.DeleteUser(ctx, username)
	})
}

func (ls *logService) UserStats(ctx context.Context) (*UserStats, error) {
	stats, err := ls.svc.UserStats(ctx)
	ls.logRead("UserStats", err)
	return stats, err
}

func (ls *logService) FrozenAccounts(ctx context.Context) ([]*FrozenAccountRow, error) {
	rows, err := ls.svc.FrozenAccounts(ctx)
	ls.logRead("FrozenAccounts", err)
	return rows, err
}

func (ls *logService) ResetOptimizationCount(ctx context.Context, username string) error {
	return ls.logMutation("ResetOptimizationCount", username, func() error {
		return ls.svc.ResetOptimizationCount(ctx, username)
	})
}

func (ls *logService) ResetActivity(ctx context.Context) ([]*optimizationstore.ResetActivity, error) {
	acts, err := ls.svc.ResetActivity(ctx)
	ls.logRead("ResetActivity", err)
	return acts, err
}

func (ls *logService) ClearResetCount(ctx context.Context, username string) error {
	return ls.logMutation("ClearResetCount", username, func() error {
		return ls.svc.ClearResetCount(ctx, username)
	})
}

func (ls *logService) ClearAllResetCounts(ctx context.Context) error {
	return ls.logMutation("ClearAllResetCounts", "", func() error {
		return ls.svc.ClearAllResetCounts(ctx)
	})
}

func (ls *logService) CreateReferralCode(ctx context.Context, createdBy string) (*user.ReferralCode, error) {
	var code *user.ReferralCode
	err := ls.logMutation("CreateReferralCode", createdBy, func() error {
		var err error
		code, err = ls.svc.CreateReferralCode(ctx, createdBy)
		return err
	})
	return code, err
}

func (ls *logService) ReferralCodes(ctx context.Context) ([]*user.ReferralCode, error) {
	codes, err := ls.svc.ReferralCodes(ctx)
	ls.logRead("ReferralCodes", err)
	return codes, err
}

func (ls *logService) DeleteReferralCode(ctx context.Context, id int64) error {
	return ls.logMutation("DeleteReferralCode", "", func() error {
		return ls.svc.DeleteReferralCode(ctx, id)
	})
}

func (ls *logService) Withdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error) {
	wds, err := ls.svc.Withdrawals(ctx, username)
	ls.logRead("Withdrawals", err)
	return wds, err
}

func (ls *logService) SetWithdrawalStatus(ctx context.Context, id int64, status funding.Status) error {
	return ls.logMutation("SetWithdrawalStatus", "", func() error {
		return ls.svc.SetWithdrawalStatus(ctx, id, status)
	})
}

func (ls *logService) DeleteWithdrawal(ctx context.Context, id int64) error {
	return ls.logMutation("DeleteWithdrawal", "", func() error {
		return ls.svc.DeleteWithdrawal(ctx, id)
	})
}

func (ls *logService) ResetAllProfits(ctx context.Context) (int64, error) {
	var affected int64
	err := ls.logMutation("ResetAllProfits", "", func() error {
		var err error
		affected, err = ls.svc.ResetAllProfits(ctx)
		return err
	})
	return affected, err
}
