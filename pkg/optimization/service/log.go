package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/optimahq/optima/pkg/account"
	"github.com/optimahq/optima/pkg/optimization"
)

const serviceName = "OptimizationService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the optimization Service.
// It logs method entry/exit, duration and errors.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// Submit wraps the service method with logging
func (ls *logService) Submit(ctx context.Context, req *SubmitRequest) (res *SubmitResult, err error) {
	start := time.Now()

	ls.logger.Info("Submit started",
		zap.String("service", serviceName),
		zap.String("method", "Submit"),
		zap.String("username", req.Username),
		zap.Int("claimed_count", req.ClaimedCount),
		zap.String("usdc_amount", req.USDCAmount.String()),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("Submit failed",
				zap.String("service", serviceName),
				zap.String("method", "Submit"),
				zap.String("username", req.Username),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Submit completed",
				zap.String("service", serviceName),
				zap.String("method", "Submit"),
				zap.String("username", req.Username),
				zap.Int64("entry_id", res.Entry.ID),
				zap.Bool("frozen", res.Frozen),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Submit(ctx, req)
}

// Settle wraps the service method with logging
func (ls *logService) Settle(ctx context.Context, username string) (res *SettleResult, err error) {
	start := time.Now()

	ls.logger.Info("Settle started",
		zap.String("service", serviceName),
		zap.String("method", "Settle"),
		zap.String("username", username),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("Settle failed",
				zap.String("service", serviceName),
				zap.String("method", "Settle"),
				zap.String("username", username),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Settle completed",
				zap.String("service", serviceName),
				zap.String("method", "Settle"),
				zap.String("username", username),
				zap.Int("settled_count", res.SettledCount),
				zap.String("total_profit", res.TotalProfit.String()),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Settle(ctx, username)
}

// ApplyProgress wraps the service method with logging
func (ls *logService) ApplyProgress(ctx context.Context, req *ProgressRequest) (acct *account.Account, err error) {
	start := time.Now()

	ls.logger.Info("ApplyProgress started",
		zap.String("service", serviceName),
		zap.String("method", "ApplyProgress"),
		zap.String("username", req.Username),
		zap.String("profit_delta", req.ProfitDelta.String()),
		zap.String("balance_delta", req.BalanceDelta.String()),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("ApplyProgress failed",
				zap.String("service", serviceName),
				zap.String("method", "ApplyProgress"),
				zap.String("username", req.Username),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("ApplyProgress completed",
				zap.String("service", serviceName),
				zap.String("method", "ApplyProgress"),
				zap.String("username", req.Username),
				zap.String("todays_profit", acct.TodaysProfit.String()),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.ApplyProgress(ctx, req)
}

// History wraps the service method with logging
func (ls *logService) History(ctx context.Context, username string) (entries []*optimization.Entry, err error) {
	start := time.Now()

	defer func() {
		if err != nil {
			ls.logger.Error("History failed",
				zap.String("service", serviceName),
				zap.String("method", "History"),
				zap.String("username", username),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
		}
	}()

	return ls.svc.History(ctx, username)
}
