package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/optimahq/optima/pkg/funding"
)

const serviceName = "FundingService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the funding Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) Withdraw(ctx context.Context, req *WithdrawRequest) (wd *funding.Withdrawal, err error) {
	start := time.Now()

	ls.logger.Info("Withdraw started",
		zap.String("service", serviceName),
		zap.String("method", "Withdraw"),
		zap.String("username", req.Username),
		zap.String("amount", req.Amount.String()),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("Withdraw failed",
				zap.String("service", serviceName),
				zap.String("method", "Withdraw"),
				zap.String("username", req.Username),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Withdraw completed",
				zap.String("service", serviceName),
				zap.String("method", "Withdraw"),
				zap.String("username", req.Username),
				zap.Int64("withdrawal_id", wd.ID),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Withdraw(ctx, req)
}

func (ls *logService) Withdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error) {
	wds, err := ls.svc.Withdrawals(ctx, username)
	if err != nil {
		ls.logger.Error("Withdrawals failed",
			zap.String("service", serviceName),
			zap.String("method", "Withdrawals"),
			zap.String("username", username),
			zap.Error(err),
		)
	}
	return wds, err
}

func (ls *logService) SaveWallet(ctx context.Context, w *funding.Wallet) (err error) {
	if err = ls.svc.SaveWallet(ctx, w); err != nil {
		ls.logger.Error("SaveWallet failed",
			zap.String("service", serviceName),
			zap.String("method", "SaveWallet"),
			zap.String("username", w.Username),
			zap.Error(err),
		)
	}
	return err
}

func (ls *logService) Wallets(ctx context.Context, username string) ([]*funding.Wallet, error) {
	ws, err := ls.svc.Wallets(ctx, username)
	if err != nil {
		ls.logger.Error("Wallets failed",
			zap.String("service", serviceName),
			zap.String("method", "Wallets"),
			zap.String("username", username),
			zap.Error(err),
		)
	}
	return ws, err
}
