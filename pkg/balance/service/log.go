package service

import (
	"context"

	"go.uber.org/zap"
)

const serviceName = "BalanceService"

// logService wraps Service with error logging. The views are read-only and
// hot, so successful calls are not logged.
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the balance Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) Profile(ctx context.Context, username string) (*ProfileView, error) {
	view, err := ls.svc.Profile(ctx, username)
	if err != nil {
		ls.logger.Error("Profile failed",
			zap.String("service", serviceName),
			zap.String("method", "Profile"),
			zap.String("username", username),
			zap.Error(err),
		)
	}
	return view, err
}

func (ls *logService) StartPage(ctx context.Context, username string) (*StartPageView, error) {
	view, err := ls.svc.StartPage(ctx, username)
	if err != nil {
		ls.logger.Error("StartPage failed",
			zap.String("service", serviceName),
			zap.String("method", "StartPage"),
			zap.String("username", username),
			zap.Error(err),
		)
	}
	return view, err
}

func (ls *logService) DepositHistory(ctx context.Context, username string) (*DepositView, error) {
	view, err := ls.svc.DepositHistory(ctx, username)
	if err != nil {
		ls.logger.Error("DepositHistory failed",
			zap.String("service", serviceName),
			zap.String("method", "DepositHistory"),
			zap.String("username", username),
			zap.Error(err),
		)
	}
	return view, err
}
