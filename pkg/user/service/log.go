package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const serviceName = "UserService"

// logService wraps Service with automatic logging of all method calls.
// Passwords and tokens are never logged.
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the identity Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) Register(ctx context.Context, req *RegisterRequest) (res *AuthResult, err error) {
	start := time.Now()

	ls.logger.Info("Register started",
		zap.String("service", serviceName),
		zap.String("method", "Register"),
		zap.String("username", req.Username),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("Register failed",
				zap.String("service", serviceName),
				zap.String("method", "Register"),
				zap.String("username", req.Username),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Register completed",
				zap.String("service", serviceName),
				zap.String("method", "Register"),
				zap.String("username", req.Username),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Register(ctx, req)
}

func (ls *logService) Login(ctx context.Context, identifier, password string) (res *AuthResult, err error) {
	start := time.Now()

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Warn("Login failed",
				zap.String("service", serviceName),
				zap.String("method", "Login"),
				zap.String("identifier", identifier),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Login completed",
				zap.String("service", serviceName),
				zap.String("method", "Login"),
				zap.String("username", res.User.Username),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Login(ctx, identifier, password)
}

func (ls *logService) AdminLogin(ctx context.Context, username, password string) (res *AuthResult, err error) {
	start := time.Now()

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Warn("AdminLogin failed",
				zap.String("service", serviceName),
				zap.String("method", "AdminLogin"),
				zap.String("username", username),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("AdminLogin completed",
				zap.String("service", serviceName),
				zap.String("method", "AdminLogin"),
				zap.String("username", username),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.AdminLogin(ctx, username, password)
}

func (ls *logService) ForgotPassword(ctx context.Context, username, phoneNumber string) (token string, err error) {
	if token, err = ls.svc.ForgotPassword(ctx, username, phoneNumber); err != nil {
		ls.logger.Warn("ForgotPassword failed",
			zap.String("service", serviceName),
			zap.String("method", "ForgotPassword"),
			zap.String("username", username),
			zap.Error(err),
		)
	}
	return token, err
}

func (ls *logService) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	if err = ls.svc.ResetPassword(ctx, token, newPassword); err != nil {
		ls.logger.Warn("ResetPassword failed",
			zap.String("service", serviceName),
			zap.String("method", "ResetPassword"),
			zap.Error(err),
		)
	}
	return err
}
