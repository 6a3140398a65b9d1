// Package scheduler runs the platform's recurring jobs.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/optimahq/optima/internal/metrics"
	"github.com/optimahq/optima/pkg/config"
)

// ProfitResetter zeroes todaysProfit on every ledger.
type ProfitResetter interface {
	ResetTodaysProfits(ctx context.Context) (int64, error)
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	cron     *cron.Cron
	accounts ProfitResetter
	logger   *zap.Logger
}

// New creates a Scheduler. Jobs run in the server's local timezone, matching
// the local-midnight day boundary used by the daily submission caps.
func New(accounts ProfitResetter, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		accounts: accounts,
		logger:   logger,
	}
}

// Register wires the recurring jobs from the configuration.
func (s *Scheduler) Register(cfg *config.JobsConfig) error {
	if _, err := s.cron.AddFunc(cfg.ProfitResetSpec, s.runProfitReset); err != nil {
		return fmt.Errorf("register profit reset job: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runProfitReset() {
	affected, err := s.accounts.ResetTodaysProfits(context.Background())
	if err != nil {
		metrics.ProfitResetsTotal.WithLabelValues("error").Inc()
		s.logger.Error("daily profit reset failed", zap.Error(err))
		return
	}

	metrics.ProfitResetsTotal.WithLabelValues("success").Inc()
	s.logger.Info("daily profit reset completed", zap.Int64("accounts", affected))
}
