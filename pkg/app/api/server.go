// Package api assembles the stores, services, and HTTP routes of the
// platform into a runnable server.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/optimahq/optima/pkg/accountstore"
	adminsvc "github.com/optimahq/optima/pkg/admin/service"
	apphttp "github.com/optimahq/optima/pkg/app/http"
	"github.com/optimahq/optima/pkg/auth"
	balancesvc "github.com/optimahq/optima/pkg/balance/service"
	"github.com/optimahq/optima/pkg/config"
	fundingsvc "github.com/optimahq/optima/pkg/funding/service"
	"github.com/optimahq/optima/pkg/fundingstore"
	optimizationsvc "github.com/optimahq/optima/pkg/optimization/service"
	"github.com/optimahq/optima/pkg/optimizationstore"
	"github.com/optimahq/optima/pkg/rewardstore"
	"github.com/optimahq/optima/pkg/scheduler"
	usersvc "github.com/optimahq/optima/pkg/user/service"
	"github.com/optimahq/optima/pkg/userstore"
)

// Server wires every service behind a single chi router.
type Server struct {
	cfg       *config.Config
	logger    *zap.Logger
	router    chi.Router
	scheduler *scheduler.Scheduler
}

// New builds the full service graph on top of db. The returned server owns
// the background scheduler but not the database connection.
func New(cfg *config.Config, db *bun.DB, logger *zap.Logger) (*Server, error) {
	users := userstore.NewStore(db)
	accounts := accountstore.NewStore(db)
	optimizations := optimizationstore.NewStore(db)
	rewards := rewardstore.NewStore(db)
	fundings := fundingstore.NewStore(db)

	sessions := auth.NewSessionManager(&cfg.Session)
	vault := auth.NewResetTokenVault(cfg.Session.ResetTokenTTL)

	userService := usersvc.NewLog(
		usersvc.NewService(users, accounts, sessions, vault, &cfg.Business, logger),
		logger,
	)
	balanceService := balancesvc.NewLog(
		balancesvc.NewService(accounts, optimizations, users, fundings, &cfg.Business, logger),
		logger,
	)
	optimizationService := optimizationsvc.NewLog(
		optimizationsvc.NewService(accounts, optimizations, users, rewards, &cfg.Business, logger),
		logger,
	)
	fundingService := fundingsvc.NewLog(
		fundingsvc.NewService(accounts, optimizations, users, fundings, &cfg.Business, logger),
		logger,
	)
	adminService := adminsvc.NewLog(
		adminsvc.NewService(accounts, optimizations, optimizations, users, rewards, fundings, &cfg.Business, logger),
		logger,
	)

	sched := scheduler.New(accounts, logger)
	if err := sched.Register(&cfg.Jobs); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Identity routes are public; everything else needs a session.
		usersvc.RegisterRoutes(r, userService, sessions, logger)

		r.Group(func(r chi.Router) {
			r.Use(sessions.RequireUser)
			balancesvc.RegisterRoutes(r, balanceService, logger)
			optimizationsvc.RegisterRoutes(r, optimizationService, logger)
			fundingsvc.RegisterRoutes(r, fundingService, logger)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(sessions.RequireAdmin)
			adminsvc.RegisterRoutes(r, adminService, logger)
		})
	})

	return &Server{
		cfg:       cfg,
		logger:    logger,
		router:    r,
		scheduler: sched,
	}, nil
}

// Handler exposes the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the scheduler and serves HTTP until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.scheduler.Start()
	defer s.scheduler.Stop()

	return apphttp.ServeAndWait(ctx, s.router, s.logger, &s.cfg.Server)
}
