package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts optimization submissions by outcome
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optima_submissions_total",
			Help: "Total number of optimization submissions",
		},
		[]string{"outcome"},
	)

	// SettlementsTotal counts settlement attempts by outcome
	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optima_settlements_total",
			Help: "Total number of settlement attempts",
		},
		[]string{"outcome"},
	)

	// SettledProfit tracks the profit credited per settlement
	SettledProfit = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optima_settled_profit",
			Help:    "Profit credited per settlement",
			Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000, 10000},
		},
		[]string{"outcome"},
	)

	// FrozenGateTrips counts requests redirected by the freezing gate
	FrozenGateTrips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "optima_frozen_gate_trips_total",
			Help: "Total number of requests redirected by the freezing gate",
		},
	)

	// LoginsTotal counts login attempts by outcome
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optima_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	// RegistrationsTotal counts registration attempts by outcome
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optima_registrations_total",
			Help: "Total number of registration attempts",
		},
		[]string{"outcome"},
	)

	// WithdrawalsTotal counts withdrawal requests by outcome
	WithdrawalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optima_withdrawals_total",
			Help: "Total number of withdrawal requests",
		},
		[]string{"outcome"},
	)

	// ProfitResetsTotal counts daily profit reset runs
	ProfitResetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optima_profit_resets_total",
			Help: "Total number of daily profit reset runs",
		},
		[]string{"outcome"},
	)
)
