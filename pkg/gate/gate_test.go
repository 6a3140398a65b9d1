package gate

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEvaluateDisabledGate(t *testing.T) {
	res := Evaluate(Input{
		FreezingPoint: 0,
		LatestCount:   999999,
		TotalBalance:  decimal.NewFromInt(150),
		DepositAmount: decimal.NewFromInt(5000),
	})
	if res.Frozen {
		t.Fatalf("expected not frozen when freezing point is zero")
	}
	if !res.DisplayBalance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected real balance, got %s", res.DisplayBalance)
	}
}

func TestEvaluateBelowThreshold(t *testing.T) {
	res := Evaluate(Input{
		FreezingPoint: 103,
		LatestCount:   102,
		TotalBalance:  decimal.NewFromFloat(42.5),
		DepositAmount: decimal.NewFromInt(1000),
	})
	if res.Frozen {
		t.Fatalf("expected not frozen below threshold")
	}
	if !res.DisplayBalance.Equal(decimal.NewFromFloat(42.5)) {
		t.Fatalf("expected real balance, got %s", res.DisplayBalance)
	}
}

func TestEvaluateAtThreshold(t *testing.T) {
	res := Evaluate(Input{
		FreezingPoint: 103,
		LatestCount:   103,
		TotalBalance:  decimal.NewFromInt(42),
		DepositAmount: decimal.NewFromInt(1000),
	})
	if !res.Frozen {
		t.Fatalf("expected frozen at threshold")
	}
	if !res.DisplayBalance.Equal(decimal.NewFromInt(-1000)) {
		t.Fatalf("expected negated deposit, got %s", res.DisplayBalance)
	}
}

func TestEvaluateAboveThreshold(t *testing.T) {
	res := Evaluate(Input{
		FreezingPoint: 103,
		LatestCount:   200,
		TotalBalance:  decimal.NewFromInt(42),
		DepositAmount: decimal.NewFromInt(1000),
	})
	if !res.Frozen {
		t.Fatalf("expected frozen above threshold")
	}
	if !res.DisplayBalance.Equal(decimal.NewFromInt(-1000)) {
		t.Fatalf("expected negated deposit, got %s", res.DisplayBalance)
	}
}

func TestEvaluateFrozenWithoutDeposit(t *testing.T) {
	res := Evaluate(Input{
		FreezingPoint: 7,
		LatestCount:   7,
		TotalBalance:  decimal.NewFromInt(300),
	})
	if !res.Frozen {
		t.Fatalf("expected frozen")
	}
	if !res.DisplayBalance.IsZero() {
		t.Fatalf("expected zero display balance with no deposit, got %s", res.DisplayBalance)
	}
}

func TestEvaluateEmptyLog(t *testing.T) {
	res := Evaluate(Input{
		FreezingPoint: 103,
		LatestCount:   0,
		TotalBalance:  decimal.NewFromInt(10),
		DepositAmount: decimal.NewFromInt(500),
	})
	if res.Frozen {
		t.Fatalf("expected not frozen with empty log")
	}
}
