// Package gate implements the freezing gate: the single decision point for
// whether a user's funds are frozen and what balance every surface displays.
//
// The profile view, deposit view, withdrawal view, start page and both
// settlement paths all consult this package; no caller computes a display
// balance on its own. The "latest" optimization count fed into Evaluate is
// always resolved by insertion order (newest row id wins).
package gate

import "github.com/shopspring/decimal"

// Input carries everything the gate needs to decide a user's frozen state.
type Input struct {
	// FreezingPoint is the configured threshold. Zero disables the gate.
	FreezingPoint int
	// LatestCount is the optimization count on the user's most recent log
	// entry, 0 when the log is empty.
	LatestCount int
	// TotalBalance is the ledger's spendable balance.
	TotalBalance decimal.Decimal
	// DepositAmount is the admin-configured deposit figure, zero when absent.
	DepositAmount decimal.Decimal
}

// Result is the gate's verdict.
type Result struct {
	Frozen bool
	// DisplayBalance is the figure shown to the user: the real balance when
	// not frozen, the negated deposit amount when frozen.
	DisplayBalance decimal.Decimal
}

// Evaluate decides the frozen state for the given input.
//
//   - FreezingPoint == 0: never frozen, display the real balance.
//   - LatestCount >= FreezingPoint: frozen, display -DepositAmount.
//   - otherwise: not frozen, display the real balance.
func Evaluate(in Input) Result {
	if in.FreezingPoint <= 0 {
		return Result{Frozen: false, DisplayBalance: in.TotalBalance}
	}
	if in.LatestCount >= in.FreezingPoint {
		return Result{Frozen: true, DisplayBalance: in.DepositAmount.Neg()}
	}
	return Result{Frozen: false, DisplayBalance: in.TotalBalance}
}
