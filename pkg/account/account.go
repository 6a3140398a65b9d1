// Package account defines the per-user ledger that every balance-affecting
// operation reads and writes.
package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// VIPLevel is the tier controlling a user's lifetime optimization cap.
type VIPLevel string

const (
	VIP1 VIPLevel = "VIP1"
	VIP2 VIPLevel = "VIP2"
	VIP3 VIPLevel = "VIP3"
	VIP4 VIPLevel = "VIP4"
)

// lifetimeCaps maps each tier to the maximum lifetime optimization count.
var lifetimeCaps = map[VIPLevel]int{
	VIP1: 40,
	VIP2: 45,
	VIP3: 50,
	VIP4: 55,
}

// LifetimeCap returns the lifetime optimization cap for the tier.
// Unknown tiers fall back to the VIP1 cap.
func (v VIPLevel) LifetimeCap() int {
	if cap, ok := lifetimeCaps[v]; ok {
		return cap
	}
	return lifetimeCaps[VIP1]
}

// Valid reports whether v is a known tier.
func (v VIPLevel) Valid() bool {
	_, ok := lifetimeCaps[v]
	return ok
}

// Account is the ledger row for one user, keyed by username.
//
// TotalBalance, TodaysProfit and TotalProfits only change through settlement,
// progress updates, withdrawals and admin edits; submissions never touch them.
// Version implements optimistic concurrency: every conditional update checks
// and increments it, so concurrent read-modify-write cycles cannot silently
// lose a credit.
//
// FreezingPoint distinguishes "never configured" (nil, the platform default
// applies) from an explicit 0, which disables the freezing gate entirely.
type Account struct {
	Username      string
	TotalBalance  decimal.Decimal
	TodaysProfit  decimal.Decimal
	TotalProfits  decimal.Decimal
	FrozenAmount  decimal.Decimal
	FreezingPoint *int
	VIPLevel      VIPLevel
	DailyLimit    int
	Version       int64
	CreatedAt     time.Time
}

// New returns a zeroed ledger for a freshly registered user.
func New(username string, dailyLimit int) *Account {
	return &Account{
		Username:     username,
		TotalBalance: decimal.Zero,
		TodaysProfit: decimal.Zero,
		TotalProfits: decimal.Zero,
		FrozenAmount: decimal.Zero,
		VIPLevel:     VIP1,
		DailyLimit:   dailyLimit,
	}
}

// EffectiveVIPLevel resolves the tier, defaulting to VIP1 when unset.
func (a *Account) EffectiveVIPLevel() VIPLevel {
	if a.VIPLevel == "" {
		return VIP1
	}
	return a.VIPLevel
}

// EffectiveDailyLimit resolves the per-day submission cap, falling back to
// fallback when the ledger has no explicit limit.
func (a *Account) EffectiveDailyLimit(fallback int) int {
	if a.DailyLimit > 0 {
		return a.DailyLimit
	}
	return fallback
}

// EffectiveFreezingPoint resolves the freezing threshold. An unset value
// takes the platform fallback; an explicit 0 disables the gate.
func (a *Account) EffectiveFreezingPoint(fallback int) int {
	if a.FreezingPoint == nil {
		return fallback
	}
	return *a.FreezingPoint
}

// SetFreezingPoint records an explicit threshold. Zero disables the gate.
func (a *Account) SetFreezingPoint(point int) {
	a.FreezingPoint = &point
}

// Credit adds profit to todaysProfit and totalProfits and balance to
// totalBalance, rounding every field to 2 decimal places.
func (a *Account) Credit(profit, balance decimal.Decimal) {
	a.TodaysProfit = a.TodaysProfit.Add(profit).Round(2)
	a.TotalProfits = a.TotalProfits.Add(profit).Round(2)
	a.TotalBalance = a.TotalBalance.Add(balance).Round(2)
}
