// Package reward holds the admin-configured per-user reward overrides applied
// when a submission trips the freezing threshold.
package reward

import (
	"time"

	"github.com/shopspring/decimal"
)

// FrozenReward overrides the amounts written on a user's frozen entry.
// Absent a row, the platform defaults apply.
type FrozenReward struct {
	Username     string
	USDCAmount   decimal.Decimal
	ProfitAmount decimal.Decimal
	CreatedAt    time.Time
}

// PendingReward overrides the amounts written on the pending entry that
// accompanies a frozen one. Absent a row, the platform defaults apply.
type PendingReward struct {
	Username     string
	USDCAmount   decimal.Decimal
	ProfitAmount decimal.Decimal
	CreatedAt    time.Time
}
