// Package optimization defines the append-only optimization log: one entry per
// submitted order, settled in bulk by the history settlement flow.
package optimization

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a log entry.
type Status string

const (
	// StatusPending marks an entry awaiting settlement.
	StatusPending Status = "pending"
	// StatusFrozen marks the synthetic entry written when a submission trips
	// the freezing threshold. Frozen entries settle like pending ones but
	// route the user to the frozen surface until then.
	StatusFrozen Status = "frozen"
	// StatusCompleted marks a settled entry.
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusFrozen, StatusCompleted:
		return true
	}
	return false
}

// Outstanding reports whether an entry with this status still awaits
// settlement.
func (s Status) Outstanding() bool {
	return s == StatusPending || s == StatusFrozen
}

// Entry is one row of the optimization log. Entries are never updated except
// for the status transition to completed; "latest" always means highest
// insertion id.
type Entry struct {
	ID            int64
	Username      string
	SelectedImage string
	ImageName     string
	USDCAmount    decimal.Decimal
	ProfitAmount  decimal.Decimal
	Count         int
	Status        Status
	SubmittedAt   time.Time
}

// NewPending builds a pending entry from caller-supplied order data.
func NewPending(username, selectedImage, imageName string, usdcAmount, profitAmount decimal.Decimal, count int) *Entry {
	return &Entry{
		Username:      username,
		SelectedImage: selectedImage,
		ImageName:     imageName,
		USDCAmount:    usdcAmount,
		ProfitAmount:  profitAmount,
		Count:         count,
		Status:        StatusPending,
	}
}
