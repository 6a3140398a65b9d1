package optimizationstore

import (
	"context"
	"errors"
	"time"

	"github.com/optimahq/optima/pkg/optimization"
)

// ErrEntryNotFound is returned when an entry lookup finds no matching record.
var ErrEntryNotFound = errors.New("optimization entry not found")

// Store defines the interface for optimization log persistence.
//
// "Latest" lookups resolve by insertion id, newest first, so every surface of
// the platform agrees on which entry is current.
type Store interface {
	Insert(ctx context.Context, entry *optimization.Entry) error
	// InsertPair writes both entries in one transaction. Either both rows land
	// or neither does.
	InsertPair(ctx context.Context, first, second *optimization.Entry) error
	FindLatest(ctx context.Context, username string) (*optimization.Entry, error)
	// ListOutstanding returns the user's pending and frozen entries in
	// insertion order.
	ListOutstanding(ctx context.Context, username string) ([]*optimization.Entry, error)
	// CountSince counts the user's entries submitted at or after the cutoff.
	CountSince(ctx context.Context, username string, cutoff time.Time) (int, error)
	CountByUsername(ctx context.Context, username string) (int, error)
	ListByUsername(ctx context.Context, username string) ([]*optimization.Entry, error)
	// MarkCompleted transitions the given entries to completed.
	MarkCompleted(ctx context.Context, ids []int64) error
	// MarkLatestPendingCompleted completes the user's most recent pending
	// entry. A missing pending entry is not an error.
	MarkLatestPendingCompleted(ctx context.Context, username string) error
	DeleteByUsername(ctx context.Context, username string) error
}

// ResetActivity records how many times an admin has reset a user's
// optimization count.
type ResetActivity struct {
	Username   string
	ResetCount int
	UpdatedAt  time.Time
}

// ActivityStore tracks per-user optimization-count reset activity.
type ActivityStore interface {
	GetResetCount(ctx context.Context, username string) (int, error)
	// IncrementResetCount bumps the counter and returns the new value,
	// creating the row on first use.
	IncrementResetCount(ctx context.Context, username string) (int, error)
	ListResetActivity(ctx context.Context) ([]*ResetActivity, error)
	ClearResetCount(ctx context.Context, username string) error
	ClearAllResetCounts(ctx context.Context) error
}
