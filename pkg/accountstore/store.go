package accountstore

import (
	"context"
	"errors"

	"github.com/optimahq/optima/pkg/account"
)

// ErrAccountNotFound is returned when an account lookup finds no matching record.
var ErrAccountNotFound = errors.New("account not found")

// ErrVersionConflict is returned when a conditional update loses a concurrent
// write race. Callers are expected to re-read and retry or fail the request.
var ErrVersionConflict = errors.New("account version conflict")

// Store defines the interface for account ledger persistence.
type Store interface {
	Create(ctx context.Context, acct *account.Account) error
	Get(ctx context.Context, username string) (*account.Account, error)
	// Update persists the account conditionally on its Version matching the
	// stored row, incrementing the version on success. Returns
	// ErrVersionConflict when the row changed underneath the caller.
	Update(ctx context.Context, acct *account.Account) error
	// ListWithFreezingPoint returns accounts that carry an explicit freezing
	// threshold, used by the admin freezing-configuration view.
	ListWithFreezingPoint(ctx context.Context) ([]*account.Account, error)
	// ResetTodaysProfits zeroes todays_profit on every account.
	ResetTodaysProfits(ctx context.Context) (int64, error)
	DeleteByUsername(ctx context.Context, username string) error
}
