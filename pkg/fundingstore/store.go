package fundingstore

import (
	"context"
	"errors"

	"github.com/optimahq/optima/pkg/funding"
)

// ErrDepositNotFound is returned when no deposit figure exists for a user.
var ErrDepositNotFound = errors.New("deposit not found")

// ErrWithdrawalNotFound is returned when a withdrawal lookup finds no matching record.
var ErrWithdrawalNotFound = errors.New("withdrawal not found")

// Store defines the interface for funding data persistence.
type Store interface {
	GetDeposit(ctx context.Context, username string) (*funding.Deposit, error)
	UpsertDeposit(ctx context.Context, dep *funding.Deposit) error

	InsertDepositRecord(ctx context.Context, rec *funding.DepositRecord) error
	// ListDepositRecords returns the user's deposit history, newest first.
	ListDepositRecords(ctx context.Context, username string) ([]*funding.DepositRecord, error)

	InsertWithdrawal(ctx context.Context, wd *funding.Withdrawal) error
	// ListWithdrawals returns all withdrawal requests, newest first. A
	// non-empty username narrows the listing to that user.
	ListWithdrawals(ctx context.Context, username string) ([]*funding.Withdrawal, error)
	UpdateWithdrawalStatus(ctx context.Context, id int64, status funding.Status) error
	DeleteWithdrawal(ctx context.Context, id int64) error

	InsertWallet(ctx context.Context, w *funding.Wallet) error
	ListWallets(ctx context.Context, username string) ([]*funding.Wallet, error)

	// DeleteByUsername removes every funding row owned by the user.
	DeleteByUsername(ctx context.Context, username string) error
}
