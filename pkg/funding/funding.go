// Package funding covers money movement around the ledger: the
// admin-configured deposit figure, the deposit history, withdrawal requests
// and saved crypto wallets.
package funding

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the review state of a deposit record or withdrawal request.
type Status string

const (
	StatusReviewing Status = "reviewing"
	StatusSuccess   Status = "success"
	StatusRejected  Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusReviewing, StatusSuccess, StatusRejected:
		return true
	}
	return false
}

// Deposit is the admin-configured deposit figure for a user. The freezing
// gate negates this amount for the frozen display balance.
type Deposit struct {
	Username  string
	Amount    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DepositRecord is one row of a user's deposit history.
type DepositRecord struct {
	ID            int64
	Username      string
	Amount        decimal.Decimal
	Status        Status
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewDepositRecord builds a reviewing-state record with a fresh transaction id.
func NewDepositRecord(username string, amount decimal.Decimal) *DepositRecord {
	return &DepositRecord{
		Username:      username,
		Amount:        amount,
		Status:        StatusReviewing,
		TransactionID: NewTransactionID(),
	}
}

// NewTransactionID generates a deposit transaction identifier.
func NewTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("DEP-%d-%s", time.Now().UnixMilli(), suffix)
}

// Withdrawal is a user's request to withdraw funds, reviewed by an admin.
type Withdrawal struct {
	ID        int64
	Username  string
	Amount    decimal.Decimal
	Status    Status
	CreatedAt time.Time
}

// NewWithdrawal builds a reviewing-state withdrawal request.
func NewWithdrawal(username string, amount decimal.Decimal) *Withdrawal {
	return &Withdrawal{
		Username: username,
		Amount:   amount,
		Status:   StatusReviewing,
	}
}

// Wallet is a user's saved crypto wallet for withdrawals.
type Wallet struct {
	ID            int64
	Username      string
	Name          string
	Network       string
	CryptoWallet  string
	WalletAddress string
	CreatedAt     time.Time
}
