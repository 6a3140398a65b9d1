package fundingstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/funding"
)

// DepositDao is a data access object that maps directly to the 'deposits' table in PostgreSQL.
type DepositDao struct {
	bun.BaseModel `bun:"table:deposits,alias:d"`
	Username      string    `bun:"username,pk,type:varchar(64)"`
	Amount        string    `bun:"amount,notnull,type:numeric(20,2)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// DepositRecordDao is a data access object that maps directly to the 'deposit_records' table in PostgreSQL.
type DepositRecordDao struct {
	bun.BaseModel `bun:"table:deposit_records,alias:dr"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,notnull,type:varchar(64)"`
	Amount        string    `bun:"amount,notnull,type:numeric(20,2)"`
	Status        string    `bun:"status,notnull,type:varchar(16),default:'reviewing'"`
	TransactionID string    `bun:"transaction_id,unique,notnull,type:varchar(64)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// WithdrawalDao is a data access object that maps directly to the 'withdrawals' table in PostgreSQL.
type WithdrawalDao struct {
	bun.BaseModel `bun:"table:withdrawals,alias:wd"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,notnull,type:varchar(64)"`
	Amount        string    `bun:"amount,notnull,type:numeric(20,2)"`
	Status        string    `bun:"status,notnull,type:varchar(16),default:'reviewing'"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// WalletDao is a data access object that maps directly to the 'wallets' table in PostgreSQL.
type WalletDao struct {
	bun.BaseModel `bun:"table:wallets,alias:wl"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,notnull,type:varchar(64)"`
	Name          string    `bun:"name,notnull,type:varchar(128)"`
	Network       string    `bun:"network,notnull,type:varchar(64)"`
	CryptoWallet  string    `bun:"crypto_wallet,notnull,type:varchar(128)"`
	WalletAddress string    `bun:"wallet_address,notnull,type:varchar(255)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

func toDepositDao(dep *funding.Deposit) *DepositDao {
	return &DepositDao{
		Username:  dep.Username,
		Amount:    dep.Amount.String(),
		CreatedAt: dep.CreatedAt,
		UpdatedAt: dep.UpdatedAt,
	}
}

func toDeposit(dao *DepositDao) (*funding.Deposit, error) {
	amount, err := decimal.NewFromString(dao.Amount)
	if err != nil {
		return nil, err
	}

	return &funding.Deposit{
		Username:  dao.Username,
		Amount:    amount,
		CreatedAt: dao.CreatedAt,
		UpdatedAt: dao.UpdatedAt,
	}, nil
}

func toDepositRecordDao(rec *funding.DepositRecord) *DepositRecordDao {
	return &DepositRecordDao{
		ID:            rec.ID,
		Username:      rec.Username,
		Amount:        rec.Amount.String(),
		Status:        string(rec.Status),
		TransactionID: rec.TransactionID,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func toDepositRecord(dao *DepositRecordDao) (*funding.DepositRecord, error) {
	amount, err := decimal.NewFromString(dao.Amount)
	if err != nil {
		return nil, err
	}

	return &funding.DepositRecord{
		ID:            dao.ID,
		Username:      dao.Username,
		Amount:        amount,
		Status:        funding.Status(dao.Status),
		TransactionID: dao.TransactionID,
		CreatedAt:     dao.CreatedAt,
		UpdatedAt:     dao.UpdatedAt,
	}, nil
}

func toWithdrawalDao(wd *funding.Withdrawal) *WithdrawalDao {
	return &WithdrawalDao{
		ID:        wd.ID,
		Username:  wd.Username,
		Amount:    wd.Amount.String(),
		Status:    string(wd.Status),
		CreatedAt: wd.CreatedAt,
	}
}

func toWithdrawal(dao *WithdrawalDao) (*funding.Withdrawal, error) {
	amount, err := decimal.NewFromString(dao.Amount)
	if err != nil {
		return nil, err
	}

	return &funding.Withdrawal{
		ID:        dao.ID,
		Username:  dao.Username,
		Amount:    amount,
		Status:    funding.Status(dao.Status),
		CreatedAt: dao.CreatedAt,
	}, nil
}

func toWalletDao(w *funding.Wallet) *WalletDao {
	return &WalletDao{
		ID:            w.ID,
		Username:      w.Username,
		Name:          w.Name,
		Network:       w.Network,
		CryptoWallet:  w.CryptoWallet,
		WalletAddress: w.WalletAddress,
		CreatedAt:     w.CreatedAt,
	}
}

func toWallet(dao *WalletDao) *funding.Wallet {
	return &funding.Wallet{
		ID:            dao.ID,
		Username:      dao.Username,
		Name:          dao.Name,
		Network:       dao.Network,
		CryptoWallet:  dao.CryptoWallet,
		WalletAddress: dao.WalletAddress,
		CreatedAt:     dao.CreatedAt,
	}
}
