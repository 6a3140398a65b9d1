package optimizationstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/optimization"
)

// EntryDao is a data access object that maps directly to the 'optimizations' table in PostgreSQL.
type EntryDao struct {
	bun.BaseModel `bun:"table:optimizations,alias:o"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,notnull,type:varchar(64)"`
	SelectedImage string    `bun:"selected_image,notnull,type:varchar(255)"`
	ImageName     string    `bun:"image_name,notnull,type:varchar(255)"`
	USDCAmount    string    `bun:"usdc_amount,notnull,type:numeric(20,2),default:'0'"`
	ProfitAmount  string    `bun:"profit_amount,notnull,type:numeric(20,2),default:'0'"`
	Count         int       `bun:"optimization_count,notnull,default:0"`
	Status        string    `bun:"status,notnull,type:varchar(16)"`
	SubmittedAt   time.Time `bun:"submitted_at,nullzero,default:current_timestamp"`
}

// ActivityDao is a data access object that maps directly to the 'optimization_activity' table in PostgreSQL.
type ActivityDao struct {
	bun.BaseModel `bun:"table:optimization_activity,alias:oa"`
	Username      string    `bun:"username,pk,type:varchar(64)"`
	ResetCount    int       `bun:"reset_count,notnull,default:0"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// toEntryDao converts an optimization.Entry to EntryDao.
func toEntryDao(entry *optimization.Entry) *EntryDao {
	return &EntryDao{
		ID:            entry.ID,
		Username:      entry.Username,
		SelectedImage: entry.SelectedImage,
		ImageName:     entry.ImageName,
		USDCAmount:    entry.USDCAmount.String(),
		ProfitAmount:  entry.ProfitAmount.String(),
		Count:         entry.Count,
		Status:        string(entry.Status),
		SubmittedAt:   entry.SubmittedAt,
	}
}

// toEntry converts an EntryDao to optimization.Entry.
func toEntry(dao *EntryDao) (*optimization.Entry, error) {
	usdcAmount, err := decimal.NewFromString(dao.USDCAmount)
	if err != nil {
		return nil, err
	}
	profitAmount, err := decimal.NewFromString(dao.ProfitAmount)
	if err != nil {
		return nil, err
	}

	return &optimization.Entry{
		ID:            dao.ID,
		Username:      dao.Username,
		SelectedImage: dao.SelectedImage,
		ImageName:     dao.ImageName,
		USDCAmount:    usdcAmount,
		ProfitAmount:  profitAmount,
		Count:         dao.Count,
		Status:        optimization.Status(dao.Status),
		SubmittedAt:   dao.SubmittedAt,
	}, nil
}

func toEntries(daos []EntryDao) ([]*optimization.Entry, error) {
	entries := make([]*optimization.Entry, 0, len(daos))
	for i := range daos {
		entry, err := toEntry(&daos[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
