package reports

import (
	"context"
	"time"

	"github.com/fsenterprise/billing-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository runs the read-only queries behind the reporting aggregator.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type ledgerRecord struct {
	BillID       uint
	BillDate     time.Time
	CustomerName string
	GSMNumber    int
	Description  string
	Quantity     int
	Price        decimal.Decimal
	CostPrice    decimal.NullDecimal
}

// LedgerRows returns every bill line joined with its stock cost price.
// A line whose natural key no longer matches the ledger carries a null cost.
func (r *Repository) LedgerRows(ctx context.Context, from, to *time.Time) ([]ledgerRecord, error) {
	qb := r.db.WithContext(ctx).
		Table("bill_items bi").
		Select("b.id AS bill_id, b.bill_date, b.customer_name, bi.gsm_number, bi.description, bi.quantity, bi.price, si.cost_price").
		Joins("JOIN bills b ON b.id = bi.bill_id").
		Joins("LEFT JOIN stock_items si ON si.gsm_number = bi.gsm_number AND si.description = bi.description")

	if from != nil {
		qb = qb.Where("b.bill_date >= ?", *from)
	}
	if to != nil {
		qb = qb.Where("b.bill_date < ?", *to)
	}

	var records []ledgerRecord
	err := qb.Order("b.bill_date ASC").Order("b.id ASC").Order("bi.id ASC").Scan(&records).Error
	return records, err
}

// Expenses returns expense rows in the window, oldest first.
func (r *Repository) Expenses(ctx context.Context, from, to *time.Time) ([]models.Expense, error) {
	qb := r.db.WithContext(ctx).Model(&models.Expense{})
	if from != nil {
		qb = qb.Where("created_at >= ?", *from)
	}
	if to != nil {
		qb = qb.Where("created_at < ?", *to)
	}

	var rows []models.Expense
	err := qb.Order("created_at ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}
