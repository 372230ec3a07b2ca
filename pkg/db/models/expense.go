package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating cost entry, independent of billing. CreatedAt is
// assigned at insert and survives edits; the monthly report buckets by it.
type Expense struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Item      string          `gorm:"column:item;not null"`
	Qty       int             `gorm:"column:qty;not null;default:1"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
