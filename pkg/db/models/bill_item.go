package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillItem is one line of a bill: a quantity of a single stocked item at a
// unit price. Total is always quantity x price, computed on write.
type BillItem struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	BillID      uint            `gorm:"column:bill_id;not null;index"`
	GSMNumber   int             `gorm:"column:gsm_number;not null"`
	Description string          `gorm:"column:description;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Total       decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
