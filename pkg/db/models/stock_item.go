package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem is the quantity-on-hand record for one stocked paper grade.
// (gsm_number, description) is the natural key billing rows point at.
type StockItem struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement"`
	GSMNumber    int             `gorm:"column:gsm_number;not null;uniqueIndex:idx_stock_items_natural_key"`
	Description  string          `gorm:"column:description;not null;uniqueIndex:idx_stock_items_natural_key"`
	Category     string          `gorm:"column:category;not null;default:''"`
	Stock        int             `gorm:"column:stock;not null;default:0"`
	MinimumStock int             `gorm:"column:minimum_stock;not null;default:0"`
	CostPrice    decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"column:selling_price;type:numeric(12,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
