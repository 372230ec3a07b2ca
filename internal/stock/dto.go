package stock

import (
	"time"

	"github.com/fsenterprise/billing-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// StockItemDTO represents the stock ledger payload returned to clients.
type StockItemDTO struct {
	ID           uint            `json:"id"`
	GSMNumber    int             `json:"gsm_number"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Stock        int             `json:"stock"`
	MinimumStock int             `json:"minimum_stock"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewStockItemDTO builds a DTO from the persisted model.
func NewStockItemDTO(item *models.StockItem) *StockItemDTO {
	return &StockItemDTO{
		ID:           item.ID,
		GSMNumber:    item.GSMNumber,
		Description:  item.Description,
		Category:     item.Category,
		Stock:        item.Stock,
		MinimumStock: item.MinimumStock,
		CostPrice:    item.CostPrice,
		SellingPrice: item.SellingPrice,
		LowStock:     item.Stock <= item.MinimumStock,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// NewStockItemDTOs maps a slice of models.
func NewStockItemDTOs(items []models.StockItem) []StockItemDTO {
	out := make([]StockItemDTO, len(items))
	for i := range items {
		out[i] = *NewStockItemDTO(&items[i])
	}
	return out
}
