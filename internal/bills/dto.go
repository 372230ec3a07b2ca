package bills

import (
	"time"

	"github.com/fsenterprise/billing-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// BillDTO represents the invoice payload returned to clients.
type BillDTO struct {
	ID           uint            `json:"id"`
	Number       string          `json:"number"`
	CustomerName string          `json:"customer_name"`
	BillDate     time.Time       `json:"bill_date"`
	PaymentMode  string          `json:"payment_mode"`
	Status       string          `json:"status"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Items        []BillItemDTO   `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BillItemDTO is one invoice line.
type BillItemDTO struct {
	ID          uint            `json:"id"`
	GSMNumber   int             `json:"gsm_number"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// BillListResult carries one page of bills plus the cursor for the next.
type BillListResult struct {
	Bills      []BillDTO `json:"bills"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// NewBillDTO builds a DTO from the persisted model.
func NewBillDTO(bill *models.Bill) *BillDTO {
	dto := &BillDTO{
		ID:           bill.ID,
		Number:       bill.Number(),
		CustomerName: bill.CustomerName,
		BillDate:     bill.BillDate,
		PaymentMode:  bill.PaymentMode.String(),
		Status:       bill.Status.String(),
		Subtotal:     bill.Subtotal,
		Items:        make([]BillItemDTO, len(bill.Items)),
		CreatedAt:    bill.CreatedAt,
		UpdatedAt:    bill.UpdatedAt,
	}
	for i, item := range bill.Items {
		dto.Items[i] = BillItemDTO{
			ID:          item.ID,
			GSMNumber:   item.GSMNumber,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		}
	}
	return dto
}
