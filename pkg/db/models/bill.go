package models

import (
	"fmt"
	"time"

	"github.com/fsenterprise/billing-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Bill is the invoice header. Line items hang off it by foreign key.
type Bill struct {
	ID           uint              `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerName string            `gorm:"column:customer_name;not null"`
	BillDate     time.Time         `gorm:"column:bill_date;type:date;not null"`
	PaymentMode  enums.PaymentMode `gorm:"column:payment_mode;not null"`
	Status       enums.BillStatus  `gorm:"column:status;not null"`
	Subtotal     decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null;default:0"`
	Items        []BillItem        `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// Number renders the display invoice number, e.g. INV-0042.
func (b Bill) Number() string {
	return FormatBillNumber(b.ID)
}

// FormatBillNumber zero-pads the bill id into the INV- display form.
func FormatBillNumber(id uint) string {
	return fmt.Sprintf("INV-%04d", id)
}
