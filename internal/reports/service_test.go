package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fsenterprise/billing-backend/pkg/db/models"
	"github.com/fsenterprise/billing-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:reports_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.StockItem{}, &models.Bill{}, &models.BillItem{}, &models.Expense{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func seedBill(t *testing.T, conn *gorm.DB, date time.Time, customer string, items ...models.BillItem) *models.Bill {
	t.Helper()
	bill := &models.Bill{
		CustomerName: customer,
		BillDate:     date,
		PaymentMode:  enums.PaymentModeCash,
		Status:       enums.BillStatusPaid,
		Items:        items,
	}
	for i := range bill.Items {
		bill.Items[i].Total = bill.Items[i].Price.Mul(decimal.NewFromInt(int64(bill.Items[i].Quantity)))
		bill.Subtotal = bill.Subtotal.Add(bill.Items[i].Total)
	}
	require.NoError(t, conn.Create(bill).Error)
	return bill
}

func TestProfitLedger(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	require.NoError(t, conn.Create(&models.StockItem{
		GSMNumber:    120,
		Description:  "A4 Maplitho",
		Stock:        20,
		CostPrice:    decimal.NewFromInt(6),
		SellingPrice: decimal.NewFromInt(10),
	}).Error)

	june := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	bill := seedBill(t, conn, june, "Anand Traders",
		models.BillItem{GSMNumber: 120, Description: "A4 Maplitho", Quantity: 5, Price: decimal.NewFromInt(10)},
		models.BillItem{GSMNumber: 999, Description: "No Ledger Row", Quantity: 2, Price: decimal.NewFromInt(4)},
	)

	ledger, err := svc.ProfitLedger(ctx, RangeFilter{})
	require.NoError(t, err)
	require.Len(t, ledger, 2)

	matched := ledger[0]
	assert.Equal(t, bill.Number(), matched.BillNumber)
	assert.True(t, matched.ProfitPerUnit.Equal(decimal.NewFromInt(4)))
	assert.True(t, matched.Profit.Equal(decimal.NewFromInt(20)))

	// missing stock row is costed at zero
	orphan := ledger[1]
	assert.True(t, orphan.CostPrice.IsZero())
	assert.True(t, orphan.Profit.Equal(decimal.NewFromInt(8)))
}

func TestMonthlyRollup(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	require.NoError(t, conn.Create(&models.StockItem{
		GSMNumber:    120,
		Description:  "A4 Maplitho",
		CostPrice:    decimal.NewFromInt(6),
		SellingPrice: decimal.NewFromInt(10),
	}).Error)

	seedBill(t, conn, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), "May Customer",
		models.BillItem{GSMNumber: 120, Description: "A4 Maplitho", Quantity: 10, Price: decimal.NewFromInt(10)})
	seedBill(t, conn, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), "June Customer",
		models.BillItem{GSMNumber: 120, Description: "A4 Maplitho", Quantity: 5, Price: decimal.NewFromInt(10)})

	require.NoError(t, conn.Create(&models.Expense{
		Item: "Rent", Qty: 1, Amount: decimal.NewFromInt(15),
		CreatedAt: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	}).Error)

	report, err := svc.Monthly(ctx, RangeFilter{})
	require.NoError(t, err)
	require.Len(t, report.Months, 2)

	may := report.Months[0]
	assert.Equal(t, "2025-05", may.Month)
	assert.True(t, may.Profit.Equal(decimal.NewFromInt(40)))
	assert.True(t, may.Expense.IsZero())
	assert.True(t, may.Net.Equal(decimal.NewFromInt(40)))

	june := report.Months[1]
	assert.Equal(t, "2025-06", june.Month)
	assert.True(t, june.Profit.Equal(decimal.NewFromInt(20)))
	assert.True(t, june.Expense.Equal(decimal.NewFromInt(15)))
	assert.True(t, june.Net.Equal(decimal.NewFromInt(5)))

	assert.True(t, report.Totals.Profit.Equal(decimal.NewFromInt(60)))
	assert.True(t, report.Totals.Expense.Equal(decimal.NewFromInt(15)))
	assert.True(t, report.Totals.Net.Equal(decimal.NewFromInt(45)))
}

func TestRangeFilter(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	require.NoError(t, conn.Create(&models.StockItem{
		GSMNumber:    120,
		Description:  "A4 Maplitho",
		CostPrice:    decimal.NewFromInt(6),
		SellingPrice: decimal.NewFromInt(10),
	}).Error)
	seedBill(t, conn, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), "May Customer",
		models.BillItem{GSMNumber: 120, Description: "A4 Maplitho", Quantity: 1, Price: decimal.NewFromInt(10)})
	seedBill(t, conn, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), "June Customer",
		models.BillItem{GSMNumber: 120, Description: "A4 Maplitho", Quantity: 1, Price: decimal.NewFromInt(10)})

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ledger, err := svc.ProfitLedger(ctx, RangeFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "June Customer", ledger[0].CustomerName)
}

func TestExportXLSX(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	require.NoError(t, conn.Create(&models.StockItem{
		GSMNumber:    120,
		Description:  "A4 Maplitho",
		CostPrice:    decimal.NewFromInt(6),
		SellingPrice: decimal.NewFromInt(10),
	}).Error)
	seedBill(t, conn, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), "Anand Traders",
		models.BillItem{GSMNumber: 120, Description: "A4 Maplitho", Quantity: 5, Price: decimal.NewFromInt(10)})

	raw, err := svc.ExportXLSX(ctx, RangeFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	workbook, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	assert.Contains(t, sheets, "Profit Ledger")
	assert.Contains(t, sheets, "Monthly")

	customer, err := workbook.GetCellValue("Profit Ledger", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Anand Traders", customer)

	month, err := workbook.GetCellValue("Monthly", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2025-06", month)
}
