package bills

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/fsenterprise/billing-backend/internal/stock"
	"github.com/fsenterprise/billing-backend/pkg/db/models"
	"github.com/fsenterprise/billing-backend/pkg/enums"
	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/fsenterprise/billing-backend/pkg/logger"
	"github.com/fsenterprise/billing-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type recordingRecents struct {
	names []string
}

func (r *recordingRecents) RecordCustomer(ctx context.Context, name string) {
	r.names = append(r.names, name)
}

type testEnv struct {
	db        *gorm.DB
	svc       Service
	stockRepo *stock.Repository
	recents   *recordingRecents
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:bills_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.StockItem{}, &models.Bill{}, &models.BillItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestEnv(t *testing.T, restockOnDelete bool) testEnv {
	t.Helper()
	conn := newTestDB(t)
	stockRepo := stock.NewRepository(conn)
	recents := &recordingRecents{}
	logg := logger.New(logger.Options{ServiceName: "bills-test", Output: io.Discard})

	svc, err := NewService(testTxRunner{db: conn}, NewRepository(conn), stockRepo, logg, recents, restockOnDelete)
	require.NoError(t, err)
	return testEnv{db: conn, svc: svc, stockRepo: stockRepo, recents: recents}
}

func seedStock(t *testing.T, conn *gorm.DB, gsmNumber int, description string, qty int) {
	t.Helper()
	item := &models.StockItem{
		GSMNumber:    gsmNumber,
		Description:  description,
		Stock:        qty,
		CostPrice:    decimal.NewFromInt(6),
		SellingPrice: decimal.NewFromInt(10),
	}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("seed stock: %v", err)
	}
}

func stockLevel(t *testing.T, conn *gorm.DB, gsmNumber int, description string) int {
	t.Helper()
	var item models.StockItem
	if err := conn.First(&item, "gsm_number = ? AND description = ?", gsmNumber, description).Error; err != nil {
		t.Fatalf("load stock: %v", err)
	}
	return item.Stock
}

func billInput(items ...BillItemInput) CreateBillInput {
	return CreateBillInput{
		CustomerName: "Anand Traders",
		BillDate:     time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		Items:        items,
	}
}

func TestCreateBillDeductsStockAndComputesTotals(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)

	bill, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    5,
		Price:       decimal.NewFromInt(10),
	}))
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", bill.Number)
	assert.Equal(t, enums.PaymentModeCash.String(), bill.PaymentMode)
	require.Len(t, bill.Items, 1)
	assert.True(t, bill.Items[0].Total.Equal(decimal.NewFromInt(50)))
	assert.True(t, bill.Subtotal.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 15, stockLevel(t, env.db, 120, "A4 Maplitho"))
	assert.Equal(t, []string{"Anand Traders"}, env.recents.names)
}

func TestCreateBillUnmatchedStockKeyIsTolerated(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)

	bill, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   999,
		Description: "Not In Ledger",
		Quantity:    3,
		Price:       decimal.NewFromInt(4),
	}))
	require.NoError(t, err)
	require.Len(t, bill.Items, 1)
	// ledger untouched
	assert.Equal(t, 20, stockLevel(t, env.db, 120, "A4 Maplitho"))
}

func TestCreateBillNonPositiveQuantitySkipsDeduction(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)

	bill, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    0,
		Price:       decimal.NewFromInt(10),
	}))
	require.NoError(t, err)
	require.Len(t, bill.Items, 1)
	assert.True(t, bill.Subtotal.IsZero())
	assert.Equal(t, 20, stockLevel(t, env.db, 120, "A4 Maplitho"))
}

func TestCreateBillValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()

	cases := []CreateBillInput{
		{CustomerName: "  ", Items: []BillItemInput{{GSMNumber: 1, Description: "x", Quantity: 1}}},
		{CustomerName: "A"},
		billInput(BillItemInput{GSMNumber: 0, Description: "x", Quantity: 1}),
		billInput(BillItemInput{GSMNumber: 1, Description: " ", Quantity: 1}),
		billInput(BillItemInput{GSMNumber: 1, Description: "x", Quantity: 1, Price: decimal.NewFromInt(-1)}),
	}
	for _, input := range cases {
		_, err := env.svc.Create(ctx, input)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
	assert.Empty(t, env.recents.names)
}

func TestUpdateItemsMovesStockByDelta(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)

	bill, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    5,
		Price:       decimal.NewFromInt(10),
	}))
	require.NoError(t, err)
	require.Equal(t, 15, stockLevel(t, env.db, 120, "A4 Maplitho"))

	updated, err := env.svc.UpdateItems(ctx, bill.ID, []BillItemInput{{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    3,
		Price:       decimal.NewFromInt(10),
	}})
	require.NoError(t, err)

	assert.Equal(t, 17, stockLevel(t, env.db, 120, "A4 Maplitho"))
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 3, updated.Items[0].Quantity)
	assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(30)))
}

func TestUpdateItemsUnchangedLineNetsZero(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)

	bill, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    5,
		Price:       decimal.NewFromInt(10),
	}))
	require.NoError(t, err)

	_, err = env.svc.UpdateItems(ctx, bill.ID, []BillItemInput{{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    5,
		Price:       decimal.NewFromInt(10),
	}})
	require.NoError(t, err)
	assert.Equal(t, 15, stockLevel(t, env.db, 120, "A4 Maplitho"))
}

func TestUpdateItemsInsertsNewLine(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)
	seedStock(t, env.db, 90, "Kraft Roll", 10)

	bill, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    5,
		Price:       decimal.NewFromInt(10),
	}))
	require.NoError(t, err)

	updated, err := env.svc.UpdateItems(ctx, bill.ID, []BillItemInput{{
		GSMNumber:   90,
		Description: "Kraft Roll",
		Quantity:    2,
		Price:       decimal.NewFromInt(7),
	}})
	require.NoError(t, err)

	// new line deducts with old quantity treated as zero
	assert.Equal(t, 8, stockLevel(t, env.db, 90, "Kraft Roll"))
	// line absent from the submission is untouched, as is its deduction
	assert.Equal(t, 15, stockLevel(t, env.db, 120, "A4 Maplitho"))
	require.Len(t, updated.Items, 2)
	assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(64)))
}

func TestUpdateItemsBillNotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	_, err := env.svc.UpdateItems(context.Background(), 404, []BillItemInput{{
		GSMNumber: 1, Description: "x", Quantity: 1,
	}})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateHeaderIsIdempotentAndLeavesStockAlone(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)

	bill, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    5,
		Price:       decimal.NewFromInt(10),
	}))
	require.NoError(t, err)

	status := enums.BillStatusPending
	name := "Kumar Papers"
	first, err := env.svc.UpdateHeader(ctx, bill.ID, UpdateBillHeaderInput{CustomerName: &name, Status: &status})
	require.NoError(t, err)
	second, err := env.svc.UpdateHeader(ctx, bill.ID, UpdateBillHeaderInput{CustomerName: &name, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, first.CustomerName, second.CustomerName)
	assert.Equal(t, first.Status, second.Status)
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.Equal(t, 15, stockLevel(t, env.db, 120, "A4 Maplitho"))
}

func TestDeleteBillKeepsDeductionByDefault(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)

	bill, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    5,
		Price:       decimal.NewFromInt(10),
	}))
	require.NoError(t, err)

	_, err = env.svc.UpdateItems(ctx, bill.ID, []BillItemInput{{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    3,
		Price:       decimal.NewFromInt(10),
	}})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, bill.ID))

	_, err = env.svc.Get(ctx, bill.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	var itemCount int64
	require.NoError(t, env.db.Model(&models.BillItem{}).Where("bill_id = ?", bill.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	// past deduction stands
	assert.Equal(t, 17, stockLevel(t, env.db, 120, "A4 Maplitho"))
}

func TestDeleteBillRestocksWhenEnabled(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)

	bill, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    5,
		Price:       decimal.NewFromInt(10),
	}))
	require.NoError(t, err)
	require.Equal(t, 15, stockLevel(t, env.db, 120, "A4 Maplitho"))

	require.NoError(t, env.svc.Delete(ctx, bill.ID))
	assert.Equal(t, 20, stockLevel(t, env.db, 120, "A4 Maplitho"))
}

func TestCreateBillRollsBackOnFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 20)

	// dropping the bill_items table makes the item insert fail mid-transaction
	require.NoError(t, env.db.Migrator().DropTable(&models.BillItem{}))

	_, err := env.svc.Create(ctx, billInput(BillItemInput{
		GSMNumber:   120,
		Description: "A4 Maplitho",
		Quantity:    5,
		Price:       decimal.NewFromInt(10),
	}))
	require.Error(t, err)

	var billCount int64
	require.NoError(t, env.db.Model(&models.Bill{}).Count(&billCount).Error)
	assert.Zero(t, billCount)
	assert.Equal(t, 20, stockLevel(t, env.db, 120, "A4 Maplitho"))
	assert.Empty(t, env.recents.names)
}

func TestListBillsPaginates(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	seedStock(t, env.db, 120, "A4 Maplitho", 100)

	for i := 0; i < 3; i++ {
		_, err := env.svc.Create(ctx, billInput(BillItemInput{
			GSMNumber:   120,
			Description: "A4 Maplitho",
			Quantity:    1,
			Price:       decimal.NewFromInt(10),
		}))
		require.NoError(t, err)
	}

	page, err := env.svc.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Bills, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.Greater(t, page.Bills[0].ID, page.Bills[1].ID)

	rest, err := env.svc.List(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Bills, 1)
	assert.Empty(t, rest.NextCursor)
}
