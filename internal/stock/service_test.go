package stock

import (
	"context"
	"testing"

	"github.com/fsenterprise/billing-backend/pkg/db/models"
	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:stock_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.StockItem{}); err != nil {
		t.Fatalf("migrate stock items: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateItem(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateItem(ctx, CreateItemInput{
		GSMNumber:    120,
		Description:  "A4 Maplitho",
		Category:     "paper",
		Stock:        20,
		MinimumStock: 5,
		CostPrice:    decimal.NewFromInt(8),
		SellingPrice: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.NotZero(t, dto.ID)
	assert.Equal(t, 120, dto.GSMNumber)
	assert.Equal(t, 20, dto.Stock)
	assert.False(t, dto.LowStock)
}

func TestCreateItemValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreateItemInput{GSMNumber: 0, Description: "x"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.CreateItem(ctx, CreateItemInput{GSMNumber: 100, Description: "   "})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateItemPartial(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemInput{
		GSMNumber:    90,
		Description:  "Kraft Roll",
		Stock:        8,
		MinimumStock: 10,
		CostPrice:    decimal.NewFromInt(5),
		SellingPrice: decimal.NewFromInt(7),
	})
	require.NoError(t, err)

	newStock := 12
	newPrice := decimal.RequireFromString("7.50")
	updated, err := svc.UpdateItem(ctx, created.ID, UpdateItemInput{
		Stock:        &newStock,
		SellingPrice: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Stock)
	assert.True(t, updated.SellingPrice.Equal(newPrice))
	// untouched fields survive
	assert.Equal(t, 90, updated.GSMNumber)
	assert.Equal(t, "Kraft Roll", updated.Description)
}

func TestUpdateItemNotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.UpdateItem(context.Background(), 9999, UpdateItemInput{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemInput{
		GSMNumber: 100, Description: "Art Card", Stock: 3,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, created.ID))

	_, err = svc.GetItem(ctx, created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListLowStock(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	seed := []CreateItemInput{
		{GSMNumber: 100, Description: "Low One", Stock: 2, MinimumStock: 5},
		{GSMNumber: 110, Description: "At Threshold", Stock: 5, MinimumStock: 5},
		{GSMNumber: 120, Description: "Healthy", Stock: 50, MinimumStock: 5},
	}
	for _, in := range seed {
		_, err := svc.CreateItem(ctx, in)
		require.NoError(t, err)
	}

	low, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	for _, dto := range low {
		assert.True(t, dto.LowStock)
	}
}

func TestAdjustMissingKeyIsNoOp(t *testing.T) {
	t.Parallel()
	_, repo := newTestService(t)
	ctx := context.Background()

	affected, err := repo.Adjust(ctx, 555, "Nothing Here", -4)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestAdjustMovesStockRelatively(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemInput{
		GSMNumber: 130, Description: "Duplex Board", Stock: 20,
	})
	require.NoError(t, err)

	affected, err := repo.Adjust(ctx, 130, "Duplex Board", -5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Adjust(ctx, 130, "Duplex Board", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := svc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, got.Stock)
}
