package stock

import (
	"context"
	"strings"

	"github.com/fsenterprise/billing-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wires together stock ledger persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a stock item by primary key.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByKey loads a stock item by its natural key.
func (r *Repository) FindByKey(ctx context.Context, gsmNumber int, description string) (*models.StockItem, error) {
	var item models.StockItem
	err := r.db.WithContext(ctx).
		First(&item, "gsm_number = ? AND description = ?", gsmNumber, description).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListFilters narrows the stock listing.
type ListFilters struct {
	Category string
	Query    string
}

// List returns stock items ordered by natural key.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.StockItem, error) {
	qb := r.db.WithContext(ctx).Model(&models.StockItem{})
	if filters.Category != "" {
		qb = qb.Where("category = ?", filters.Category)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(description) LIKE ?", pattern)
	}

	var rows []models.StockItem
	err := qb.Order("gsm_number ASC").Order("description ASC").Find(&rows).Error
	return rows, err
}

// ListLow returns items at or below their minimum stock level.
func (r *Repository) ListLow(ctx context.Context) ([]models.StockItem, error) {
	var rows []models.StockItem
	err := r.db.WithContext(ctx).
		Where("stock <= minimum_stock").
		Order("gsm_number ASC").Order("description ASC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new stock item row.
func (r *Repository) Create(ctx context.Context, item *models.StockItem) (*models.StockItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Save updates an existing stock item row.
func (r *Repository) Save(ctx context.Context, item *models.StockItem) (*models.StockItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a stock item by ID.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.StockItem{}).Error
}

// Adjust applies a relative stock movement to the row matching the natural
// key. A key that matches no row affects nothing and is not an error; the
// row count is returned so callers can log the miss.
func (r *Repository) Adjust(ctx context.Context, gsmNumber int, description string, delta int) (int64, error) {
	if delta == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("gsm_number = ? AND description = ?", gsmNumber, description).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	return result.RowsAffected, result.Error
}
