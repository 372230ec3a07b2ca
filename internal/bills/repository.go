package bills

import (
	"context"

	"github.com/fsenterprise/billing-backend/pkg/db/models"
	"github.com/fsenterprise/billing-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository wires together bill persistence helpers.
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

// Create inserts the bill header together with its line items.
func (r *Repository) Create(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	if err := r.db.WithContext(ctx).Create(bill).Error; err != nil {
		return nil, err
	}
	return bill, nil
}

// FindByID loads the bill header with its items.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&bill, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// FindHeaderByID loads the bill header without its items.
func (r *Repository) FindHeaderByID(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	if err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

// SaveHeader updates the bill header row.
func (r *Repository) SaveHeader(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Save(bill).Error; err != nil {
		return nil, err
	}
	return bill, nil
}

// FindItem loads the line item matching the bill and stock natural key.
func (r *Repository) FindItem(ctx context.Context, billID uint, gsmNumber int, description string) (*models.BillItem, error) {
	var item models.BillItem
	err := r.db.WithContext(ctx).
		First(&item, "bill_id = ? AND gsm_number = ? AND description = ?", billID, gsmNumber, description).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ItemsByBillID returns all line items for a bill.
func (r *Repository) ItemsByBillID(ctx context.Context, billID uint) ([]models.BillItem, error) {
	var rows []models.BillItem
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateItem inserts a single line item row.
func (r *Repository) CreateItem(ctx context.Context, item *models.BillItem) (*models.BillItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// SaveItem updates an existing line item row.
func (r *Repository) SaveItem(ctx context.Context, item *models.BillItem) (*models.BillItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateSubtotal overwrites the stored header subtotal.
func (r *Repository) UpdateSubtotal(ctx context.Context, billID uint, subtotal decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Bill{}).
		Where("id = ?", billID).
		UpdateColumn("subtotal", subtotal).
		Error
}

// Delete removes a bill and its items. Items are deleted explicitly; the
// FK cascade is not assumed.
func (r *Repository) Delete(ctx context.Context, billID uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("bill_id = ?", billID).Delete(&models.BillItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", billID).Delete(&models.Bill{}).Error
}

// List returns one page of bills ordered newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Bill, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Bill
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}
