package expenses

import (
	"context"
	"time"

	"github.com/fsenterprise/billing-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wires together expense persistence helpers.
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

// FindByID loads an expense by primary key.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// List returns expenses newest first, optionally bounded by created_at.
func (r *Repository) List(ctx context.Context, from, to *time.Time) ([]models.Expense, error) {
	qb := r.db.WithContext(ctx).Model(&models.Expense{})
	if from != nil {
		qb = qb.Where("created_at >= ?", *from)
	}
	if to != nil {
		qb = qb.Where("created_at < ?", *to)
	}

	var rows []models.Expense
	err := qb.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

// Create inserts a new expense row; created_at is assigned by the store.
func (r *Repository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

// Update overwrites the mutable columns only; created_at survives edits.
func (r *Repository) Update(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	err := r.db.WithContext(ctx).
		Model(expense).
		Select("item", "qty", "amount").
		Updates(expense).
		Error
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete removes an expense by ID.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Expense{}).Error
}
