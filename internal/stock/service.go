package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsenterprise/billing-backend/pkg/db"
	"github.com/fsenterprise/billing-backend/pkg/db/models"
	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const naturalKeyConstraint = "idx_stock_items_natural_key"

// Service exposes stock ledger management operations.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*StockItemDTO, error)
	UpdateItem(ctx context.Context, itemID uint, input UpdateItemInput) (*StockItemDTO, error)
	DeleteItem(ctx context.Context, itemID uint) error
	GetItem(ctx context.Context, itemID uint) (*StockItemDTO, error)
	ListItems(ctx context.Context, filters ListFilters) ([]StockItemDTO, error)
	ListLowStock(ctx context.Context) ([]StockItemDTO, error)
}

// CreateItemInput holds the validated payload to create a stock item.
type CreateItemInput struct {
	GSMNumber    int
	Description  string
	Category     string
	Stock        int
	MinimumStock int
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
}

// UpdateItemInput holds optional mutation values for a stock item.
type UpdateItemInput struct {
	GSMNumber    *int
	Description  *string
	Category     *string
	Stock        *int
	MinimumStock *int
	CostPrice    *decimal.Decimal
	SellingPrice *decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService constructs a stock service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*StockItemDTO, error) {
	if input.GSMNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gsm_number must be positive")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}
	if input.CostPrice.IsNegative() || input.SellingPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}

	item := &models.StockItem{
		GSMNumber:    input.GSMNumber,
		Description:  description,
		Category:     strings.TrimSpace(input.Category),
		Stock:        input.Stock,
		MinimumStock: input.MinimumStock,
		CostPrice:    input.CostPrice,
		SellingPrice: input.SellingPrice,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, naturalKeyConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock item with this gsm_number and description already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating stock item")
	}
	return NewStockItemDTO(created), nil
}

func (s *service) UpdateItem(ctx context.Context, itemID uint, input UpdateItemInput) (*StockItemDTO, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock item")
	}

	if input.GSMNumber != nil {
		if *input.GSMNumber <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "gsm_number must be positive")
		}
		item.GSMNumber = *input.GSMNumber
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
		}
		item.Description = description
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}
	if input.Stock != nil {
		item.Stock = *input.Stock
	}
	if input.MinimumStock != nil {
		item.MinimumStock = *input.MinimumStock
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost_price cannot be negative")
		}
		item.CostPrice = *input.CostPrice
	}
	if input.SellingPrice != nil {
		if input.SellingPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selling_price cannot be negative")
		}
		item.SellingPrice = *input.SellingPrice
	}

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, naturalKeyConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock item with this gsm_number and description already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving stock item")
	}
	return NewStockItemDTO(saved), nil
}

func (s *service) DeleteItem(ctx context.Context, itemID uint) error {
	if _, err := s.repo.FindByID(ctx, itemID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock item")
	}
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting stock item")
	}
	return nil
}

func (s *service) GetItem(ctx context.Context, itemID uint) (*StockItemDTO, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock item")
	}
	return NewStockItemDTO(item), nil
}

func (s *service) ListItems(ctx context.Context, filters ListFilters) ([]StockItemDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing stock items")
	}
	return NewStockItemDTOs(rows), nil
}

func (s *service) ListLowStock(ctx context.Context) ([]StockItemDTO, error) {
	rows, err := s.repo.ListLow(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing low stock items")
	}
	return NewStockItemDTOs(rows), nil
}
