package bills

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsenterprise/billing-backend/internal/stock"
	"github.com/fsenterprise/billing-backend/pkg/db"
	"github.com/fsenterprise/billing-backend/pkg/db/models"
	"github.com/fsenterprise/billing-backend/pkg/enums"
	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/fsenterprise/billing-backend/pkg/logger"
	"github.com/fsenterprise/billing-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type recentRecorder interface {
	RecordCustomer(ctx context.Context, name string)
}

// Service executes bill orchestration: every mutation that touches both the
// bill tables and the stock ledger runs inside one database transaction.
type Service interface {
	Create(ctx context.Context, input CreateBillInput) (*BillDTO, error)
	Get(ctx context.Context, billID uint) (*BillDTO, error)
	List(ctx context.Context, params pagination.Params) (*BillListResult, error)
	UpdateHeader(ctx context.Context, billID uint, input UpdateBillHeaderInput) (*BillDTO, error)
	UpdateItems(ctx context.Context, billID uint, items []BillItemInput) (*BillDTO, error)
	Delete(ctx context.Context, billID uint) error
}

// BillItemInput is one submitted invoice line.
type BillItemInput struct {
	GSMNumber   int
	Description string
	Quantity    int
	Price       decimal.Decimal
}

// CreateBillInput holds the validated payload to create a bill.
type CreateBillInput struct {
	CustomerName string
	BillDate     time.Time
	PaymentMode  enums.PaymentMode
	Status       enums.BillStatus
	Items        []BillItemInput
}

// UpdateBillHeaderInput holds optional metadata-only mutations. Applying it
// never moves stock.
type UpdateBillHeaderInput struct {
	CustomerName *string
	BillDate     *time.Time
	PaymentMode  *enums.PaymentMode
	Status       *enums.BillStatus
}

type service struct {
	tx              txRunner
	repo            *Repository
	stockRepo       *stock.Repository
	logg            *logger.Logger
	recents         recentRecorder
	restockOnDelete bool
}

// NewService builds the bill service. The recents recorder is optional.
func NewService(
	tx txRunner,
	repo *Repository,
	stockRepo *stock.Repository,
	logg *logger.Logger,
	recents recentRecorder,
	restockOnDelete bool,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("bill repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:              tx,
		repo:            repo,
		stockRepo:       stockRepo,
		logg:            logg,
		recents:         recents,
		restockOnDelete: restockOnDelete,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateBillInput) (*BillDTO, error) {
	customer := strings.TrimSpace(input.CustomerName)
	if customer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bill requires at least one item")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	mode := input.PaymentMode
	if mode == "" {
		mode = enums.PaymentModeCash
	}
	if !mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment mode %q", mode))
	}
	status := input.Status
	if status == "" {
		status = enums.BillStatusPaid
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid bill status %q", status))
	}
	billDate := input.BillDate
	if billDate.IsZero() {
		billDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	bill := &models.Bill{
		CustomerName: customer,
		BillDate:     billDate,
		PaymentMode:  mode,
		Status:       status,
		Items:        make([]models.BillItem, len(input.Items)),
	}
	subtotal := decimal.Zero
	for i, in := range input.Items {
		total := in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		bill.Items[i] = models.BillItem{
			GSMNumber:   in.GSMNumber,
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			Price:       in.Price,
			Total:       total,
		}
		subtotal = subtotal.Add(total)
	}
	bill.Subtotal = subtotal

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		stockRepo := s.stockRepo.WithTx(tx)

		if _, err := repo.Create(ctx, bill); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating bill")
		}
		for _, item := range bill.Items {
			if item.Quantity <= 0 {
				continue
			}
			if err := s.adjustStock(ctx, stockRepo, item.GSMNumber, item.Description, -item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.recents != nil {
		s.recents.RecordCustomer(ctx, customer)
	}
	return NewBillDTO(bill), nil
}

func (s *service) Get(ctx context.Context, billID uint) (*BillDTO, error) {
	bill, err := s.repo.FindByID(ctx, billID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading bill")
	}
	return NewBillDTO(bill), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*BillListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing bills")
	}
	result := &BillListResult{
		Bills:      make([]BillDTO, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		result.Bills[i] = *NewBillDTO(&rows[i])
	}
	return result, nil
}

func (s *service) UpdateHeader(ctx context.Context, billID uint, input UpdateBillHeaderInput) (*BillDTO, error) {
	bill, err := s.repo.FindHeaderByID(ctx, billID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading bill")
	}

	if input.CustomerName != nil {
		customer := strings.TrimSpace(*input.CustomerName)
		if customer == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name required")
		}
		bill.CustomerName = customer
	}
	if input.BillDate != nil {
		bill.BillDate = *input.BillDate
	}
	if input.PaymentMode != nil {
		if !input.PaymentMode.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment mode %q", *input.PaymentMode))
		}
		bill.PaymentMode = *input.PaymentMode
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid bill status %q", *input.Status))
		}
		bill.Status = *input.Status
	}

	if _, err := s.repo.SaveHeader(ctx, bill); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving bill header")
	}
	return s.Get(ctx, billID)
}

// UpdateItems reconciles the submitted lines against the stored ones. For
// each line the stock movement is old quantity minus new quantity, so an
// unchanged line nets to zero. Lines absent from the submission are left
// untouched.
func (s *service) UpdateItems(ctx context.Context, billID uint, items []BillItemInput) (*BillDTO, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		stockRepo := s.stockRepo.WithTx(tx)

		if _, err := repo.FindHeaderByID(ctx, billID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading bill")
		}

		for _, in := range items {
			description := strings.TrimSpace(in.Description)
			oldQty := 0
			existing, err := repo.FindItem(ctx, billID, in.GSMNumber, description)
			switch {
			case err == nil:
				oldQty = existing.Quantity
			case db.IsNotFound(err):
				existing = nil
			default:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading bill item")
			}

			if err := s.adjustStock(ctx, stockRepo, in.GSMNumber, description, oldQty-in.Quantity); err != nil {
				return err
			}

			total := in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
			if existing != nil {
				existing.Quantity = in.Quantity
				existing.Price = in.Price
				existing.Total = total
				if _, err := repo.SaveItem(ctx, existing); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving bill item")
				}
				continue
			}
			item := &models.BillItem{
				BillID:      billID,
				GSMNumber:   in.GSMNumber,
				Description: description,
				Quantity:    in.Quantity,
				Price:       in.Price,
				Total:       total,
			}
			if _, err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting bill item")
			}
		}

		stored, err := repo.ItemsByBillID(ctx, billID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading bill items")
		}
		subtotal := decimal.Zero
		for _, item := range stored {
			subtotal = subtotal.Add(item.Total)
		}
		if err := repo.UpdateSubtotal(ctx, billID, subtotal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating bill subtotal")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, billID)
}

// Delete removes the bill and its items. Stock restoration on delete is a
// policy flag; when off, past deductions stand.
func (s *service) Delete(ctx context.Context, billID uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		stockRepo := s.stockRepo.WithTx(tx)

		bill, err := repo.FindByID(ctx, billID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading bill")
		}

		if s.restockOnDelete {
			for _, item := range bill.Items {
				if item.Quantity <= 0 {
					continue
				}
				if err := s.adjustStock(ctx, stockRepo, item.GSMNumber, item.Description, item.Quantity); err != nil {
					return err
				}
			}
		}
		if err := repo.Delete(ctx, billID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting bill")
		}
		return nil
	})
}

// adjustStock applies a relative movement; a line that matches no stock row
// is tolerated and only logged.
func (s *service) adjustStock(ctx context.Context, stockRepo *stock.Repository, gsmNumber int, description string, delta int) error {
	affected, err := stockRepo.Adjust(ctx, gsmNumber, description, delta)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adjusting stock")
	}
	if affected == 0 && delta != 0 {
		s.logg.Warn(s.logg.WithStockKey(ctx, gsmNumber, description), "stock adjustment matched no ledger row")
	}
	return nil
}

func validateItems(items []BillItemInput) error {
	for i, in := range items {
		if in.GSMNumber <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: gsm_number must be positive", i))
		}
		if strings.TrimSpace(in.Description) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: description required", i))
		}
		if in.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: price cannot be negative", i))
		}
	}
	return nil
}
