package expenses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsenterprise/billing-backend/pkg/db"
	"github.com/fsenterprise/billing-backend/pkg/db/models"
	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service exposes expense tracking operations.
type Service interface {
	CreateExpense(ctx context.Context, input ExpenseInput) (*ExpenseDTO, error)
	UpdateExpense(ctx context.Context, expenseID uint, input ExpenseInput) (*ExpenseDTO, error)
	DeleteExpense(ctx context.Context, expenseID uint) error
	ListExpenses(ctx context.Context, from, to *time.Time) ([]ExpenseDTO, error)
}

// ExpenseInput holds the validated payload for an expense write.
type ExpenseInput struct {
	Item   string
	Qty    int
	Amount decimal.Decimal
}

// ExpenseDTO represents the expense payload returned to clients.
type ExpenseDTO struct {
	ID        uint            `json:"id"`
	Item      string          `json:"item"`
	Qty       int             `json:"qty"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type service struct {
	repo *Repository
}

// NewService constructs an expense service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expense repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateExpense(ctx context.Context, input ExpenseInput) (*ExpenseDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	qty := input.Qty
	if qty == 0 {
		qty = 1
	}
	expense, err := s.repo.Create(ctx, &models.Expense{
		Item:   strings.TrimSpace(input.Item),
		Qty:    qty,
		Amount: input.Amount,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating expense")
	}
	return newDTO(expense), nil
}

func (s *service) UpdateExpense(ctx context.Context, expenseID uint, input ExpenseInput) (*ExpenseDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	expense, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading expense")
	}

	expense.Item = strings.TrimSpace(input.Item)
	if input.Qty > 0 {
		expense.Qty = input.Qty
	}
	expense.Amount = input.Amount

	if _, err := s.repo.Update(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating expense")
	}
	return newDTO(expense), nil
}

func (s *service) DeleteExpense(ctx context.Context, expenseID uint) error {
	if _, err := s.repo.FindByID(ctx, expenseID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading expense")
	}
	if err := s.repo.Delete(ctx, expenseID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting expense")
	}
	return nil
}

func (s *service) ListExpenses(ctx context.Context, from, to *time.Time) ([]ExpenseDTO, error) {
	rows, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing expenses")
	}
	out := make([]ExpenseDTO, len(rows))
	for i := range rows {
		out[i] = *newDTO(&rows[i])
	}
	return out, nil
}

func validateInput(input ExpenseInput) error {
	if strings.TrimSpace(input.Item) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item required")
	}
	if input.Qty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "qty cannot be negative")
	}
	if input.Amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}
	return nil
}

func newDTO(expense *models.Expense) *ExpenseDTO {
	return &ExpenseDTO{
		ID:        expense.ID,
		Item:      expense.Item,
		Qty:       expense.Qty,
		Amount:    expense.Amount,
		CreatedAt: expense.CreatedAt,
	}
}
