package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fsenterprise/billing-backend/api/responses"
	"github.com/fsenterprise/billing-backend/api/validators"
	expensesvc "github.com/fsenterprise/billing-backend/internal/expenses"
	"github.com/fsenterprise/billing-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type expenseRequest struct {
	Item   string          `json:"item" validate:"required"`
	Qty    int             `json:"qty,omitempty" validate:"omitempty,min=1"`
	Amount decimal.Decimal `json:"amount"`
}

// ExpenseList returns expenses, optionally bounded by ?from / ?to dates.
func ExpenseList(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expenses, err := svc.ListExpenses(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, expenses)
	}
}

// ExpenseCreate records an expense.
func ExpenseCreate(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload expenseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expense, err := svc.CreateExpense(r.Context(), expensesvc.ExpenseInput{
			Item:   payload.Item,
			Qty:    payload.Qty,
			Amount: payload.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

// ExpenseUpdate edits an expense; its created_at stays as first recorded.
func ExpenseUpdate(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "expenseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload expenseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expense, err := svc.UpdateExpense(r.Context(), id, expensesvc.ExpenseInput{
			Item:   payload.Item,
			Qty:    payload.Qty,
			Amount: payload.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, expense)
	}
}

// ExpenseDelete removes an expense.
func ExpenseDelete(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "expenseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteExpense(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": id})
	}
}
