package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fsenterprise/billing-backend/api/responses"
	"github.com/fsenterprise/billing-backend/api/validators"
	stocksvc "github.com/fsenterprise/billing-backend/internal/stock"
	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/fsenterprise/billing-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// StockList returns the stock ledger, optionally filtered.
func StockList(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := stocksvc.ListFilters{
			Category: r.URL.Query().Get("category"),
			Query:    r.URL.Query().Get("q"),
		}
		items, err := svc.ListItems(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// StockLowList returns items at or below their minimum stock level.
func StockLowList(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// StockGet returns one stock item.
func StockGet(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "stockId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

type createStockItemRequest struct {
	GSMNumber    int             `json:"gsm_number" validate:"required,min=1"`
	Description  string          `json:"description" validate:"required"`
	Category     string          `json:"category,omitempty"`
	Stock        int             `json:"stock,omitempty"`
	MinimumStock int             `json:"minimum_stock,omitempty" validate:"omitempty,min=0"`
	CostPrice    decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice decimal.Decimal `json:"selling_price,omitempty"`
}

// StockCreate adds a stock item to the ledger.
func StockCreate(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		var payload createStockItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), stocksvc.CreateItemInput{
			GSMNumber:    payload.GSMNumber,
			Description:  payload.Description,
			Category:     payload.Category,
			Stock:        payload.Stock,
			MinimumStock: payload.MinimumStock,
			CostPrice:    payload.CostPrice,
			SellingPrice: payload.SellingPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateStockItemRequest struct {
	GSMNumber    *int             `json:"gsm_number,omitempty" validate:"omitempty,min=1"`
	Description  *string          `json:"description,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Stock        *int             `json:"stock,omitempty"`
	MinimumStock *int             `json:"minimum_stock,omitempty" validate:"omitempty,min=0"`
	CostPrice    *decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
}

// StockUpdate applies a partial update to a stock item.
func StockUpdate(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "stockId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStockItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), id, stocksvc.UpdateItemInput{
			GSMNumber:    payload.GSMNumber,
			Description:  payload.Description,
			Category:     payload.Category,
			Stock:        payload.Stock,
			MinimumStock: payload.MinimumStock,
			CostPrice:    payload.CostPrice,
			SellingPrice: payload.SellingPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// StockDelete removes a stock item.
func StockDelete(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "stockId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": id})
	}
}
