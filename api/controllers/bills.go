package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fsenterprise/billing-backend/api/responses"
	"github.com/fsenterprise/billing-backend/api/validators"
	billsvc "github.com/fsenterprise/billing-backend/internal/bills"
	"github.com/fsenterprise/billing-backend/pkg/enums"
	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/fsenterprise/billing-backend/pkg/logger"
	"github.com/fsenterprise/billing-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

const billDateFormat = "2006-01-02"

type billItemRequest struct {
	GSMNumber   int             `json:"gsm_number" validate:"required,min=1"`
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type createBillRequest struct {
	CustomerName string            `json:"customer_name" validate:"required"`
	BillDate     string            `json:"bill_date,omitempty"`
	PaymentMode  string            `json:"payment_mode,omitempty"`
	Status       string            `json:"status,omitempty"`
	Items        []billItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (req createBillRequest) toInput() (billsvc.CreateBillInput, error) {
	input := billsvc.CreateBillInput{
		CustomerName: req.CustomerName,
		Items:        toItemInputs(req.Items),
	}
	if raw := strings.TrimSpace(req.BillDate); raw != "" {
		parsed, err := time.Parse(billDateFormat, raw)
		if err != nil {
			return billsvc.CreateBillInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bill_date")
		}
		input.BillDate = parsed
	}
	if raw := strings.TrimSpace(req.PaymentMode); raw != "" {
		mode, err := enums.ParsePaymentMode(raw)
		if err != nil {
			return billsvc.CreateBillInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_mode")
		}
		input.PaymentMode = mode
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, err := enums.ParseBillStatus(raw)
		if err != nil {
			return billsvc.CreateBillInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	return input, nil
}

func toItemInputs(items []billItemRequest) []billsvc.BillItemInput {
	out := make([]billsvc.BillItemInput, len(items))
	for i, item := range items {
		out[i] = billsvc.BillItemInput{
			GSMNumber:   item.GSMNumber,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}
	return out
}

// BillCreate creates a bill and deducts sold quantities from stock.
func BillCreate(svc billsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bill service unavailable"))
			return
		}

		var payload createBillRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bill, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bill)
	}
}

// BillList returns one page of bills, newest first.
func BillList(svc billsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BillGet returns one bill with its items.
func BillGet(svc billsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bill, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bill)
	}
}

type updateBillHeaderRequest struct {
	CustomerName *string `json:"customer_name,omitempty"`
	BillDate     *string `json:"bill_date,omitempty"`
	PaymentMode  *string `json:"payment_mode,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// BillUpdateHeader applies a metadata-only update; stock is never touched.
func BillUpdateHeader(svc billsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBillHeaderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := billsvc.UpdateBillHeaderInput{CustomerName: payload.CustomerName}
		if payload.BillDate != nil {
			parsed, err := time.Parse(billDateFormat, strings.TrimSpace(*payload.BillDate))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bill_date"))
				return
			}
			input.BillDate = &parsed
		}
		if payload.PaymentMode != nil {
			mode, err := enums.ParsePaymentMode(strings.TrimSpace(*payload.PaymentMode))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_mode"))
				return
			}
			input.PaymentMode = &mode
		}
		if payload.Status != nil {
			status, err := enums.ParseBillStatus(strings.TrimSpace(*payload.Status))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		bill, err := svc.UpdateHeader(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bill)
	}
}

type updateBillItemsRequest struct {
	Items []billItemRequest `json:"items" validate:"required,min=1,dive"`
}

// BillItems returns the line items of a bill.
func BillItems(svc billsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bill, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bill.Items)
	}
}

// BillUpdateItems reconciles submitted line items against stored ones and
// moves stock by the per-line delta.
func BillUpdateItems(svc billsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBillItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bill, err := svc.UpdateItems(r.Context(), id, toItemInputs(payload.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bill)
	}
}

// BillDelete removes a bill; restocking is governed by the service policy.
func BillDelete(svc billsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": id})
	}
}
