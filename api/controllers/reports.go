package controllers

import (
	"net/http"
	"time"

	"github.com/fsenterprise/billing-backend/api/responses"
	"github.com/fsenterprise/billing-backend/api/validators"
	reportsvc "github.com/fsenterprise/billing-backend/internal/reports"
	"github.com/fsenterprise/billing-backend/pkg/logger"
)

func rangeFilterFromQuery(r *http.Request) (reportsvc.RangeFilter, error) {
	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return reportsvc.RangeFilter{}, err
	}
	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return reportsvc.RangeFilter{}, err
	}
	return reportsvc.RangeFilter{From: from, To: to}, nil
}

// ReportProfitLedger returns the per-line profit breakdown.
func ReportProfitLedger(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := rangeFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ledger, err := svc.ProfitLedger(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ledger)
	}
}

// ReportMonthly returns the month-by-month profit/expense/net rollup.
func ReportMonthly(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := rangeFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		report, err := svc.Monthly(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// ReportExport streams the report workbook as an XLSX download.
func ReportExport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := rangeFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		raw, err := svc.ExportXLSX(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := "report-" + time.Now().UTC().Format("20060102") + ".xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename=`+filename)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(raw); err != nil {
			logg.Error(r.Context(), "writing report download failed", err)
		}
	}
}
