package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fsenterprise/billing-backend/api/controllers"
	"github.com/fsenterprise/billing-backend/api/middleware"
	billsvc "github.com/fsenterprise/billing-backend/internal/bills"
	"github.com/fsenterprise/billing-backend/internal/customers"
	expensesvc "github.com/fsenterprise/billing-backend/internal/expenses"
	reportsvc "github.com/fsenterprise/billing-backend/internal/reports"
	stocksvc "github.com/fsenterprise/billing-backend/internal/stock"
	"github.com/fsenterprise/billing-backend/pkg/config"
	"github.com/fsenterprise/billing-backend/pkg/logger"
	"github.com/fsenterprise/billing-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	dbP controllers.Pinger,
	cacheP controllers.Pinger,
	stockService stocksvc.Service,
	billService billsvc.Service,
	expenseService expensesvc.Service,
	reportService reportsvc.Service,
	customersCache *customers.Cache,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    cacheP,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/stock", func(r chi.Router) {
			r.Get("/", controllers.StockList(stockService, logg))
			r.Post("/", controllers.StockCreate(stockService, logg))
			r.Get("/low", controllers.StockLowList(stockService, logg))
			r.Route("/{stockId}", func(r chi.Router) {
				r.Get("/", controllers.StockGet(stockService, logg))
				r.Put("/", controllers.StockUpdate(stockService, logg))
				r.Delete("/", controllers.StockDelete(stockService, logg))
			})
		})

		r.Route("/bills", func(r chi.Router) {
			r.Get("/", controllers.BillList(billService, logg))
			r.Post("/", controllers.BillCreate(billService, logg))
			r.Route("/{billId}", func(r chi.Router) {
				r.Get("/", controllers.BillGet(billService, logg))
				r.Put("/", controllers.BillUpdateHeader(billService, logg))
				r.Delete("/", controllers.BillDelete(billService, logg))
				r.Get("/items", controllers.BillItems(billService, logg))
				r.Put("/items", controllers.BillUpdateItems(billService, logg))
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", controllers.ExpenseList(expenseService, logg))
			r.Post("/", controllers.ExpenseCreate(expenseService, logg))
			r.Put("/{expenseId}", controllers.ExpenseUpdate(expenseService, logg))
			r.Delete("/{expenseId}", controllers.ExpenseDelete(expenseService, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/profit-ledger", controllers.ReportProfitLedger(reportService, logg))
			r.Get("/monthly", controllers.ReportMonthly(reportService, logg))
			r.Get("/export", controllers.ReportExport(reportService, logg))
		})

		r.Get("/customers/recent", controllers.CustomersRecent(customersCache, logg))
	})

	return r
}
