package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fsenterprise/billing-backend/pkg/db/models"
	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const monthKeyFormat = "2006-01"

// Service exposes the reporting aggregator. Every call recomputes from the
// current store state; nothing is cached or persisted.
type Service interface {
	ProfitLedger(ctx context.Context, filter RangeFilter) ([]LedgerEntry, error)
	Monthly(ctx context.Context, filter RangeFilter) (*MonthlyReport, error)
	ExportXLSX(ctx context.Context, filter RangeFilter) ([]byte, error)
}

// RangeFilter optionally bounds a report. From is inclusive, To exclusive.
type RangeFilter struct {
	From *time.Time
	To   *time.Time
}

// LedgerEntry is one bill line with its profit contribution. A line whose
// stock row is gone is reported with cost 0.
type LedgerEntry struct {
	BillID        uint            `json:"bill_id"`
	BillNumber    string          `json:"bill_number"`
	BillDate      time.Time       `json:"bill_date"`
	CustomerName  string          `json:"customer_name"`
	GSMNumber     int             `json:"gsm_number"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	ProfitPerUnit decimal.Decimal `json:"profit_per_unit"`
	Profit        decimal.Decimal `json:"profit"`
}

// MonthlyRollup aggregates one calendar month.
type MonthlyRollup struct {
	Month   string          `json:"month"`
	Profit  decimal.Decimal `json:"profit"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// MonthlyReport is the rollup series plus grand totals.
type MonthlyReport struct {
	Months []MonthlyRollup `json:"months"`
	Totals MonthlyRollup   `json:"totals"`
}

type service struct {
	repo *Repository
}

// NewService constructs a reporting service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ProfitLedger(ctx context.Context, filter RangeFilter) ([]LedgerEntry, error) {
	records, err := s.repo.LedgerRows(ctx, filter.From, filter.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading profit ledger")
	}
	entries := make([]LedgerEntry, len(records))
	for i, record := range records {
		entries[i] = toLedgerEntry(record)
	}
	return entries, nil
}

func (s *service) Monthly(ctx context.Context, filter RangeFilter) (*MonthlyReport, error) {
	ledger, err := s.ProfitLedger(ctx, filter)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.Expenses(ctx, filter.From, filter.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading expenses")
	}
	return buildMonthlyReport(ledger, expenses), nil
}

func toLedgerEntry(record ledgerRecord) LedgerEntry {
	cost := decimal.Zero
	if record.CostPrice.Valid {
		cost = record.CostPrice.Decimal
	}
	perUnit := record.Price.Sub(cost)
	return LedgerEntry{
		BillID:        record.BillID,
		BillNumber:    models.FormatBillNumber(record.BillID),
		BillDate:      record.BillDate,
		CustomerName:  record.CustomerName,
		GSMNumber:     record.GSMNumber,
		Description:   record.Description,
		Quantity:      record.Quantity,
		Price:         record.Price,
		CostPrice:     cost,
		ProfitPerUnit: perUnit,
		Profit:        perUnit.Mul(decimal.NewFromInt(int64(record.Quantity))),
	}
}

func buildMonthlyReport(ledger []LedgerEntry, expenses []models.Expense) *MonthlyReport {
	type bucket struct {
		profit  decimal.Decimal
		expense decimal.Decimal
	}
	buckets := map[string]*bucket{}
	ensure := func(key string) *bucket {
		if b, ok := buckets[key]; ok {
			return b
		}
		b := &bucket{profit: decimal.Zero, expense: decimal.Zero}
		buckets[key] = b
		return b
	}

	for _, entry := range ledger {
		b := ensure(entry.BillDate.Format(monthKeyFormat))
		b.profit = b.profit.Add(entry.Profit)
	}
	for _, expense := range expenses {
		b := ensure(expense.CreatedAt.Format(monthKeyFormat))
		b.expense = b.expense.Add(expense.Amount)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	report := &MonthlyReport{
		Months: make([]MonthlyRollup, len(keys)),
		Totals: MonthlyRollup{Month: "total", Profit: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero},
	}
	for i, key := range keys {
		b := buckets[key]
		rollup := MonthlyRollup{
			Month:   key,
			Profit:  b.profit,
			Expense: b.expense,
			Net:     b.profit.Sub(b.expense),
		}
		report.Months[i] = rollup
		report.Totals.Profit = report.Totals.Profit.Add(rollup.Profit)
		report.Totals.Expense = report.Totals.Expense.Add(rollup.Expense)
		report.Totals.Net = report.Totals.Net.Add(rollup.Net)
	}
	return report
}
