package reports

import (
	"bytes"
	"context"
	"fmt"

	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	ledgerSheet  = "Profit Ledger"
	monthlySheet = "Monthly"
	dateFormat   = "2006-01-02"
)

// ExportXLSX renders the profit ledger and monthly rollup as a two-sheet
// workbook and returns the encoded bytes.
func (s *service) ExportXLSX(ctx context.Context, filter RangeFilter) ([]byte, error) {
	ledger, err := s.ProfitLedger(ctx, filter)
	if err != nil {
		return nil, err
	}
	monthly, err := s.Monthly(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeLedgerSheet(f, ledger); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing ledger sheet")
	}
	if err := writeMonthlySheet(f, monthly); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing monthly sheet")
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "dropping default sheet")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding workbook")
	}
	return buf.Bytes(), nil
}

func writeLedgerSheet(f *excelize.File, ledger []LedgerEntry) error {
	if _, err := f.NewSheet(ledgerSheet); err != nil {
		return err
	}
	headings := []string{"Bill", "Date", "Customer", "GSM", "Description", "Qty", "Price", "Cost", "Profit/Unit", "Profit"}
	if err := writeRow(f, ledgerSheet, 1, toAny(headings)); err != nil {
		return err
	}
	for i, entry := range ledger {
		row := []any{
			entry.BillNumber,
			entry.BillDate.Format(dateFormat),
			entry.CustomerName,
			entry.GSMNumber,
			entry.Description,
			entry.Quantity,
			entry.Price.InexactFloat64(),
			entry.CostPrice.InexactFloat64(),
			entry.ProfitPerUnit.InexactFloat64(),
			entry.Profit.InexactFloat64(),
		}
		if err := writeRow(f, ledgerSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthlySheet(f *excelize.File, report *MonthlyReport) error {
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return err
	}
	headings := []string{"Month", "Profit", "Expense", "Net"}
	if err := writeRow(f, monthlySheet, 1, toAny(headings)); err != nil {
		return err
	}
	rows := append(append([]MonthlyRollup{}, report.Months...), report.Totals)
	for i, rollup := range rows {
		row := []any{
			rollup.Month,
			rollup.Profit.InexactFloat64(),
			rollup.Expense.InexactFloat64(),
			rollup.Net.InexactFloat64(),
		}
		if err := writeRow(f, monthlySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNo int, values []any) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
