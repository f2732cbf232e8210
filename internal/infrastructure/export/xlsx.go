package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Metalica-api/internal/application/ledger"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// Nombres de las hojas del libro exportado.
const (
	SheetTransactions = "Transactions"
	SheetParties      = "Parties"
	SheetLots         = "Lots"
	SheetExpenses     = "Expenses"
)

// Workbook datos del libro completo para exportar a Excel.
type Workbook struct {
	Transactions []*entity.Transaction
	Parties      []ledger.PartySummary
	Metals       []*entity.Metal
	Expenses     []entity.Expense
}

// WriteLedgerXLSX escribe un .xlsx con una hoja por colección. Los montos van como números.
func WriteLedgerXLSX(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	for _, name := range []string{SheetParties, SheetLots, SheetExpenses} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx: hoja %s: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}

	sheet := sheetWriter{f: f, bold: bold}
	sheet.header(SheetTransactions, transactionHeader)
	for i, t := range wb.Transactions {
		sheet.row(SheetTransactions, i+2, []any{
			t.ID, t.CreatedAt, t.Kind, t.MetalName, t.PartyName,
			num(t.Quantity), num(t.UnitPrice), num(t.Total()),
			t.PaymentMode, num(t.AmountPaid), num(t.CostBasis), num(t.Profit),
			t.ReversesID, t.Note,
		})
	}

	sheet.header(SheetParties, partyHeader)
	for i, p := range wb.Parties {
		sheet.row(SheetParties, i+2, []any{p.Name, num(p.Balance), p.EntryCount, p.CreatedAt})
	}

	sheet.header(SheetLots, append([]string{"metal"}, lotHeader...))
	r := 2
	for _, m := range wb.Metals {
		for _, l := range m.Lots {
			sheet.row(SheetLots, r, []any{
				m.Name, l.ID, l.AcquiredAt, l.Source, num(l.Quantity), num(l.Remaining), num(l.UnitCost), l.TransactionID,
			})
			r++
		}
	}

	sheet.header(SheetExpenses, expenseHeader)
	for i, x := range wb.Expenses {
		sheet.row(SheetExpenses, i+2, []any{x.ID, x.CreatedAt, x.Name, num(x.Amount), x.Description})
	}

	if sheet.err != nil {
		return sheet.err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}

// sheetWriter acumula el primer error para no chequear celda por celda.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (s *sheetWriter) header(sheet string, cols []string) {
	values := make([]any, len(cols))
	for i, c := range cols {
		values[i] = c
	}
	s.row(sheet, 1, values)
	if s.err != nil {
		return
	}
	end, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellStyle(sheet, "A1", end, s.bold); err != nil {
		s.err = fmt.Errorf("xlsx: estilo %s: %w", sheet, err)
	}
}

func (s *sheetWriter) row(sheet string, n int, values []any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetSheetRow(sheet, cell, &values); err != nil {
		s.err = fmt.Errorf("xlsx: %s fila %d: %w", sheet, n, err)
	}
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
