package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jhoicas/Metalica-api/internal/application/ledger"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	transactionHeader = []string{
		"id", "date", "kind", "metal", "party", "quantity", "unit_price", "total",
		"payment_mode", "amount_paid", "cost_basis", "profit", "reverses_id", "note",
	}
	partyHeader   = []string{"name", "balance", "entries", "created_at"}
	expenseHeader = []string{"id", "date", "name", "amount", "description"}
	lotHeader     = []string{"id", "acquired_at", "source", "quantity", "remaining", "unit_cost", "transaction_id"}
)

func transactionRecord(t *entity.Transaction) []string {
	return []string{
		t.ID, t.CreatedAt.Format(timeLayout), t.Kind, t.MetalName, t.PartyName,
		t.Quantity.String(), t.UnitPrice.String(), t.Total().String(),
		t.PaymentMode, t.AmountPaid.String(), t.CostBasis.String(), t.Profit.String(),
		t.ReversesID, t.Note,
	}
}

func partyRecord(p ledger.PartySummary) []string {
	return []string{p.Name, p.Balance.String(), strconv.Itoa(p.EntryCount), p.CreatedAt.Format(timeLayout)}
}

func expenseRecord(x entity.Expense) []string {
	return []string{x.ID, x.CreatedAt.Format(timeLayout), x.Name, x.Amount.String(), x.Description}
}

func lotRecord(l entity.Lot) []string {
	return []string{
		l.ID, l.AcquiredAt.Format(timeLayout), l.Source,
		l.Quantity.String(), l.Remaining.String(), l.UnitCost.String(), l.TransactionID,
	}
}

// WriteTransactionsCSV escribe el historial de transacciones.
func WriteTransactionsCSV(w io.Writer, txs []*entity.Transaction) error {
	return writeCSV(w, transactionHeader, len(txs), func(i int) []string { return transactionRecord(txs[i]) })
}

// WritePartiesCSV escribe los saldos por cliente/proveedor.
func WritePartiesCSV(w io.Writer, parties []ledger.PartySummary) error {
	return writeCSV(w, partyHeader, len(parties), func(i int) []string { return partyRecord(parties[i]) })
}

// WriteExpensesCSV escribe los gastos.
func WriteExpensesCSV(w io.Writer, expenses []entity.Expense) error {
	return writeCSV(w, expenseHeader, len(expenses), func(i int) []string { return expenseRecord(expenses[i]) })
}

// WriteLotsCSV escribe los lotes de un metal en orden de adquisición.
func WriteLotsCSV(w io.Writer, lots []entity.Lot) error {
	return writeCSV(w, lotHeader, len(lots), func(i int) []string { return lotRecord(lots[i]) })
}

func writeCSV(w io.Writer, header []string, n int, record func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(record(i)); err != nil {
			return fmt.Errorf("csv: fila %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename nombre de archivo de exportación con marca de tiempo.
func Filename(prefix, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), ext)
}
