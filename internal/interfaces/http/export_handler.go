package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Metalica-api/internal/application/ledger"
	"github.com/jhoicas/Metalica-api/internal/infrastructure/export"
)

// ExportHandler descargas CSV y XLSX del libro.
type ExportHandler struct {
	svc *ledger.Service
	now func() time.Time
}

// NewExportHandler construye el handler.
func NewExportHandler(svc *ledger.Service) *ExportHandler {
	return &ExportHandler{svc: svc, now: time.Now}
}

func (h *ExportHandler) send(c *fiber.Ctx, prefix, ext string, write func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return writeError(c, err)
	}
	c.Attachment(export.Filename(prefix, ext, h.now()))
	return c.Send(buf.Bytes())
}

// Transactions godoc
// @Summary      Exportar transacciones (CSV)
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Param        metal  query  string  false  "Filtrar por metal"
// @Param        party  query  string  false  "Filtrar por cliente/proveedor"
// @Success      200    {file}  binary
// @Router       /api/exports/transactions.csv [get]
func (h *ExportHandler) Transactions(c *fiber.Ctx) error {
	txs := h.svc.Engine().Transactions(ledger.TransactionFilter{
		Metal: c.Query("metal"),
		Party: c.Query("party"),
		Kind:  c.Query("kind"),
	})
	return h.send(c, "transacciones", "csv", func(b *bytes.Buffer) error {
		return export.WriteTransactionsCSV(b, txs)
	})
}

// Parties godoc
// @Summary      Exportar saldos por cliente/proveedor (CSV)
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/exports/parties.csv [get]
func (h *ExportHandler) Parties(c *fiber.Ctx) error {
	parties := h.svc.Engine().Parties()
	return h.send(c, "clientes", "csv", func(b *bytes.Buffer) error {
		return export.WritePartiesCSV(b, parties)
	})
}

// Expenses godoc
// @Summary      Exportar gastos (CSV)
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/exports/expenses.csv [get]
func (h *ExportHandler) Expenses(c *fiber.Ctx) error {
	expenses := h.svc.Engine().Expenses()
	return h.send(c, "gastos", "csv", func(b *bytes.Buffer) error {
		return export.WriteExpensesCSV(b, expenses)
	})
}

// Lots godoc
// @Summary      Exportar lotes de un metal (CSV)
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Param        name  path  string  true  "Nombre del metal"
// @Success      200   {file}    binary
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/exports/metals/{name}/lots.csv [get]
func (h *ExportHandler) Lots(c *fiber.Ctx) error {
	lots, err := h.svc.Engine().Lots(pathParam(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return h.send(c, "lotes", "csv", func(b *bytes.Buffer) error {
		return export.WriteLotsCSV(b, lots)
	})
}

// Ledger godoc
// @Summary      Exportar libro completo (XLSX)
// @Tags         exports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/exports/ledger.xlsx [get]
func (h *ExportHandler) Ledger(c *fiber.Ctx) error {
	e := h.svc.Engine()
	wb := export.Workbook{
		Transactions: e.Transactions(ledger.TransactionFilter{}),
		Parties:      e.Parties(),
		Metals:       e.Metals(),
		Expenses:     e.Expenses(),
	}
	return h.send(c, "libro", "xlsx", func(b *bytes.Buffer) error {
		return export.WriteLedgerXLSX(b, wb)
	})
}
