// Package pdf genera el estado de cuenta de un cliente/proveedor en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Negocio               │  Estado de cuenta + fecha  │
//	│  CLIENTE: Nombre + saldo actual                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Concepto | Metal | Cant | Monto | Saldo      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDO FINAL + leyenda de signo                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Metalica-api/internal/application/ledger"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 121, Green: 85, Blue: 72}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ ledger.StatementPDFGenerator = (*MarotoStatementGenerator)(nil)

// MarotoStatementGenerator implementa ledger.StatementPDFGenerator usando Maroto v2.
type MarotoStatementGenerator struct {
	printer *message.Printer
	now     func() time.Time
}

// NewMarotoStatementGenerator construye el generador. Los montos se formatean según lang.
func NewMarotoStatementGenerator(lang language.Tag) *MarotoStatementGenerator {
	return &MarotoStatementGenerator{printer: message.NewPrinter(lang), now: time.Now}
}

// GenerateStatementPDF genera el PDF y devuelve sus bytes.
func (g *MarotoStatementGenerator) GenerateStatementPDF(_ context.Context, doc ledger.StatementDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta "+doc.PartyName, true).
		WithAuthor(doc.BusinessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.partyRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, l := range doc.Lines {
		m.AddRows(g.lineRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(doc.Balance))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Saldo positivo: el cliente debe al negocio. Saldo negativo: el negocio debe al proveedor.",
			props.Text{Size: 7, Color: colorGray, Top: 2}),
	)))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

func (g *MarotoStatementGenerator) headerRow(doc ledger.StatementDocument) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(doc.BusinessName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoStatementGenerator) partyRow(doc ledger.StatementDocument) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("CLIENTE / PROVEEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(doc.PartyName, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}),
		),
		col.New(4).Add(
			text.New("Saldo actual", props.Text{Size: 8, Align: align.Right, Color: colorGray, Top: 1}),
			text.New(g.money(doc.Balance), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6, Color: balanceColor(doc.Balance),
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Concepto", 3, align.Left),
		h("Metal", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Monto", 2, align.Right),
		h("Saldo", 2, align.Right),
	)
}

func (g *MarotoStatementGenerator) lineRow(l ledger.StatementLine) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	qty := ""
	if l.Kind == ledger.EntryKindTransaction {
		qty = g.printer.Sprintf("%.3f", l.Quantity.InexactFloat64())
	}
	return row.New(6).Add(
		cell(l.Entry.CreatedAt.Format("02/01/2006"), 2, align.Left),
		cell(concept(l), 3, align.Left),
		cell(l.MetalName, 2, align.Left),
		cell(qty, 1, align.Right),
		cell(g.money(l.Entry.Amount), 2, align.Right),
		cell(g.money(l.Entry.Balance), 2, align.Right),
	)
}

func (g *MarotoStatementGenerator) totalRow(balance decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("SALDO FINAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(g.money(balance), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: balanceColor(balance), Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *MarotoStatementGenerator) money(v decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", v.InexactFloat64())
}

func balanceColor(v decimal.Decimal) *props.Color {
	if v.IsNegative() {
		return colorRed
	}
	return nil
}

func concept(l ledger.StatementLine) string {
	if l.Kind == ledger.EntryKindPayment {
		return "Abono"
	}
	switch l.TransactionKind {
	case entity.TransactionKindPurchase:
		return "Compra"
	case entity.TransactionKindSale:
		return "Venta"
	case entity.TransactionKindReversal:
		return "Reversión"
	}
	return l.TransactionKind
}
