package legacy

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Metalica-api/internal/application/ledger"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

const (
	// UnknownParty reemplaza a la persona vacía en filas antiguas.
	UnknownParty = "desconocido"
	// OpeningSource origen de los lotes de ajuste que cuadran el stock con el archivo.
	OpeningSource = "saldo inicial"
)

// Report resumen de la importación.
type Report struct {
	Metals        int
	Purchases     int
	Sales         int
	Expenses      int
	OpeningLots   int
	DeletedMetals int
	Skipped       []string
	StockMismatch []string
}

// Importer reproduce un data.json sobre un motor nuevo. Cada operación usa la fecha de su fila.
type Importer struct {
	log zerolog.Logger
	loc *time.Location
	now func() time.Time
}

// NewImporter construye el importador. loc es la zona en que se escribieron las fechas.
func NewImporter(log zerolog.Logger, loc *time.Location) *Importer {
	if loc == nil {
		loc = time.Local
	}
	return &Importer{log: log, loc: loc, now: time.Now}
}

// Import devuelve el motor con el historial reproducido.
//
// Orden: metales con sus precios, un lote de saldo inicial por metal cuando el historial no
// explica todo el stock del archivo, historial fila por fila y gastos. El saldo inicial va
// primero en la cola FIFO, así las ventas que lo consumieron se reproducen con su costo. Se
// calcula por pasadas: cada pasada suma el faltante de la anterior hasta que el stock cuadra
// o ninguna venta nueva entra. Metales que solo aparecen en el historial se eliminan al final,
// igual que en la aplicación original, y sus transacciones se conservan.
func (im *Importer) Import(doc *Document) (*ledger.Engine, Report, error) {
	opening := make(map[string]decimal.Decimal)
	for pass := 0; ; pass++ {
		e, rep, err := im.build(doc, opening)
		if err != nil {
			return nil, rep, err
		}
		short, err := shortfalls(e, doc)
		if err != nil {
			return nil, rep, err
		}
		if len(short) > 0 && pass < len(doc.History) {
			for name, qty := range short {
				opening[name] = opening[name].Add(qty)
			}
			im.log.Debug().Int("pass", pass+1).Int("metals", len(short)).Msg("ajustando saldo inicial")
			continue
		}
		return im.finish(e, doc, rep)
	}
}

// build reproduce el documento sobre un motor nuevo con los saldos iniciales dados.
func (im *Importer) build(doc *Document, opening map[string]decimal.Decimal) (*ledger.Engine, Report, error) {
	var rep Report
	at := im.openingDate(doc)
	e := ledger.NewEngine(ledger.WithClock(func() time.Time { return at }))

	for _, m := range doc.Metals {
		if _, err := e.AddMetal(ledger.MetalInput{
			Name:             m.Name,
			DefaultBuyPrice:  m.PricePerKg.Decimal,
			DefaultSalePrice: m.SalePricePerKg.Decimal,
		}); err != nil {
			return nil, rep, fmt.Errorf("legacy: metal %q: %w", m.Name, err)
		}
		rep.Metals++
		if qty, ok := opening[entity.NormalizeName(m.Name)]; ok && qty.IsPositive() {
			if err := addOpeningLot(e, m, qty, at); err != nil {
				return nil, rep, err
			}
			rep.OpeningLots++
		}
	}

	for i, r := range doc.History {
		if t, ok := ParseDate(r.Date, im.loc); ok {
			at = t
		}
		if err := im.replay(e, r); err != nil {
			rep.Skipped = append(rep.Skipped, fmt.Sprintf("fila %d (%s %s): %v", i+1, r.Kind(), r.Metal, err))
			continue
		}
		switch r.Kind() {
		case "purchase":
			if r.Quantity.IsPositive() {
				rep.Purchases++
			}
		case "sale":
			rep.Sales++
		}
	}

	for i, x := range doc.Expenses {
		if t, ok := ParseDate(x.Date, im.loc); ok {
			at = t
		}
		if _, err := e.AddExpense(x.Name, x.Amount.Decimal, x.Description); err != nil {
			rep.Skipped = append(rep.Skipped, fmt.Sprintf("gasto %d (%s): %v", i+1, x.Name, err))
			continue
		}
		rep.Expenses++
	}
	return e, rep, nil
}

// finish cuadra lo que las pasadas no pudieron, informa diferencias y elimina los metales
// que solo aparecen en el historial.
func (im *Importer) finish(e *ledger.Engine, doc *Document, rep Report) (*ledger.Engine, Report, error) {
	at := im.now()
	live := make(map[string]bool, len(doc.Metals))
	for _, m := range doc.Metals {
		live[entity.NormalizeName(m.Name)] = true
		if err := reconcile(e, m, at, &rep); err != nil {
			return nil, rep, err
		}
	}

	for _, m := range e.Metals() {
		if live[m.Name] {
			continue
		}
		if err := e.DeleteMetal(m.Name); err != nil {
			return nil, rep, fmt.Errorf("legacy: eliminar metal %q: %w", m.Name, err)
		}
		rep.DeletedMetals++
	}

	im.log.Info().
		Int("metals", rep.Metals).
		Int("purchases", rep.Purchases).
		Int("sales", rep.Sales).
		Int("expenses", rep.Expenses).
		Int("opening_lots", rep.OpeningLots).
		Int("skipped", len(rep.Skipped)).
		Msg("importación terminada")
	return e, rep, nil
}

// openingDate fecha de los lotes de saldo inicial: la primera fecha legible del historial.
func (im *Importer) openingDate(doc *Document) time.Time {
	for _, r := range doc.History {
		if t, ok := ParseDate(r.Date, im.loc); ok {
			return t
		}
	}
	return im.now()
}

func (im *Importer) replay(e *ledger.Engine, r Record) error {
	price := r.PricePerKg.Decimal
	if err := ensureMetal(e, r.Metal, price); err != nil {
		return err
	}
	party := r.Person
	if entity.NormalizeName(party) == "" {
		party = UnknownParty
	}
	mode, paid := paymentFor(r, r.Quantity.Mul(price))

	switch r.Kind() {
	case "purchase":
		// alta de metal sin cantidad: no genera transacción
		if !r.Quantity.IsPositive() {
			return nil
		}
		_, err := e.RecordPurchase(ledger.PurchaseInput{
			Metal:       r.Metal,
			Quantity:    r.Quantity.Decimal,
			UnitCost:    &price,
			Party:       party,
			PaymentMode: mode,
			AmountPaid:  paid,
			Note:        r.Operation,
		})
		return err
	case "sale":
		_, err := e.RecordSale(ledger.SaleInput{
			Metal:       r.Metal,
			Quantity:    r.Quantity.Decimal,
			UnitPrice:   &price,
			Party:       party,
			PaymentMode: mode,
			AmountPaid:  paid,
			Note:        r.Operation,
		})
		return err
	}
	return domain.InvalidInput("transaction_type", r.TransactionType)
}

// paymentFor contado si lo pagado cubre el total (el archivo guarda totales redondeados a 2
// decimales); crédito con lo pagado en otro caso. Sin paid_amount se asume contado.
func paymentFor(r Record, total decimal.Decimal) (string, *decimal.Decimal) {
	if r.PaidAmount == nil || r.PaidAmount.GreaterThanOrEqual(total.Round(2)) {
		return entity.PaymentModeCash, nil
	}
	paid := decimal.Max(r.PaidAmount.Decimal, decimal.Zero)
	return entity.PaymentModeCredit, &paid
}

func ensureMetal(e *ledger.Engine, name string, price decimal.Decimal) error {
	_, err := e.Metal(name)
	if !errors.Is(err, domain.ErrUnknownMetal) {
		return err
	}
	_, err = e.AddMetal(ledger.MetalInput{Name: name, DefaultBuyPrice: price, DefaultSalePrice: price})
	return err
}

// lotTotals cantidad restante y monto pagado de los lotes del archivo.
func lotTotals(m Metal) (qty, paid decimal.Decimal) {
	for _, l := range m.Lots {
		qty = qty.Add(l.Quantity.Decimal)
		paid = paid.Add(l.TotalPaid.Decimal)
	}
	return qty, paid
}

// shortfalls cantidad que falta por metal para llegar al stock del archivo.
func shortfalls(e *ledger.Engine, doc *Document) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, m := range doc.Metals {
		want, _ := lotTotals(m)
		have, err := e.OnHand(m.Name)
		if err != nil {
			return nil, fmt.Errorf("legacy: stock de %q: %w", m.Name, err)
		}
		if diff := want.Sub(have); diff.IsPositive() {
			out[entity.NormalizeName(m.Name)] = diff
		}
	}
	return out, nil
}

// addOpeningLot lote de saldo inicial al costo promedio de los lotes del archivo.
func addOpeningLot(e *ledger.Engine, m Metal, qty decimal.Decimal, at time.Time) error {
	want, paid := lotTotals(m)
	unitCost := decimal.Zero
	if want.IsPositive() {
		unitCost = paid.Div(want)
	}
	if _, err := e.AddLot(m.Name, qty, unitCost, at, OpeningSource); err != nil {
		return fmt.Errorf("legacy: lote de ajuste %q: %w", m.Name, err)
	}
	return nil
}

// reconcile agrega al final un lote de ajuste si todavía falta stock e informa si sobra.
func reconcile(e *ledger.Engine, m Metal, at time.Time, rep *Report) error {
	want, _ := lotTotals(m)
	have, err := e.OnHand(m.Name)
	if err != nil {
		return fmt.Errorf("legacy: stock de %q: %w", m.Name, err)
	}
	diff := want.Sub(have)
	switch {
	case diff.IsPositive():
		if err := addOpeningLot(e, m, diff, at); err != nil {
			return err
		}
		rep.OpeningLots++
	case diff.IsNegative():
		rep.StockMismatch = append(rep.StockMismatch,
			fmt.Sprintf("%s: archivo %s, reproducido %s", m.Name, want.String(), have.String()))
	}
	return nil
}
