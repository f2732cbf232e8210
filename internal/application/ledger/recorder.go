package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/inventory"
)

// PurchaseInput entrada para registrar una compra.
// UnitCost nil usa el precio de compra sugerido del metal. AmountPaid nil: total si es contado, 0 si es crédito.
type PurchaseInput struct {
	Metal       string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	Party       string
	PaymentMode string
	AmountPaid  *decimal.Decimal
	Note        string
}

// SaleInput entrada para registrar una venta.
// UnitPrice nil usa el precio de venta sugerido del metal.
type SaleInput struct {
	Metal       string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
	Party       string
	PaymentMode string
	AmountPaid  *decimal.Decimal
	Note        string
}

// PaymentInput abono contra una transacción (TransactionID) o contra el saldo del cliente (Party).
type PaymentInput struct {
	TransactionID string
	Party         string
	Amount        decimal.Decimal
	Note          string
}

// Recorded resultado de una operación del registrador: la transacción creada (si hay),
// los pagos y las entradas de libro publicadas, y el saldo resultante del cliente.
type Recorded struct {
	Transaction *entity.Transaction
	Lots        []entity.Lot
	Payments    []entity.Payment
	Entries     []entity.LedgerEntry
	Balance     decimal.Decimal
	MarginPct   *decimal.Decimal
}

// resolvePayment valida modo y monto pagado contra el total.
func resolvePayment(mode string, amountPaid *decimal.Decimal, total decimal.Decimal) (string, decimal.Decimal, error) {
	if mode == "" {
		mode = entity.PaymentModeCash
	}
	switch mode {
	case entity.PaymentModeCash:
		if amountPaid == nil {
			return mode, total, nil
		}
		if !amountPaid.Equal(total) {
			return "", decimal.Zero, domain.InvalidAmount("amount_paid", *amountPaid)
		}
		return mode, total, nil
	case entity.PaymentModeCredit:
		paid := decimal.Zero
		if amountPaid != nil {
			paid = *amountPaid
		}
		if paid.IsNegative() || paid.GreaterThan(total) {
			return "", decimal.Zero, domain.InvalidAmount("amount_paid", paid)
		}
		return mode, paid, nil
	}
	return "", decimal.Zero, domain.InvalidInput("payment_mode", mode)
}

// RecordPurchase crea el lote, la transacción de compra y publica al proveedor
// -(cantidad*costo - pagado): lo que el negocio queda debiendo.
func (e *Engine) RecordPurchase(in PurchaseInput) (*Recorded, error) {
	if !in.Quantity.IsPositive() {
		return nil, e.reject("record_purchase", domain.InvalidQuantity("quantity", in.Quantity))
	}
	partyName := entity.NormalizeName(in.Party)
	if partyName == "" {
		return nil, e.reject("record_purchase", domain.InvalidInput("party", in.Party))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.metal(in.Metal)
	if err != nil {
		return nil, e.reject("record_purchase", err)
	}
	unitCost := m.DefaultBuyPrice
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}
	if unitCost.IsNegative() {
		return nil, e.reject("record_purchase", domain.InvalidAmount("unit_cost", unitCost))
	}
	total := in.Quantity.Mul(unitCost)
	mode, paid, err := resolvePayment(in.PaymentMode, in.AmountPaid, total)
	if err != nil {
		return nil, e.reject("record_purchase", err)
	}

	// Desde aquí ningún paso puede fallar: el registro es todo o nada.
	now := e.now()
	tx := &entity.Transaction{
		ID:          e.newID(),
		Kind:        entity.TransactionKindPurchase,
		MetalID:     m.ID,
		MetalName:   m.Name,
		Quantity:    in.Quantity,
		UnitPrice:   unitCost,
		PaymentMode: mode,
		AmountPaid:  paid,
		PartyName:   partyName,
		Direction:   entity.DirectionPayable,
		Note:        in.Note,
		CreatedAt:   now,
	}
	lot := e.appendLot(m, in.Quantity, unitCost, now, partyName, tx.ID)
	e.appendTx(tx)
	p := e.partyOrCreate(partyName, now)
	entry := e.post(p, tx.ID, "", decimal.NewFromInt(int64(tx.Direction)).Mul(tx.InitialDue()), now)

	e.log.Debug().Str("tx", tx.ID).Str("metal", m.Name).Str("party", p.Name).
		Str("quantity", tx.Quantity.String()).Str("total", total.String()).Msg("compra registrada")
	return &Recorded{
		Transaction: tx.Clone(),
		Lots:        []entity.Lot{*lot},
		Entries:     []entity.LedgerEntry{entry},
		Balance:     p.Balance,
	}, nil
}

// RecordSale consume lotes FIFO, congela costo base y utilidad en la transacción y publica
// al cliente +(cantidad*precio - pagado): lo que el cliente queda debiendo.
func (e *Engine) RecordSale(in SaleInput) (*Recorded, error) {
	if !in.Quantity.IsPositive() {
		return nil, e.reject("record_sale", domain.InvalidQuantity("quantity", in.Quantity))
	}
	partyName := entity.NormalizeName(in.Party)
	if partyName == "" {
		return nil, e.reject("record_sale", domain.InvalidInput("party", in.Party))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.metal(in.Metal)
	if err != nil {
		return nil, e.reject("record_sale", err)
	}
	unitPrice := m.DefaultSalePrice
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
	}
	if unitPrice.IsNegative() {
		return nil, e.reject("record_sale", domain.InvalidAmount("unit_price", unitPrice))
	}
	total := in.Quantity.Mul(unitPrice)
	mode, paid, err := resolvePayment(in.PaymentMode, in.AmountPaid, total)
	if err != nil {
		return nil, e.reject("record_sale", err)
	}
	plan, err := inventory.PlanConsumption(m, in.Quantity)
	if err != nil {
		return nil, e.reject("record_sale", err)
	}

	now := e.now()
	costBasis := plan.TotalCost()
	tx := &entity.Transaction{
		ID:           e.newID(),
		Kind:         entity.TransactionKindSale,
		MetalID:      m.ID,
		MetalName:    m.Name,
		Quantity:     in.Quantity,
		UnitPrice:    unitPrice,
		PaymentMode:  mode,
		AmountPaid:   paid,
		PartyName:    partyName,
		Direction:    entity.DirectionReceivable,
		Consumptions: plan.Consumptions(),
		CostBasis:    costBasis,
		Profit:       inventory.Profit(in.Quantity, unitPrice, costBasis),
		Note:         in.Note,
		CreatedAt:    now,
	}
	plan.Apply()
	m.UpdatedAt = now
	e.appendTx(tx)
	p := e.partyOrCreate(partyName, now)
	entry := e.post(p, tx.ID, "", tx.InitialDue(), now)

	e.log.Debug().Str("tx", tx.ID).Str("metal", m.Name).Str("party", p.Name).
		Str("quantity", tx.Quantity.String()).Str("cost_basis", costBasis.String()).
		Str("profit", tx.Profit.String()).Msg("venta registrada")
	return &Recorded{
		Transaction: tx.Clone(),
		Entries:     []entity.LedgerEntry{entry},
		Balance:     p.Balance,
		MarginPct:   inventory.MarginPct(tx.Profit, total),
	}, nil
}

// RecordPayment registra un abono. Con TransactionID reduce el pendiente de esa transacción;
// con Party reparte el monto entre las transacciones abiertas del cliente en la dirección de su
// saldo, de la más antigua a la más reciente. Rechaza con ErrOverPayment si el monto supera lo pendiente.
func (e *Engine) RecordPayment(in PaymentInput) (*Recorded, error) {
	if !in.Amount.IsPositive() {
		return nil, e.reject("record_payment", domain.InvalidAmount("amount", in.Amount))
	}
	if in.TransactionID == "" && entity.NormalizeName(in.Party) == "" {
		return nil, e.reject("record_payment", domain.InvalidInput("transaction_id", ""))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if in.TransactionID != "" {
		return e.payTransaction(in)
	}
	return e.payParty(in)
}

// payTransaction requiere write lock.
func (e *Engine) payTransaction(in PaymentInput) (*Recorded, error) {
	tx, ok := e.txIndex[in.TransactionID]
	if !ok {
		return nil, e.reject("record_payment", domain.UnknownTransaction(in.TransactionID))
	}
	out := e.outstanding(tx)
	if in.Amount.GreaterThan(out) {
		return nil, e.reject("record_payment", &domain.OverPaymentError{
			Reference: tx.ID, Requested: in.Amount, Outstanding: out,
		})
	}
	p, err := e.party(tx.PartyName)
	if err != nil {
		return nil, e.reject("record_payment", err)
	}
	now := e.now()
	pay, entry := e.applyPayment(p, tx, entity.PaymentKindPayment, in.Amount, in.Note, now)
	e.log.Debug().Str("tx", tx.ID).Str("party", p.Name).Str("amount", in.Amount.String()).Msg("abono registrado")
	return &Recorded{
		Payments: []entity.Payment{pay},
		Entries:  []entity.LedgerEntry{entry},
		Balance:  p.Balance,
	}, nil
}

// payParty requiere write lock.
func (e *Engine) payParty(in PaymentInput) (*Recorded, error) {
	p, err := e.party(in.Party)
	if err != nil {
		return nil, e.reject("record_payment", err)
	}
	limit := p.Balance.Abs()
	if in.Amount.GreaterThan(limit) {
		return nil, e.reject("record_payment", &domain.OverPaymentError{
			Reference: p.Name, Requested: in.Amount, Outstanding: limit,
		})
	}
	direction := entity.DirectionReceivable
	if p.Balance.IsNegative() {
		direction = entity.DirectionPayable
	}

	// Plan de asignación antes de mutar. Σ pendiente en la dirección del saldo >= |saldo|,
	// por lo que el plan siempre cubre el monto.
	type allocation struct {
		tx     *entity.Transaction
		amount decimal.Decimal
	}
	var plan []allocation
	pending := in.Amount
	for _, tx := range e.txs {
		if !pending.IsPositive() {
			break
		}
		if tx.PartyName != p.Name || tx.Direction != direction {
			continue
		}
		out := e.outstanding(tx)
		if !out.IsPositive() {
			continue
		}
		take := decimal.Min(out, pending)
		plan = append(plan, allocation{tx: tx, amount: take})
		pending = pending.Sub(take)
	}
	if pending.IsPositive() {
		return nil, e.reject("record_payment", &domain.OverPaymentError{
			Reference: p.Name, Requested: in.Amount, Outstanding: in.Amount.Sub(pending),
		})
	}

	now := e.now()
	res := &Recorded{}
	for _, a := range plan {
		pay, entry := e.applyPayment(p, a.tx, entity.PaymentKindPayment, a.amount, in.Note, now)
		res.Payments = append(res.Payments, pay)
		res.Entries = append(res.Entries, entry)
	}
	res.Balance = p.Balance
	e.log.Debug().Str("party", p.Name).Str("amount", in.Amount.String()).
		Int("transactions", len(plan)).Msg("abono a cuenta registrado")
	return res, nil
}

// applyPayment registra el pago y su entrada de libro: reduce el saldo pendiente en la dirección
// de la transacción (venta: -monto; compra: +monto). Requiere write lock.
func (e *Engine) applyPayment(p *entity.Party, tx *entity.Transaction, kind string, amount decimal.Decimal, note string, at time.Time) (entity.Payment, entity.LedgerEntry) {
	pay := &entity.Payment{
		ID:            e.newID(),
		Kind:          kind,
		TransactionID: tx.ID,
		PartyName:     p.Name,
		Amount:        amount,
		Note:          note,
		CreatedAt:     at,
	}
	e.payments = append(e.payments, pay)
	e.paidByTx[tx.ID] = e.paidByTx[tx.ID].Add(amount)
	signed := decimal.NewFromInt(int64(-tx.Direction)).Mul(amount)
	entry := e.post(p, tx.ID, pay.ID, signed, at)
	return *pay, entry
}

// RecordReversal corrige una compra o venta agregando una transacción inversa; nunca edita la original.
//   - Venta: el stock vuelve como lotes nuevos al mismo costo unitario de cada consumo, la utilidad
//     se anula con -utilidad original, y el efecto neto en la cuenta del cliente es -total.
//   - Compra: exige que el lote no se haya tocado (si no, ErrInsufficientStock); el lote queda en cero.
//
// El pendiente de la original se compensa con un pago de tipo offset; lo ya pagado queda como
// pendiente de la reversión (devolución a favor de la contraparte).
func (e *Engine) RecordReversal(txID, note string) (*Recorded, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	orig, ok := e.txIndex[txID]
	if !ok {
		return nil, e.reject("record_reversal", domain.UnknownTransaction(txID))
	}
	if orig.Kind == entity.TransactionKindReversal {
		return nil, e.reject("record_reversal", domain.InvalidInput("transaction_id", txID))
	}
	if _, done := e.reversedBy[orig.ID]; done {
		return nil, e.reject("record_reversal", domain.ErrAlreadyReversed)
	}
	m, err := e.metal(orig.MetalName)
	if err != nil || m.ID != orig.MetalID {
		return nil, e.reject("record_reversal", domain.UnknownMetal(orig.MetalName))
	}
	p, err := e.party(orig.PartyName)
	if err != nil {
		return nil, e.reject("record_reversal", err)
	}

	var purchaseLot *entity.Lot
	if orig.Kind == entity.TransactionKindPurchase {
		for _, l := range m.Lots {
			if l.TransactionID == orig.ID {
				purchaseLot = l
				break
			}
		}
		if purchaseLot == nil {
			return nil, e.reject("record_reversal", domain.ErrNotFound)
		}
		if !purchaseLot.Untouched() {
			return nil, e.reject("record_reversal", &domain.InsufficientStockError{
				Metal: m.Name, Requested: purchaseLot.Quantity, Available: purchaseLot.Remaining,
			})
		}
	}

	now := e.now()
	origOut := e.outstanding(orig)
	mode := entity.PaymentModeCash
	if origOut.LessThan(orig.Total()) {
		mode = entity.PaymentModeCredit
	}
	rev := &entity.Transaction{
		ID:           e.newID(),
		Kind:         entity.TransactionKindReversal,
		MetalID:      orig.MetalID,
		MetalName:    m.Name,
		Quantity:     orig.Quantity,
		UnitPrice:    orig.UnitPrice,
		PaymentMode:  mode,
		AmountPaid:   origOut, // compensado contra el pendiente de la original
		PartyName:    p.Name,
		Direction:    -orig.Direction,
		CostBasis:    orig.CostBasis.Neg(),
		Profit:       orig.Profit.Neg(),
		ReversesID:   orig.ID,
		ReversedKind: orig.Kind,
		Note:         note,
		CreatedAt:    now,
	}

	res := &Recorded{}
	switch orig.Kind {
	case entity.TransactionKindSale:
		for _, c := range orig.Consumptions {
			lot := e.appendLot(m, c.Quantity, c.UnitCost, now, p.Name, rev.ID)
			res.Lots = append(res.Lots, *lot)
		}
	case entity.TransactionKindPurchase:
		purchaseLot.Remaining = decimal.Zero
		m.UpdatedAt = now
		res.Lots = append(res.Lots, *purchaseLot)
	}
	e.appendTx(rev)
	e.reversedBy[orig.ID] = rev.ID

	if origOut.IsPositive() {
		pay, entry := e.applyPayment(p, orig, entity.PaymentKindOffset, origOut, "reversión "+rev.ID, now)
		res.Payments = append(res.Payments, pay)
		res.Entries = append(res.Entries, entry)
	}
	entry := e.post(p, rev.ID, "", decimal.NewFromInt(int64(rev.Direction)).Mul(rev.InitialDue()), now)
	res.Entries = append(res.Entries, entry)
	res.Transaction = rev.Clone()
	res.Balance = p.Balance

	e.log.Debug().Str("tx", rev.ID).Str("reverses", orig.ID).Str("party", p.Name).Msg("reversión registrada")
	return res, nil
}

// appendTx requiere write lock.
func (e *Engine) appendTx(tx *entity.Transaction) {
	e.txs = append(e.txs, tx)
	e.txIndex[tx.ID] = tx
}

// post publica una entrada en el libro del cliente. Requiere write lock.
func (e *Engine) post(p *entity.Party, txID, paymentID string, amount decimal.Decimal, at time.Time) entity.LedgerEntry {
	return p.Post(entity.LedgerEntry{
		ID:            e.newID(),
		TransactionID: txID,
		PaymentID:     paymentID,
		Amount:        amount,
		CreatedAt:     at,
	})
}

// Transaction devuelve una copia de la transacción.
func (e *Engine) Transaction(id string) (*entity.Transaction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	tx, ok := e.txIndex[id]
	if !ok {
		return nil, domain.UnknownTransaction(id)
	}
	return tx.Clone(), nil
}

// TransactionFilter filtros opcionales para listar transacciones.
type TransactionFilter struct {
	Metal string
	Party string
	Kind  string
}

// Transactions lista copias de las transacciones en orden de registro.
func (e *Engine) Transactions(f TransactionFilter) []*entity.Transaction {
	metal := entity.NormalizeName(f.Metal)
	party := entity.NormalizeName(f.Party)
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*entity.Transaction, 0, len(e.txs))
	for _, tx := range e.txs {
		if metal != "" && tx.MetalName != metal {
			continue
		}
		if party != "" && tx.PartyName != party {
			continue
		}
		if f.Kind != "" && tx.Kind != f.Kind {
			continue
		}
		out = append(out, tx.Clone())
	}
	return out
}

// Outstanding saldo pendiente atribuible a una transacción.
func (e *Engine) Outstanding(txID string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	tx, ok := e.txIndex[txID]
	if !ok {
		return decimal.Zero, domain.UnknownTransaction(txID)
	}
	return e.outstanding(tx), nil
}

// ReversedBy devuelve el ID de la reversión de una transacción, o vacío.
func (e *Engine) ReversedBy(txID string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reversedBy[txID]
}

// Payments lista los pagos; con txID vacío devuelve todos.
func (e *Engine) Payments(txID string) []entity.Payment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []entity.Payment
	for _, p := range e.payments {
		if txID == "" || p.TransactionID == txID {
			out = append(out, *p)
		}
	}
	return out
}
