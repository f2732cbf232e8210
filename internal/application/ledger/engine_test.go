package ledger_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Metalica-api/internal/application/ledger"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// newTestEngine motor con reloj que avanza un segundo por llamada e IDs secuenciales.
func newTestEngine(t *testing.T) *ledger.Engine {
	t.Helper()
	var mu sync.Mutex
	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	seq := 0
	return ledger.NewEngine(
		ledger.WithClock(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			clock = clock.Add(time.Second)
			return clock
		}),
		ledger.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	)
}

func addCopper(t *testing.T, e *ledger.Engine) {
	t.Helper()
	_, err := e.AddMetal(ledger.MetalInput{Name: "copper", DefaultBuyPrice: d("5"), DefaultSalePrice: d("8")})
	require.NoError(t, err)
}

func assertPartyInvariant(t *testing.T, e *ledger.Engine, name string) {
	t.Helper()
	p, err := e.Party(name)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, entry := range p.Entries {
		sum = sum.Add(entry.Amount)
	}
	assert.True(t, p.Balance.Equal(sum), "balance %s != Σ entradas %s", p.Balance, sum)
	if len(p.Entries) > 0 {
		assert.True(t, p.Entries[len(p.Entries)-1].Balance.Equal(p.Balance))
	}
}

func TestCopperScenario(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)

	buy, err := e.RecordPurchase(ledger.PurchaseInput{
		Metal: "copper", Quantity: d("100"), UnitCost: dp("5"), Party: "Ahmed Metals", PaymentMode: entity.PaymentModeCash,
	})
	require.NoError(t, err)
	assert.True(t, buy.Balance.IsZero(), "compra de contado no deja saldo")

	value, err := e.CostValue("copper")
	require.NoError(t, err)
	assert.True(t, value.Equal(d("500")))

	sale, err := e.RecordSale(ledger.SaleInput{
		Metal: "copper", Quantity: d("40"), UnitPrice: dp("8"), Party: "Omar",
		PaymentMode: entity.PaymentModeCredit, AmountPaid: dp("100"),
	})
	require.NoError(t, err)
	assert.True(t, sale.Transaction.CostBasis.Equal(d("200")))
	assert.True(t, sale.Transaction.Profit.Equal(d("120")))
	assert.True(t, sale.Balance.Equal(d("220")))
	require.NotNil(t, sale.MarginPct)
	assert.Equal(t, "37.5", sale.MarginPct.String())

	onHand, err := e.OnHand("copper")
	require.NoError(t, err)
	assert.True(t, onHand.Equal(d("60")))

	pay, err := e.RecordPayment(ledger.PaymentInput{Party: "Omar", Amount: d("220")})
	require.NoError(t, err)
	assert.True(t, pay.Balance.IsZero())
	require.Len(t, pay.Payments, 1)
	assert.Equal(t, sale.Transaction.ID, pay.Payments[0].TransactionID)

	_, err = e.RecordPayment(ledger.PaymentInput{Party: "Omar", Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrOverPayment)
	_, err = e.RecordPayment(ledger.PaymentInput{TransactionID: sale.Transaction.ID, Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrOverPayment)

	assertPartyInvariant(t, e, "Omar")
	assertPartyInvariant(t, e, "Ahmed Metals")

	// Eliminar el metal no borra la utilidad realizada.
	require.NoError(t, e.DeleteMetal("copper"))
	assert.True(t, e.TotalRealizedProfit().Equal(d("120")))
	_, err = e.OnHand("copper")
	assert.ErrorIs(t, err, domain.ErrUnknownMetal)
	_, err = e.RealizedProfit("copper")
	assert.ErrorIs(t, err, domain.ErrUnknownMetal)

	lines, err := e.Statement("Omar")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "copper", lines[0].MetalName, "conserva el último nombre conocido")
	assert.Equal(t, ledger.EntryKindPayment, lines[1].Kind)
}

func TestRecordSale_InsufficientStockLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("5"), UnitCost: dp("10"), Party: "S"})
	require.NoError(t, err)
	_, err = e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("5"), UnitCost: dp("20"), Party: "S"})
	require.NoError(t, err)
	before, err := e.Lots("copper")
	require.NoError(t, err)

	_, err = e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("11"), UnitPrice: dp("30"), Party: "C"})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Available.Equal(d("10")))

	after, err := e.Lots("copper")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, e.Transactions(ledger.TransactionFilter{Kind: entity.TransactionKindSale}))
	_, err = e.Party("C")
	assert.ErrorIs(t, err, domain.ErrUnknownParty, "la venta rechazada no crea el cliente")
}

func TestRecordSale_FIFOCostBasis(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	for _, cost := range []string{"10", "20"} {
		_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("5"), UnitCost: dp(cost), Party: "S"})
		require.NoError(t, err)
	}

	r, err := e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("7"), UnitPrice: dp("30"), Party: "C"})
	require.NoError(t, err)
	assert.True(t, r.Transaction.CostBasis.Equal(d("90")))
	require.Len(t, r.Transaction.Consumptions, 2)
	assert.True(t, r.Transaction.Consumptions[1].Quantity.Equal(d("2")))

	// La utilidad congelada no cambia con compras posteriores.
	_, err = e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("50"), UnitCost: dp("1"), Party: "S"})
	require.NoError(t, err)
	tx, err := e.Transaction(r.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, tx.Profit.Equal(d("120")))
	profit, err := e.RealizedProfit("copper")
	require.NoError(t, err)
	assert.True(t, profit.Equal(d("120")))
}

func TestOnHandConservation(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	purchased, sold := decimal.Zero, decimal.Zero
	ops := []struct {
		buy bool
		qty string
	}{
		{true, "10"}, {false, "3"}, {true, "2.5"}, {false, "9.5"}, {true, "4"}, {false, "0.25"},
	}
	for _, op := range ops {
		if op.buy {
			_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d(op.qty), Party: "S"})
			require.NoError(t, err)
			purchased = purchased.Add(d(op.qty))
		} else {
			_, err := e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d(op.qty), Party: "C"})
			require.NoError(t, err)
			sold = sold.Add(d(op.qty))
		}
		onHand, err := e.OnHand("copper")
		require.NoError(t, err)
		lots, err := e.Lots("copper")
		require.NoError(t, err)
		sum := decimal.Zero
		for _, l := range lots {
			sum = sum.Add(l.Remaining)
		}
		assert.True(t, onHand.Equal(sum))
		assert.True(t, onHand.Equal(purchased.Sub(sold)))
	}
}

func TestRecordPurchase_PaymentModes(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		paid    *decimal.Decimal
		wantErr error
		balance string
	}{
		{name: "contado sin monto", mode: entity.PaymentModeCash, balance: "0"},
		{name: "modo vacío es contado", mode: "", balance: "0"},
		{name: "contado incompleto", mode: entity.PaymentModeCash, paid: dp("10"), wantErr: domain.ErrInvalidAmount},
		{name: "crédito sin abono", mode: entity.PaymentModeCredit, balance: "-50"},
		{name: "crédito con abono", mode: entity.PaymentModeCredit, paid: dp("20"), balance: "-30"},
		{name: "crédito mayor al total", mode: entity.PaymentModeCredit, paid: dp("60"), wantErr: domain.ErrInvalidAmount},
		{name: "crédito negativo", mode: entity.PaymentModeCredit, paid: dp("-1"), wantErr: domain.ErrInvalidAmount},
		{name: "modo desconocido", mode: "barter", wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			addCopper(t, e)
			r, err := e.RecordPurchase(ledger.PurchaseInput{
				Metal: "copper", Quantity: d("10"), UnitCost: dp("5"), Party: "Supplier",
				PaymentMode: tt.mode, AmountPaid: tt.paid,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				onHand, _ := e.OnHand("copper")
				assert.True(t, onHand.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, r.Balance.Equal(d(tt.balance)), "balance %s", r.Balance)
		})
	}
}

func TestRecord_RejectsInvalidInput(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)

	_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("0"), Party: "S"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("-1"), Party: "C"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = e.RecordPurchase(ledger.PurchaseInput{Metal: "gold", Quantity: d("1"), Party: "S"})
	assert.ErrorIs(t, err, domain.ErrUnknownMetal)
	_, err = e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("1"), Party: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.RecordPayment(ledger.PaymentInput{Party: "nobody", Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrUnknownParty)
	_, err = e.RecordPayment(ledger.PaymentInput{TransactionID: "missing", Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrUnknownTransaction)
	_, err = e.RecordPayment(ledger.PaymentInput{Party: "S", Amount: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = e.AddMetal(ledger.MetalInput{Name: " copper "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRecordPayment_PartyAllocatesOldestFirst(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("100"), Party: "S"})
	require.NoError(t, err)

	first, err := e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("10"), Party: "C", PaymentMode: entity.PaymentModeCredit})
	require.NoError(t, err)
	second, err := e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("5"), Party: "C", PaymentMode: entity.PaymentModeCredit})
	require.NoError(t, err)
	assert.True(t, second.Balance.Equal(d("120")))

	r, err := e.RecordPayment(ledger.PaymentInput{Party: "C", Amount: d("100")})
	require.NoError(t, err)
	require.Len(t, r.Payments, 2)
	assert.Equal(t, first.Transaction.ID, r.Payments[0].TransactionID)
	assert.True(t, r.Payments[0].Amount.Equal(d("80")))
	assert.True(t, r.Payments[1].Amount.Equal(d("20")))
	assert.True(t, r.Balance.Equal(d("20")))

	out, err := e.Outstanding(second.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, out.Equal(d("20")))

	var opErr *domain.OverPaymentError
	_, err = e.RecordPayment(ledger.PaymentInput{Party: "C", Amount: d("21")})
	require.True(t, errors.As(err, &opErr))
	assert.True(t, opErr.Outstanding.Equal(d("20")))
	assertPartyInvariant(t, e, "C")
}

func TestRecordPayment_SupplierBalance(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	buy, err := e.RecordPurchase(ledger.PurchaseInput{
		Metal: "copper", Quantity: d("10"), UnitCost: dp("5"), Party: "S", PaymentMode: entity.PaymentModeCredit,
	})
	require.NoError(t, err)
	assert.True(t, buy.Balance.Equal(d("-50")))

	r, err := e.RecordPayment(ledger.PaymentInput{TransactionID: buy.Transaction.ID, Amount: d("30")})
	require.NoError(t, err)
	assert.True(t, r.Entries[0].Amount.Equal(d("30")))
	assert.True(t, r.Balance.Equal(d("-20")))

	r, err = e.RecordPayment(ledger.PaymentInput{Party: "S", Amount: d("20")})
	require.NoError(t, err)
	assert.True(t, r.Balance.IsZero())

	_, err = e.RecordPayment(ledger.PaymentInput{Party: "S", Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrOverPayment)
}

func TestRecordReversal_Sale(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("5"), UnitCost: dp("10"), Party: "S"})
	require.NoError(t, err)
	_, err = e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("5"), UnitCost: dp("20"), Party: "S"})
	require.NoError(t, err)
	sale, err := e.RecordSale(ledger.SaleInput{
		Metal: "copper", Quantity: d("7"), UnitPrice: dp("30"), Party: "C",
		PaymentMode: entity.PaymentModeCredit, AmountPaid: dp("50"),
	})
	require.NoError(t, err)
	require.True(t, sale.Balance.Equal(d("160")))

	rev, err := e.RecordReversal(sale.Transaction.ID, "error de báscula")
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionKindReversal, rev.Transaction.Kind)
	assert.Equal(t, sale.Transaction.ID, rev.Transaction.ReversesID)
	assert.True(t, rev.Transaction.Profit.Equal(d("-120")))
	// Queda a favor del cliente lo que pagó al contado.
	assert.True(t, rev.Balance.Equal(d("-50")))
	require.Len(t, rev.Lots, 2)
	assert.True(t, rev.Lots[0].UnitCost.Equal(d("10")))
	assert.True(t, rev.Lots[1].UnitCost.Equal(d("20")))

	onHand, err := e.OnHand("copper")
	require.NoError(t, err)
	assert.True(t, onHand.Equal(d("10")))
	value, err := e.CostValue("copper")
	require.NoError(t, err)
	assert.True(t, value.Equal(d("150")))
	assert.True(t, e.TotalRealizedProfit().IsZero())
	assert.True(t, e.Summary().TotalRevenue.IsZero())

	out, err := e.Outstanding(sale.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, out.IsZero())
	assert.Equal(t, rev.Transaction.ID, e.ReversedBy(sale.Transaction.ID))

	_, err = e.RecordReversal(sale.Transaction.ID, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
	_, err = e.RecordReversal(rev.Transaction.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El reembolso se liquida como abono de la reversión.
	refund, err := e.RecordPayment(ledger.PaymentInput{Party: "C", Amount: d("50")})
	require.NoError(t, err)
	assert.True(t, refund.Balance.IsZero())
	assertPartyInvariant(t, e, "C")
}

func TestRecordReversal_Purchase(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	buy, err := e.RecordPurchase(ledger.PurchaseInput{
		Metal: "copper", Quantity: d("10"), UnitCost: dp("5"), Party: "S", PaymentMode: entity.PaymentModeCredit,
	})
	require.NoError(t, err)

	rev, err := e.RecordReversal(buy.Transaction.ID, "")
	require.NoError(t, err)
	assert.True(t, rev.Balance.IsZero())
	assert.Equal(t, entity.DirectionReceivable, rev.Transaction.Direction)
	onHand, err := e.OnHand("copper")
	require.NoError(t, err)
	assert.True(t, onHand.IsZero())
	assertPartyInvariant(t, e, "S")
}

func TestRecordReversal_PurchaseAlreadyConsumed(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	buy, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("10"), Party: "S"})
	require.NoError(t, err)
	_, err = e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("1"), Party: "C"})
	require.NoError(t, err)

	_, err = e.RecordReversal(buy.Transaction.ID, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, e.ReversedBy(buy.Transaction.ID))
}

func TestHistory_BoundToEntriesAtCall(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("10"), Party: "S", PaymentMode: entity.PaymentModeCredit})
	require.NoError(t, err)

	seq, err := e.History("S")
	require.NoError(t, err)
	_, err = e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("1"), Party: "S", PaymentMode: entity.PaymentModeCredit})
	require.NoError(t, err)

	for range 2 {
		n := 0
		for line := range seq {
			n++
			assert.Equal(t, entity.TransactionKindPurchase, line.TransactionKind)
			assert.True(t, line.Entry.Balance.Equal(d("-50")))
		}
		assert.Equal(t, 1, n)
	}

	_, err = e.History("nobody")
	assert.ErrorIs(t, err, domain.ErrUnknownParty)
}

func TestAddParty(t *testing.T) {
	e := newTestEngine(t)
	p, err := e.AddParty("  Omar   Saleh ")
	require.NoError(t, err)
	assert.Equal(t, "Omar Saleh", p.Name)
	_, err = e.AddParty("Omar Saleh")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	parties := e.Parties()
	require.Len(t, parties, 1)
	assert.Equal(t, 0, parties[0].EntryCount)
	assert.True(t, parties[0].Balance.IsZero())
}

func TestSummary_NetProfit(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("100"), Party: "S"})
	require.NoError(t, err)
	_, err = e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("40"), Party: "C"})
	require.NoError(t, err)
	x, err := e.AddExpense("transporte", d("20"), "")
	require.NoError(t, err)
	_, err = e.AddExpense("alquiler", d("0"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	s := e.Summary()
	require.Len(t, s.Metals, 1)
	assert.True(t, s.Metals[0].OnHand.Equal(d("60")))
	assert.True(t, s.Metals[0].AverageCost.Equal(d("5")))
	assert.True(t, s.TotalRevenue.Equal(d("320")))
	assert.True(t, s.TotalExpenses.Equal(d("20")))
	assert.True(t, s.NetProfit.Equal(d("100")))
	require.NotNil(t, s.NetMarginPct)
	assert.Equal(t, "31.25", s.NetMarginPct.String())

	require.NoError(t, e.DeleteExpense(x.ID))
	assert.ErrorIs(t, e.DeleteExpense(x.ID), domain.ErrNotFound)
	assert.True(t, e.Summary().NetProfit.Equal(d("120")))
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("100"), Party: "S"})
	require.NoError(t, err)
	sale, err := e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("40"), Party: "C", PaymentMode: entity.PaymentModeCredit})
	require.NoError(t, err)
	_, err = e.RecordPayment(ledger.PaymentInput{TransactionID: sale.Transaction.ID, Amount: d("100")})
	require.NoError(t, err)

	snap := e.Snapshot()
	restored := newTestEngine(t)
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, e.Summary(), restored.Summary())
	out, err := restored.Outstanding(sale.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, out.Equal(d("220")))

	// Mutar el motor restaurado no afecta el snapshot original.
	_, err = restored.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("1"), Party: "C"})
	require.NoError(t, err)
	assert.True(t, snap.Metals[0].OnHand().Equal(d("60")))
}

func TestRestore_RejectsBrokenInvariants(t *testing.T) {
	build := func(t *testing.T) *entity.Snapshot {
		e := newTestEngine(t)
		addCopper(t, e)
		_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("10"), Party: "S", PaymentMode: entity.PaymentModeCredit})
		require.NoError(t, err)
		return e.Snapshot()
	}
	tests := []struct {
		name   string
		mutate func(s *entity.Snapshot)
	}{
		{"lote con restante mayor a la cantidad", func(s *entity.Snapshot) { s.Metals[0].Lots[0].Remaining = d("11") }},
		{"lote con restante negativo", func(s *entity.Snapshot) { s.Metals[0].Lots[0].Remaining = d("-1") }},
		{"saldo que no cuadra", func(s *entity.Snapshot) { s.Parties[0].Balance = d("1") }},
		{"saldo acumulado incorrecto", func(s *entity.Snapshot) { s.Parties[0].Entries[0].Balance = d("3") }},
		{"entrada con transacción desconocida", func(s *entity.Snapshot) { s.Parties[0].Entries[0].TransactionID = "x" }},
		{"metal duplicado", func(s *entity.Snapshot) { s.Metals = append(s.Metals, s.Metals[0]) }},
		{"pago mayor al saldo", func(s *entity.Snapshot) {
			s.Payments = append(s.Payments, &entity.Payment{ID: "p", TransactionID: s.Transactions[0].ID, Amount: d("51")})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newTestEngine(t)
			addCopper(t, target)
			snap := build(t)
			tt.mutate(snap)
			assert.ErrorIs(t, target.Restore(snap), domain.ErrInvalidInput)
			_, err := target.Metal("copper")
			assert.NoError(t, err, "el estado previo se conserva")
		})
	}
}

func TestEngine_ConcurrentSalesAndReads(t *testing.T) {
	e := newTestEngine(t)
	addCopper(t, e)
	_, err := e.RecordPurchase(ledger.PurchaseInput{Metal: "copper", Quantity: d("100"), Party: "S"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0
	for i := 0; i < 150; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := e.RecordSale(ledger.SaleInput{Metal: "copper", Quantity: d("1"), Party: "C", PaymentMode: entity.PaymentModeCredit})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}()
		go func() {
			defer wg.Done()
			s := e.Summary()
			assert.True(t, s.Metals[0].OnHand.GreaterThanOrEqual(decimal.Zero))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, failures)
	onHand, err := e.OnHand("copper")
	require.NoError(t, err)
	assert.True(t, onHand.IsZero())
	bal, err := e.Balance("C")
	require.NoError(t, err)
	assert.True(t, bal.Equal(d("800")))
	assertPartyInvariant(t, e, "C")
}
