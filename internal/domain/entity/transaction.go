package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción.
const (
	TransactionKindPurchase = "purchase"
	TransactionKindSale     = "sale"
	TransactionKindReversal = "reversal"
)

// Modos de pago.
const (
	PaymentModeCash   = "cash"
	PaymentModeCredit = "credit"
)

// Dirección del saldo que genera una transacción para el cliente/proveedor.
const (
	DirectionReceivable = 1  // el cliente le debe al negocio
	DirectionPayable    = -1 // el negocio le debe al proveedor
)

// Consumption registra cuánto se tomó de un lote en una venta y a qué costo.
type Consumption struct {
	LotID    string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// Cost costo atribuido al consumo.
func (c Consumption) Cost() decimal.Decimal {
	return c.Quantity.Mul(c.UnitCost)
}

// Transaction registro inmutable de compra, venta o reversión.
// MetalName conserva el último nombre conocido aunque el metal se elimine después.
type Transaction struct {
	ID           string
	Kind         string
	MetalID      string
	MetalName    string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal // costo unitario en compras, precio de venta en ventas
	PaymentMode  string
	AmountPaid   decimal.Decimal // pagado al crear la transacción
	PartyName    string
	Direction    int
	Consumptions []Consumption // solo ventas
	CostBasis    decimal.Decimal
	Profit       decimal.Decimal // congelado al registrar la venta
	ReversesID   string          // solo reversiones
	ReversedKind string          // tipo de la transacción revertida
	Note         string
	CreatedAt    time.Time
}

// Total monto bruto de la transacción (cantidad * precio unitario).
func (t *Transaction) Total() decimal.Decimal {
	return t.Quantity.Mul(t.UnitPrice)
}

// InitialDue monto pendiente al momento de crear la transacción.
func (t *Transaction) InitialDue() decimal.Decimal {
	return t.Total().Sub(t.AmountPaid)
}

// IsSaleSide indica si la transacción mueve ingresos: ventas y reversiones de ventas.
func (t *Transaction) IsSaleSide() bool {
	return t.Kind == TransactionKindSale || (t.Kind == TransactionKindReversal && t.ReversedKind == TransactionKindSale)
}

// Clone copia la transacción incluyendo los consumos.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Consumptions = append([]Consumption(nil), t.Consumptions...)
	return &c
}
