package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de pago.
const (
	PaymentKindPayment = "payment" // abono real del cliente o al proveedor
	PaymentKindOffset  = "offset"  // compensación generada por una reversión
)

// Payment abono (parcial o total) contra el saldo pendiente de una transacción a crédito.
type Payment struct {
	ID            string
	Kind          string
	TransactionID string
	PartyName     string
	Amount        decimal.Decimal
	Note          string
	CreatedAt     time.Time
}
