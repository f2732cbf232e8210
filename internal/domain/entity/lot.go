package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot es una partida de metal comprada en un momento a un costo unitario.
// UnitCost, AcquiredAt y Quantity son inmutables; Remaining solo decrece y nunca es negativo.
// Un lote agotado se conserva para auditoría y atribución histórica de costo.
type Lot struct {
	ID            string
	MetalID       string
	TransactionID string // compra (o reversión de venta) que lo originó
	Source        string // proveedor
	Quantity      decimal.Decimal
	Remaining     decimal.Decimal
	UnitCost      decimal.Decimal
	AcquiredAt    time.Time
}

// Exhausted indica si el lote ya no tiene cantidad disponible.
func (l *Lot) Exhausted() bool {
	return !l.Remaining.IsPositive()
}

// Untouched indica que no se ha consumido nada del lote.
func (l *Lot) Untouched() bool {
	return l.Remaining.Equal(l.Quantity)
}
