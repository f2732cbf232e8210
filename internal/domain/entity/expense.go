package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense gasto misceláneo del negocio (transporte, alquiler...). Se descuenta de la utilidad neta.
type Expense struct {
	ID          string
	Name        string
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}
