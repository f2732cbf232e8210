package inventory

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Profit utilidad de una venta: cantidad * precio - costo base.
func Profit(quantity, unitPrice, costBasis decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Sub(costBasis)
}

// MarginPct porcentaje de utilidad sobre el ingreso, redondeado a 2 decimales.
// Devuelve nil (no aplica) cuando el ingreso es cero.
func MarginPct(profit, revenue decimal.Decimal) *decimal.Decimal {
	if revenue.IsZero() {
		return nil
	}
	pct := profit.Div(revenue).Mul(hundred).Round(2)
	return &pct
}
