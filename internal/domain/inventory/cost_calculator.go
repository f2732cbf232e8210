package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// CostCalculator costo promedio ponderado incremental (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// AverageUnitCost costo promedio del stock disponible, acumulando lote por lote.
// Los lotes agotados no aportan; sin stock devuelve cero.
func AverageUnitCost(lots []*entity.Lot) decimal.Decimal {
	stock, avg := decimal.Zero, decimal.Zero
	for _, l := range lots {
		if l.Exhausted() {
			continue
		}
		avg = CostCalculator(stock, avg, l.Remaining, l.UnitCost)
		stock = stock.Add(l.Remaining)
	}
	return avg
}
