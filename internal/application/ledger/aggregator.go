package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/inventory"
)

// MetalSummary fila del resumen de inventario por metal.
type MetalSummary struct {
	Name             string
	Unit             string
	OnHand           decimal.Decimal
	CostValue        decimal.Decimal
	AverageCost      decimal.Decimal
	DefaultBuyPrice  decimal.Decimal
	DefaultSalePrice decimal.Decimal
	LotCount         int
	RealizedProfit   decimal.Decimal
}

// InventorySummary resumen general: stock, utilidades y gastos.
type InventorySummary struct {
	Metals              []MetalSummary
	TotalCostValue      decimal.Decimal
	TotalRevenue        decimal.Decimal
	TotalRealizedProfit decimal.Decimal
	TotalExpenses       decimal.Decimal
	NetProfit           decimal.Decimal
	NetMarginPct        *decimal.Decimal
}

// OnHand cantidad disponible del metal.
func (e *Engine) OnHand(metal string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, err := e.metal(metal)
	if err != nil {
		return decimal.Zero, err
	}
	return m.OnHand(), nil
}

// CostValue valor al costo del stock disponible.
func (e *Engine) CostValue(metal string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, err := e.metal(metal)
	if err != nil {
		return decimal.Zero, err
	}
	return m.CostValue(), nil
}

// AverageCost costo unitario promedio ponderado del stock disponible.
func (e *Engine) AverageCost(metal string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, err := e.metal(metal)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.AverageUnitCost(m.Lots), nil
}

// RealizedProfit suma la utilidad congelada de las transacciones del metal vivo.
func (e *Engine) RealizedProfit(metal string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, err := e.metal(metal)
	if err != nil {
		return decimal.Zero, err
	}
	return e.profitOf(m.ID), nil
}

// TotalRealizedProfit suma la utilidad de todas las transacciones, incluidas las de metales eliminados.
func (e *Engine) TotalRealizedProfit() decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profitOf("")
}

// profitOf con metalID vacío suma todo. Requiere lock tomado.
func (e *Engine) profitOf(metalID string) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range e.txs {
		if metalID != "" && tx.MetalID != metalID {
			continue
		}
		total = total.Add(tx.Profit)
	}
	return total
}

// revenue ventas menos reversiones de ventas. Requiere lock tomado.
func (e *Engine) revenue() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range e.txs {
		switch {
		case tx.Kind == entity.TransactionKindSale:
			total = total.Add(tx.Total())
		case tx.IsSaleSide():
			total = total.Sub(tx.Total())
		}
	}
	return total
}

// Summary recalcula el resumen de inventario y utilidades.
func (e *Engine) Summary() InventorySummary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := InventorySummary{
		Metals:              make([]MetalSummary, 0, len(e.metals)),
		TotalCostValue:      decimal.Zero,
		TotalRevenue:        e.revenue(),
		TotalRealizedProfit: e.profitOf(""),
		TotalExpenses:       e.expenseTotal(),
	}
	for _, m := range e.metals {
		row := MetalSummary{
			Name:             m.Name,
			Unit:             m.Unit,
			OnHand:           m.OnHand(),
			CostValue:        m.CostValue(),
			AverageCost:      inventory.AverageUnitCost(m.Lots),
			DefaultBuyPrice:  m.DefaultBuyPrice,
			DefaultSalePrice: m.DefaultSalePrice,
			LotCount:         len(m.Lots),
			RealizedProfit:   e.profitOf(m.ID),
		}
		s.TotalCostValue = s.TotalCostValue.Add(row.CostValue)
		s.Metals = append(s.Metals, row)
	}
	s.NetProfit = s.TotalRealizedProfit.Sub(s.TotalExpenses)
	s.NetMarginPct = inventory.MarginPct(s.NetProfit, s.TotalRevenue)
	return s
}
