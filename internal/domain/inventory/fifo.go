package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// Draw cantidad tomada de un lote durante un consumo FIFO.
type Draw struct {
	Lot      *entity.Lot
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// Cost costo de lo tomado del lote.
func (d Draw) Cost() decimal.Decimal {
	return d.Quantity.Mul(d.UnitCost)
}

// Plan resultado de planificar un consumo: no muta lotes hasta Apply.
type Plan struct {
	Draws []Draw
}

// TotalCost costo base de la salida: Σ cantidad_i * costo_i.
func (p Plan) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, d := range p.Draws {
		total = total.Add(d.Cost())
	}
	return total
}

// Consumptions convierte el plan en los registros que se congelan en la venta.
func (p Plan) Consumptions() []entity.Consumption {
	out := make([]entity.Consumption, 0, len(p.Draws))
	for _, d := range p.Draws {
		out = append(out, entity.Consumption{LotID: d.Lot.ID, Quantity: d.Quantity, UnitCost: d.UnitCost})
	}
	return out
}

// Apply descuenta las cantidades planificadas de cada lote.
func (p Plan) Apply() {
	for _, d := range p.Draws {
		d.Lot.Remaining = d.Lot.Remaining.Sub(d.Quantity)
	}
}

// PlanConsumption recorre los lotes en orden de adquisición (orden del slice), salta los agotados
// y toma de cada uno hasta cubrir qty. Si el total disponible no alcanza devuelve
// *domain.InsufficientStockError y ningún lote se modifica.
func PlanConsumption(metal *entity.Metal, qty decimal.Decimal) (Plan, error) {
	if !qty.IsPositive() {
		return Plan{}, domain.InvalidQuantity("quantity", qty)
	}
	available := metal.OnHand()
	if available.LessThan(qty) {
		return Plan{}, &domain.InsufficientStockError{Metal: metal.Name, Requested: qty, Available: available}
	}
	var plan Plan
	pending := qty
	for _, lot := range metal.Lots {
		if !pending.IsPositive() {
			break
		}
		if lot.Exhausted() {
			continue
		}
		take := decimal.Min(lot.Remaining, pending)
		plan.Draws = append(plan.Draws, Draw{Lot: lot, Quantity: take, UnitCost: lot.UnitCost})
		pending = pending.Sub(take)
	}
	return plan, nil
}

// Consume planifica y aplica en un paso.
func Consume(metal *entity.Metal, qty decimal.Decimal) (Plan, error) {
	plan, err := PlanConsumption(metal, qty)
	if err != nil {
		return Plan{}, err
	}
	plan.Apply()
	return plan, nil
}
