package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/inventory"
)

// DefaultUnit unidad de medida cuando no se indica otra.
const DefaultUnit = "kg"

// MetalInput datos para dar de alta un metal.
type MetalInput struct {
	Name             string
	Unit             string
	DefaultBuyPrice  decimal.Decimal
	DefaultSalePrice decimal.Decimal
}

// AddMetal registra un metal nuevo sin lotes. Devuelve ErrDuplicate si el nombre ya existe.
func (e *Engine) AddMetal(in MetalInput) (*entity.Metal, error) {
	name := entity.NormalizeName(in.Name)
	if name == "" {
		return nil, e.reject("add_metal", domain.InvalidInput("name", in.Name))
	}
	if in.DefaultBuyPrice.IsNegative() {
		return nil, e.reject("add_metal", domain.InvalidAmount("default_buy_price", in.DefaultBuyPrice))
	}
	if in.DefaultSalePrice.IsNegative() {
		return nil, e.reject("add_metal", domain.InvalidAmount("default_sale_price", in.DefaultSalePrice))
	}
	unit := in.Unit
	if unit == "" {
		unit = DefaultUnit
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.metalIndex[name]; ok {
		return nil, e.reject("add_metal", domain.ErrDuplicate)
	}
	now := e.now()
	m := &entity.Metal{
		ID:               e.newID(),
		Name:             name,
		Unit:             unit,
		DefaultBuyPrice:  in.DefaultBuyPrice,
		DefaultSalePrice: in.DefaultSalePrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	e.metals = append(e.metals, m)
	e.metalIndex[name] = m
	e.log.Debug().Str("metal", name).Msg("metal registrado")
	return m.Clone(), nil
}

// SetPrices actualiza los precios sugeridos de compra y venta de un metal.
func (e *Engine) SetPrices(name string, buy, sale decimal.Decimal) (*entity.Metal, error) {
	if buy.IsNegative() {
		return nil, e.reject("set_prices", domain.InvalidAmount("default_buy_price", buy))
	}
	if sale.IsNegative() {
		return nil, e.reject("set_prices", domain.InvalidAmount("default_sale_price", sale))
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.metal(name)
	if err != nil {
		return nil, e.reject("set_prices", err)
	}
	m.DefaultBuyPrice = buy
	m.DefaultSalePrice = sale
	m.UpdatedAt = e.now()
	return m.Clone(), nil
}

// DeleteMetal elimina el metal vivo y sus lotes. Transacciones, pagos y libros de clientes
// no se tocan: siguen mostrando el último nombre conocido del metal.
func (e *Engine) DeleteMetal(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.metal(name)
	if err != nil {
		return e.reject("delete_metal", err)
	}
	delete(e.metalIndex, m.Name)
	for i, x := range e.metals {
		if x == m {
			e.metals = append(e.metals[:i:i], e.metals[i+1:]...)
			break
		}
	}
	e.log.Debug().Str("metal", m.Name).Msg("metal eliminado")
	return nil
}

// Metal devuelve una copia del metal vivo.
func (e *Engine) Metal(name string) (*entity.Metal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, err := e.metal(name)
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

// Metals lista copias de los metales vivos en orden de alta.
func (e *Engine) Metals() []*entity.Metal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*entity.Metal, 0, len(e.metals))
	for _, m := range e.metals {
		out = append(out, m.Clone())
	}
	return out
}

// Lots lista copias de los lotes de un metal en orden de adquisición (incluye agotados).
func (e *Engine) Lots(name string) ([]entity.Lot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, err := e.metal(name)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Lot, 0, len(m.Lots))
	for _, l := range m.Lots {
		out = append(out, *l)
	}
	return out, nil
}

// AddLot agrega un lote al final de la secuencia del metal. Solo afecta la secuencia de lotes:
// no crea transacción ni mueve saldos (para eso RecordPurchase).
func (e *Engine) AddLot(metalName string, quantity, unitCost decimal.Decimal, at time.Time, source string) (*entity.Lot, error) {
	if !quantity.IsPositive() {
		return nil, e.reject("add_lot", domain.InvalidQuantity("quantity", quantity))
	}
	if unitCost.IsNegative() {
		return nil, e.reject("add_lot", domain.InvalidAmount("unit_cost", unitCost))
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.metal(metalName)
	if err != nil {
		return nil, e.reject("add_lot", err)
	}
	lot := e.appendLot(m, quantity, unitCost, at, entity.NormalizeName(source), "")
	c := *lot
	return &c, nil
}

// appendLot requiere write lock.
func (e *Engine) appendLot(m *entity.Metal, quantity, unitCost decimal.Decimal, at time.Time, source, txID string) *entity.Lot {
	lot := &entity.Lot{
		ID:            e.newID(),
		MetalID:       m.ID,
		TransactionID: txID,
		Source:        source,
		Quantity:      quantity,
		Remaining:     quantity,
		UnitCost:      unitCost,
		AcquiredAt:    at,
	}
	m.Lots = append(m.Lots, lot)
	m.UpdatedAt = at
	return lot
}

// Consume retira quantity del metal consumiendo lotes FIFO y devuelve lo tomado de cada lote.
// Atómico: con stock insuficiente no se modifica ningún lote.
func (e *Engine) Consume(metalName string, quantity decimal.Decimal) ([]entity.Consumption, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.metal(metalName)
	if err != nil {
		return nil, e.reject("consume", err)
	}
	plan, err := inventory.Consume(m, quantity)
	if err != nil {
		return nil, e.reject("consume", err)
	}
	m.UpdatedAt = e.now()
	return plan.Consumptions(), nil
}

// PriceRemoval consume quantity del metal y devuelve el costo base de lo retirado.
func (e *Engine) PriceRemoval(metalName string, quantity decimal.Decimal) (decimal.Decimal, []entity.Consumption, error) {
	consumed, err := e.Consume(metalName, quantity)
	if err != nil {
		return decimal.Zero, nil, err
	}
	total := decimal.Zero
	for _, c := range consumed {
		total = total.Add(c.Cost())
	}
	return total, consumed, nil
}
