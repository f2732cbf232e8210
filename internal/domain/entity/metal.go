package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metal representa un metal en inventario con sus lotes de compra en orden de adquisición.
// El metal es dueño exclusivo de sus lotes; on-hand = Σ Remaining de los lotes.
type Metal struct {
	ID               string
	Name             string
	Unit             string          // kg por defecto
	DefaultBuyPrice  decimal.Decimal // precio de compra sugerido por unidad
	DefaultSalePrice decimal.Decimal // precio de venta sugerido por unidad
	Lots             []*Lot
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OnHand suma la cantidad restante de todos los lotes.
func (m *Metal) OnHand() decimal.Decimal {
	total := decimal.Zero
	for _, l := range m.Lots {
		total = total.Add(l.Remaining)
	}
	return total
}

// CostValue valoriza el stock disponible al costo de cada lote.
func (m *Metal) CostValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range m.Lots {
		total = total.Add(l.Remaining.Mul(l.UnitCost))
	}
	return total
}

// LotByID busca un lote del metal.
func (m *Metal) LotByID(id string) *Lot {
	for _, l := range m.Lots {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// Clone copia el metal y sus lotes (para lecturas fuera del lock y snapshots).
func (m *Metal) Clone() *Metal {
	c := *m
	c.Lots = make([]*Lot, len(m.Lots))
	for i, l := range m.Lots {
		lc := *l
		c.Lots[i] = &lc
	}
	return &c
}
