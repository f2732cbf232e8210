package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party cliente o proveedor. El rol no es fijo: la misma persona puede comprar y vender.
// Balance > 0: el cliente le debe al negocio. Balance < 0: el negocio le debe al proveedor.
type Party struct {
	ID        string
	Name      string
	Entries   []LedgerEntry
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// LedgerEntry movimiento firmado en la cuenta del cliente/proveedor.
// Balance es el saldo acumulado inmediatamente después de aplicar Amount.
type LedgerEntry struct {
	ID            string
	PartyName     string
	TransactionID string
	PaymentID     string // vacío si la entrada proviene de la transacción misma
	Amount        decimal.Decimal
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

// Post agrega una entrada al final del libro y actualiza el saldo en caché.
func (p *Party) Post(e LedgerEntry) LedgerEntry {
	p.Balance = p.Balance.Add(e.Amount)
	e.PartyName = p.Name
	e.Balance = p.Balance
	p.Entries = append(p.Entries, e)
	return e
}

// Clone copia el cliente y su libro.
func (p *Party) Clone() *Party {
	c := *p
	c.Entries = append([]LedgerEntry(nil), p.Entries...)
	return &c
}
