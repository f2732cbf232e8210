package ledger

import (
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// Tipos de línea de estado de cuenta.
const (
	EntryKindTransaction = "transaction"
	EntryKindPayment     = "payment"
)

// PartySummary fila del listado de clientes/proveedores.
type PartySummary struct {
	Name       string
	Balance    decimal.Decimal
	EntryCount int
	CreatedAt  time.Time
}

// StatementLine línea del estado de cuenta: la entrada del libro más los datos de la transacción
// que la originó. MetalName es el último nombre conocido aunque el metal ya no exista.
type StatementLine struct {
	Entry           entity.LedgerEntry
	Kind            string // transaction o payment
	TransactionKind string
	MetalName       string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	Total           decimal.Decimal
	Note            string
}

// AddParty registra un cliente/proveedor explícitamente. ErrDuplicate si ya existe.
func (e *Engine) AddParty(name string) (*entity.Party, error) {
	key := entity.NormalizeName(name)
	if key == "" {
		return nil, e.reject("add_party", domain.InvalidInput("name", name))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.partyIndex[key]; ok {
		return nil, e.reject("add_party", domain.ErrDuplicate)
	}
	p := e.partyOrCreate(key, e.now())
	return p.Clone(), nil
}

// DeleteParty elimina un cliente/proveedor sin movimientos. Si tiene entradas en el libro
// (aunque el saldo sea cero) se rechaza con ErrConflict: el libro es de solo agregado.
func (e *Engine) DeleteParty(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.party(name)
	if err != nil {
		return e.reject("delete_party", err)
	}
	if len(p.Entries) > 0 || !p.Balance.IsZero() {
		return e.reject("delete_party", fmt.Errorf("%w: %q tiene %d movimientos en su libro",
			domain.ErrConflict, p.Name, len(p.Entries)))
	}
	for _, tx := range e.txs {
		if tx.PartyName == p.Name {
			return e.reject("delete_party", fmt.Errorf("%w: %q figura en la transacción %s",
				domain.ErrConflict, p.Name, tx.ID))
		}
	}
	delete(e.partyIndex, p.Name)
	for i, x := range e.parties {
		if x == p {
			e.parties = append(e.parties[:i:i], e.parties[i+1:]...)
			break
		}
	}
	e.log.Debug().Str("party", p.Name).Msg("cliente eliminado")
	return nil
}

// Party devuelve una copia del cliente con su libro.
func (e *Engine) Party(name string) (*entity.Party, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, err := e.party(name)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Balance saldo firmado del cliente.
func (e *Engine) Balance(name string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, err := e.party(name)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Balance, nil
}

// Parties lista los clientes/proveedores en orden de alta.
func (e *Engine) Parties() []PartySummary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]PartySummary, 0, len(e.parties))
	for _, p := range e.parties {
		out = append(out, PartySummary{
			Name:       p.Name,
			Balance:    p.Balance,
			EntryCount: len(p.Entries),
			CreatedAt:  p.CreatedAt,
		})
	}
	return out
}

// History devuelve el estado de cuenta del cliente como secuencia perezosa. La secuencia queda
// ligada a las entradas existentes al llamar History: las posteriores no aparecen, y puede
// recorrerse varias veces con el mismo resultado.
func (e *Engine) History(name string) (iter.Seq[StatementLine], error) {
	e.mu.RLock()
	p, err := e.party(name)
	if err != nil {
		e.mu.RUnlock()
		return nil, err
	}
	// Las entradas son append-only e inmutables: basta con fijar la longitud.
	entries := p.Entries[:len(p.Entries):len(p.Entries)]
	e.mu.RUnlock()

	return func(yield func(StatementLine) bool) {
		for _, entry := range entries {
			if !yield(e.statementLine(entry)) {
				return
			}
		}
	}, nil
}

func (e *Engine) statementLine(entry entity.LedgerEntry) StatementLine {
	line := StatementLine{Entry: entry, Kind: EntryKindTransaction}
	if entry.PaymentID != "" {
		line.Kind = EntryKindPayment
	}
	e.mu.RLock()
	tx, ok := e.txIndex[entry.TransactionID]
	if ok {
		line.TransactionKind = tx.Kind
		line.MetalName = tx.MetalName
		line.Quantity = tx.Quantity
		line.UnitPrice = tx.UnitPrice
		line.Total = tx.Total()
		line.Note = tx.Note
	}
	e.mu.RUnlock()
	return line
}

// Statement materializa History en un slice.
func (e *Engine) Statement(name string) ([]StatementLine, error) {
	seq, err := e.History(name)
	if err != nil {
		return nil, err
	}
	var out []StatementLine
	for line := range seq {
		out = append(out, line)
	}
	return out, nil
}
