package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// Snapshot copia profunda del estado completo, lista para persistir.
func (e *Engine) Snapshot() *entity.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot()
}

// snapshot requiere lock tomado.
func (e *Engine) snapshot() *entity.Snapshot {
	s := &entity.Snapshot{
		Metals:       make([]*entity.Metal, 0, len(e.metals)),
		Parties:      make([]*entity.Party, 0, len(e.parties)),
		Transactions: make([]*entity.Transaction, 0, len(e.txs)),
		Payments:     make([]*entity.Payment, 0, len(e.payments)),
		Expenses:     make([]*entity.Expense, 0, len(e.expenses)),
		SavedAt:      e.now(),
	}
	for _, m := range e.metals {
		s.Metals = append(s.Metals, m.Clone())
	}
	for _, p := range e.parties {
		s.Parties = append(s.Parties, p.Clone())
	}
	for _, tx := range e.txs {
		s.Transactions = append(s.Transactions, tx.Clone())
	}
	for _, p := range e.payments {
		c := *p
		s.Payments = append(s.Payments, &c)
	}
	for _, x := range e.expenses {
		c := *x
		s.Expenses = append(s.Expenses, &c)
	}
	return s
}

// Restore reemplaza el estado del motor con el snapshot, previa validación de sus invariantes.
// Si el snapshot es inválido el estado actual no cambia.
func (e *Engine) Restore(s *entity.Snapshot) error {
	if s == nil {
		return e.reject("restore", domain.InvalidInput("snapshot", "nil"))
	}
	next := NewEngine()
	if err := next.load(s); err != nil {
		return e.reject("restore", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.metals, e.metalIndex = next.metals, next.metalIndex
	e.parties, e.partyIndex = next.parties, next.partyIndex
	e.txs, e.txIndex = next.txs, next.txIndex
	e.payments, e.paidByTx, e.reversedBy = next.payments, next.paidByTx, next.reversedBy
	e.expenses = next.expenses
	e.log.Info().Int("metals", len(e.metals)).Int("parties", len(e.parties)).
		Int("transactions", len(e.txs)).Msg("estado restaurado")
	return nil
}

func invalidSnapshot(format string, args ...any) error {
	return fmt.Errorf("%w: snapshot: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// load construye los índices desde una copia del snapshot validando cada invariante.
// Se ejecuta sobre un motor nuevo, sin compartir estado.
func (e *Engine) load(s *entity.Snapshot) error {
	for _, src := range s.Metals {
		m := src.Clone()
		m.Name = entity.NormalizeName(m.Name)
		if m.Name == "" {
			return invalidSnapshot("metal sin nombre")
		}
		if _, dup := e.metalIndex[m.Name]; dup {
			return invalidSnapshot("metal duplicado %q", m.Name)
		}
		for _, l := range m.Lots {
			if !l.Quantity.IsPositive() || l.UnitCost.IsNegative() {
				return invalidSnapshot("lote %s de %q con cantidad o costo inválido", l.ID, m.Name)
			}
			if l.Remaining.IsNegative() || l.Remaining.GreaterThan(l.Quantity) {
				return invalidSnapshot("lote %s de %q con restante fuera de rango", l.ID, m.Name)
			}
		}
		e.metals = append(e.metals, m)
		e.metalIndex[m.Name] = m
	}

	for _, src := range s.Transactions {
		tx := src.Clone()
		if tx.ID == "" {
			return invalidSnapshot("transacción sin ID")
		}
		if _, dup := e.txIndex[tx.ID]; dup {
			return invalidSnapshot("transacción duplicada %s", tx.ID)
		}
		if tx.ReversesID != "" {
			if _, ok := e.txIndex[tx.ReversesID]; !ok {
				return invalidSnapshot("reversión %s de transacción desconocida %s", tx.ID, tx.ReversesID)
			}
			if _, done := e.reversedBy[tx.ReversesID]; done {
				return invalidSnapshot("transacción %s revertida dos veces", tx.ReversesID)
			}
			e.reversedBy[tx.ReversesID] = tx.ID
		}
		e.txs = append(e.txs, tx)
		e.txIndex[tx.ID] = tx
	}

	paymentIDs := make(map[string]struct{}, len(s.Payments))
	for _, src := range s.Payments {
		p := *src
		tx, ok := e.txIndex[p.TransactionID]
		if !ok {
			return invalidSnapshot("pago %s de transacción desconocida %s", p.ID, p.TransactionID)
		}
		if !p.Amount.IsPositive() {
			return invalidSnapshot("pago %s con monto no positivo", p.ID)
		}
		e.paidByTx[tx.ID] = e.paidByTx[tx.ID].Add(p.Amount)
		if e.outstanding(tx).IsNegative() {
			return invalidSnapshot("pagos de %s exceden el saldo", tx.ID)
		}
		paymentIDs[p.ID] = struct{}{}
		e.payments = append(e.payments, &p)
	}

	for _, src := range s.Parties {
		p := src.Clone()
		p.Name = entity.NormalizeName(p.Name)
		if p.Name == "" {
			return invalidSnapshot("cliente sin nombre")
		}
		if _, dup := e.partyIndex[p.Name]; dup {
			return invalidSnapshot("cliente duplicado %q", p.Name)
		}
		running := decimal.Zero
		for _, entry := range p.Entries {
			if _, ok := e.txIndex[entry.TransactionID]; !ok {
				return invalidSnapshot("entrada %s de %q con transacción desconocida", entry.ID, p.Name)
			}
			if entry.PaymentID != "" {
				if _, ok := paymentIDs[entry.PaymentID]; !ok {
					return invalidSnapshot("entrada %s de %q con pago desconocido", entry.ID, p.Name)
				}
			}
			running = running.Add(entry.Amount)
			if !running.Equal(entry.Balance) {
				return invalidSnapshot("saldo acumulado incorrecto en la entrada %s de %q", entry.ID, p.Name)
			}
		}
		if !running.Equal(p.Balance) {
			return invalidSnapshot("saldo de %q no coincide con sus entradas", p.Name)
		}
		e.parties = append(e.parties, p)
		e.partyIndex[p.Name] = p
	}

	for _, x := range s.Expenses {
		c := *x
		e.expenses = append(e.expenses, &c)
	}
	return nil
}
