package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo clientes/proveedores y sus entradas de libro.
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

// ReplaceAll reescribe clientes y entradas.
func (r *PartyRepo) ReplaceAll(ctx context.Context, parties []*entity.Party) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM parties`); err != nil {
		return fmt.Errorf("delete parties: %w", err)
	}
	err := copyRows(ctx, r.q, "parties", []string{"id", "name", "balance", "created_at"},
		len(parties), func(i int) []any {
			p := parties[i]
			return []any{p.ID, p.Name, p.Balance, p.CreatedAt}
		})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("copy parties: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("copy parties: %w", err)
	}

	type row struct {
		partyID string
		entry   entity.LedgerEntry
	}
	var entries []row
	for _, p := range parties {
		for _, e := range p.Entries {
			entries = append(entries, row{partyID: p.ID, entry: e})
		}
	}
	err = copyRows(ctx, r.q, "ledger_entries",
		[]string{"id", "party_id", "transaction_id", "payment_id", "amount", "balance", "created_at"},
		len(entries), func(i int) []any {
			e := entries[i].entry
			return []any{e.ID, entries[i].partyID, e.TransactionID, e.PaymentID, e.Amount, e.Balance, e.CreatedAt}
		})
	if err != nil {
		return fmt.Errorf("copy ledger entries: %w", err)
	}
	return nil
}

// List devuelve los clientes en orden de alta con su libro en orden cronológico.
func (r *PartyRepo) List(ctx context.Context) ([]*entity.Party, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, balance, created_at FROM parties ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Party
	byID := make(map[string]*entity.Party)
	for rows.Next() {
		var p entity.Party
		if err := rows.Scan(&p.ID, &p.Name, &p.Balance, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		list = append(list, &p)
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entryRows, err := r.q.Query(ctx, `
		SELECT id, party_id, transaction_id, payment_id, amount, balance, created_at
		FROM ledger_entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer entryRows.Close()
	for entryRows.Next() {
		var e entity.LedgerEntry
		var partyID string
		if err := entryRows.Scan(&e.ID, &partyID, &e.TransactionID, &e.PaymentID, &e.Amount, &e.Balance, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if p, ok := byID[partyID]; ok {
			e.PartyName = p.Name
			p.Entries = append(p.Entries, e)
		}
	}
	return list, entryRows.Err()
}
