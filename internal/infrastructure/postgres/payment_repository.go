package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos y compensaciones.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// ReplaceAll reescribe los pagos.
func (r *PaymentRepo) ReplaceAll(ctx context.Context, payments []*entity.Payment) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payments`); err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	err := copyRows(ctx, r.q, "payments",
		[]string{"id", "kind", "transaction_id", "party_name", "amount", "note", "created_at"},
		len(payments), func(i int) []any {
			p := payments[i]
			return []any{p.ID, p.Kind, p.TransactionID, p.PartyName, p.Amount, p.Note, p.CreatedAt}
		})
	if err != nil {
		return fmt.Errorf("copy payments: %w", err)
	}
	return nil
}

// List devuelve los pagos en orden de registro.
func (r *PaymentRepo) List(ctx context.Context) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, kind, transaction_id, party_name, amount, note, created_at
		FROM payments ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.Kind, &p.TransactionID, &p.PartyName, &p.Amount, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
