package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo transacciones y consumos de lotes de las ventas.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, kind, metal_id, metal_name, quantity, unit_price, payment_mode, amount_paid,
	party_name, direction, cost_basis, profit, reverses_id, reversed_kind, note, created_at`

// ReplaceAll reescribe transacciones y consumos. Borra en cascada los pagos: el caller debe
// reescribirlos después en la misma tx.
func (r *TransactionRepo) ReplaceAll(ctx context.Context, txs []*entity.Transaction) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	err := copyRows(ctx, r.q, "transactions",
		[]string{"id", "kind", "metal_id", "metal_name", "quantity", "unit_price", "payment_mode", "amount_paid",
			"party_name", "direction", "cost_basis", "profit", "reverses_id", "reversed_kind", "note", "created_at"},
		len(txs), func(i int) []any {
			t := txs[i]
			return []any{t.ID, t.Kind, t.MetalID, t.MetalName, t.Quantity, t.UnitPrice, t.PaymentMode, t.AmountPaid,
				t.PartyName, int16(t.Direction), t.CostBasis, t.Profit, t.ReversesID, t.ReversedKind, t.Note, t.CreatedAt}
		})
	if err != nil {
		return fmt.Errorf("copy transactions: %w", err)
	}

	type row struct {
		txID string
		c    entity.Consumption
	}
	var consumptions []row
	for _, t := range txs {
		for _, c := range t.Consumptions {
			consumptions = append(consumptions, row{txID: t.ID, c: c})
		}
	}
	err = copyRows(ctx, r.q, "lot_consumptions",
		[]string{"transaction_id", "lot_id", "quantity", "unit_cost"},
		len(consumptions), func(i int) []any {
			c := consumptions[i]
			return []any{c.txID, c.c.LotID, c.c.Quantity, c.c.UnitCost}
		})
	if err != nil {
		return fmt.Errorf("copy lot consumptions: %w", err)
	}
	return nil
}

// List devuelve las transacciones en orden de registro con sus consumos.
func (r *TransactionRepo) List(ctx context.Context) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	byID := make(map[string]*entity.Transaction)
	for rows.Next() {
		var t entity.Transaction
		var direction int16
		if err := rows.Scan(&t.ID, &t.Kind, &t.MetalID, &t.MetalName, &t.Quantity, &t.UnitPrice, &t.PaymentMode,
			&t.AmountPaid, &t.PartyName, &direction, &t.CostBasis, &t.Profit, &t.ReversesID, &t.ReversedKind,
			&t.Note, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Direction = int(direction)
		list = append(list, &t)
		byID[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cRows, err := r.q.Query(ctx, `
		SELECT transaction_id, lot_id, quantity, unit_cost FROM lot_consumptions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list lot consumptions: %w", err)
	}
	defer cRows.Close()
	for cRows.Next() {
		var txID string
		var c entity.Consumption
		if err := cRows.Scan(&txID, &c.LotID, &c.Quantity, &c.UnitCost); err != nil {
			return nil, fmt.Errorf("scan lot consumption: %w", err)
		}
		if t, ok := byID[txID]; ok {
			t.Consumptions = append(t.Consumptions, c)
		}
	}
	return list, cRows.Err()
}
