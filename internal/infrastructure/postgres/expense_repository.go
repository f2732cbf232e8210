package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo gastos del negocio.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// ReplaceAll reescribe los gastos.
func (r *ExpenseRepo) ReplaceAll(ctx context.Context, expenses []*entity.Expense) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	err := copyRows(ctx, r.q, "expenses", []string{"id", "name", "amount", "description", "created_at"},
		len(expenses), func(i int) []any {
			x := expenses[i]
			return []any{x.ID, x.Name, x.Amount, x.Description, x.CreatedAt}
		})
	if err != nil {
		return fmt.Errorf("copy expenses: %w", err)
	}
	return nil
}

// List devuelve los gastos en orden de registro.
func (r *ExpenseRepo) List(ctx context.Context) ([]*entity.Expense, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, amount, description, created_at FROM expenses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		var x entity.Expense
		if err := rows.Scan(&x.ID, &x.Name, &x.Amount, &x.Description, &x.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &x)
	}
	return list, rows.Err()
}
