package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// AddExpense registra un gasto del negocio. El monto debe ser positivo.
func (e *Engine) AddExpense(name string, amount decimal.Decimal, description string) (*entity.Expense, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, e.reject("add_expense", domain.InvalidInput("name", name))
	}
	if !amount.IsPositive() {
		return nil, e.reject("add_expense", domain.InvalidAmount("amount", amount))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	x := &entity.Expense{
		ID:          e.newID(),
		Name:        name,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		CreatedAt:   e.now(),
	}
	e.expenses = append(e.expenses, x)
	e.log.Debug().Str("expense", x.ID).Str("amount", amount.String()).Msg("gasto registrado")
	c := *x
	return &c, nil
}

// DeleteExpense elimina un gasto por ID.
func (e *Engine) DeleteExpense(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, x := range e.expenses {
		if x.ID == id {
			e.expenses = append(e.expenses[:i:i], e.expenses[i+1:]...)
			return nil
		}
	}
	return e.reject("delete_expense", domain.ErrNotFound)
}

// Expenses lista los gastos en orden de registro.
func (e *Engine) Expenses() []entity.Expense {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]entity.Expense, 0, len(e.expenses))
	for _, x := range e.expenses {
		out = append(out, *x)
	}
	return out
}

// expenseTotal requiere lock tomado.
func (e *Engine) expenseTotal() decimal.Decimal {
	total := decimal.Zero
	for _, x := range e.expenses {
		total = total.Add(x.Amount)
	}
	return total
}
