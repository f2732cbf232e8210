package entity

import "time"

// Snapshot es el grafo completo del libro (metales, lotes, clientes, transacciones, pagos, gastos)
// tal como lo carga y guarda el colaborador de persistencia.
type Snapshot struct {
	Metals       []*Metal
	Parties      []*Party
	Transactions []*Transaction
	Payments     []*Payment
	Expenses     []*Expense
	SavedAt      time.Time
}
