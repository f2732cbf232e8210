package repository

import (
	"context"

	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// Puertos por tabla usados dentro de una transacción para guardar/cargar el snapshot.
// ReplaceAll borra el contenido y escribe la colección completa en el orden recibido;
// List devuelve en ese mismo orden.

// MetalRepository metales con sus lotes.
type MetalRepository interface {
	ReplaceAll(ctx context.Context, metals []*entity.Metal) error
	List(ctx context.Context) ([]*entity.Metal, error)
}

// PartyRepository clientes/proveedores con sus entradas de libro.
type PartyRepository interface {
	ReplaceAll(ctx context.Context, parties []*entity.Party) error
	List(ctx context.Context) ([]*entity.Party, error)
}

// TransactionRepository transacciones con sus consumos de lotes.
type TransactionRepository interface {
	ReplaceAll(ctx context.Context, txs []*entity.Transaction) error
	List(ctx context.Context) ([]*entity.Transaction, error)
}

// PaymentRepository pagos y compensaciones.
type PaymentRepository interface {
	ReplaceAll(ctx context.Context, payments []*entity.Payment) error
	List(ctx context.Context) ([]*entity.Payment, error)
}

// ExpenseRepository gastos del negocio.
type ExpenseRepository interface {
	ReplaceAll(ctx context.Context, expenses []*entity.Expense) error
	List(ctx context.Context) ([]*entity.Expense, error)
}
