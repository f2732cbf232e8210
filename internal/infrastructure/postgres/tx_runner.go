package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Metalica-api/internal/domain/repository"
)

// LedgerRepos repositorios atados a una misma transacción.
type LedgerRepos struct {
	Metals       repository.MetalRepository
	Transactions repository.TransactionRepository
	Payments     repository.PaymentRepository
	Parties      repository.PartyRepository
	Expenses     repository.ExpenseRepository
	q            Querier
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción de escritura, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos LedgerRepos) error) error {
	return r.run(ctx, pgx.TxOptions{}, fn)
}

// RunReadOnly igual que Run pero en REPEATABLE READ de solo lectura: todas las tablas se leen
// desde la misma foto de la base.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(repos LedgerRepos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(repos LedgerRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := LedgerRepos{
		Metals:       NewMetalRepository(tx),
		Transactions: NewTransactionRepository(tx),
		Payments:     NewPaymentRepository(tx),
		Parties:      NewPartyRepository(tx),
		Expenses:     NewExpenseRepository(tx),
		q:            tx,
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
