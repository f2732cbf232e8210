package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo guarda y carga el libro completo en PostgreSQL. Cada Save reescribe todas las
// tablas dentro de una sola transacción: si algo falla, la base queda con el snapshot anterior.
type SnapshotRepo struct {
	runner *TxRunner
}

// NewSnapshotRepository construye el repositorio sobre el pool.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{runner: NewTxRunner(pool)}
}

// Save reescribe el snapshot. El orden respeta las llaves foráneas: los pagos van después de
// las transacciones (que los borran en cascada).
func (r *SnapshotRepo) Save(ctx context.Context, s *entity.Snapshot) error {
	return r.runner.Run(ctx, func(repos LedgerRepos) error {
		if err := repos.Metals.ReplaceAll(ctx, s.Metals); err != nil {
			return err
		}
		if err := repos.Transactions.ReplaceAll(ctx, s.Transactions); err != nil {
			return err
		}
		if err := repos.Payments.ReplaceAll(ctx, s.Payments); err != nil {
			return err
		}
		if err := repos.Parties.ReplaceAll(ctx, s.Parties); err != nil {
			return err
		}
		if err := repos.Expenses.ReplaceAll(ctx, s.Expenses); err != nil {
			return err
		}
		savedAt := s.SavedAt
		if savedAt.IsZero() {
			savedAt = time.Now()
		}
		_, err := repos.q.Exec(ctx, `
			INSERT INTO ledger_snapshots (id, saved_at) VALUES (1, $1)
			ON CONFLICT (id) DO UPDATE SET saved_at = EXCLUDED.saved_at`, savedAt)
		if err != nil {
			return fmt.Errorf("upsert snapshot marker: %w", err)
		}
		return nil
	})
}

// Load lee el snapshot guardado. Devuelve (nil, nil) si nunca se guardó nada.
func (r *SnapshotRepo) Load(ctx context.Context) (*entity.Snapshot, error) {
	var snap *entity.Snapshot
	err := r.runner.RunReadOnly(ctx, func(repos LedgerRepos) error {
		var savedAt time.Time
		err := repos.q.QueryRow(ctx, `SELECT saved_at FROM ledger_snapshots WHERE id = 1`).Scan(&savedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("get snapshot marker: %w", err)
		}
		s := &entity.Snapshot{SavedAt: savedAt}
		if s.Metals, err = repos.Metals.List(ctx); err != nil {
			return err
		}
		if s.Transactions, err = repos.Transactions.List(ctx); err != nil {
			return err
		}
		if s.Payments, err = repos.Payments.List(ctx); err != nil {
			return err
		}
		if s.Parties, err = repos.Parties.List(ctx); err != nil {
			return err
		}
		if s.Expenses, err = repos.Expenses.List(ctx); err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
