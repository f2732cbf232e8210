package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/repository"
)

var _ repository.MetalRepository = (*MetalRepo)(nil)

// MetalRepo metales y lotes (usable con pool o tx).
type MetalRepo struct {
	q Querier
}

// NewMetalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMetalRepository(q Querier) *MetalRepo {
	return &MetalRepo{q: q}
}

// ReplaceAll reescribe metales y lotes. Los lotes se borran en cascada.
func (r *MetalRepo) ReplaceAll(ctx context.Context, metals []*entity.Metal) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM metals`); err != nil {
		return fmt.Errorf("delete metals: %w", err)
	}
	err := copyRows(ctx, r.q, "metals",
		[]string{"id", "name", "unit", "default_buy_price", "default_sale_price", "created_at", "updated_at"},
		len(metals), func(i int) []any {
			m := metals[i]
			return []any{m.ID, m.Name, m.Unit, m.DefaultBuyPrice, m.DefaultSalePrice, m.CreatedAt, m.UpdatedAt}
		})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("copy metals: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("copy metals: %w", err)
	}

	var lots []*entity.Lot
	for _, m := range metals {
		lots = append(lots, m.Lots...)
	}
	err = copyRows(ctx, r.q, "lots",
		[]string{"id", "metal_id", "transaction_id", "source", "quantity", "remaining", "unit_cost", "acquired_at"},
		len(lots), func(i int) []any {
			l := lots[i]
			return []any{l.ID, l.MetalID, l.TransactionID, l.Source, l.Quantity, l.Remaining, l.UnitCost, l.AcquiredAt}
		})
	if err != nil {
		return fmt.Errorf("copy lots: %w", err)
	}
	return nil
}

// List devuelve los metales en orden de alta, cada uno con sus lotes en orden de adquisición.
func (r *MetalRepo) List(ctx context.Context) ([]*entity.Metal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, unit, default_buy_price, default_sale_price, created_at, updated_at
		FROM metals ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list metals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Metal
	byID := make(map[string]*entity.Metal)
	for rows.Next() {
		var m entity.Metal
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &m.DefaultBuyPrice, &m.DefaultSalePrice, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan metal: %w", err)
		}
		list = append(list, &m)
		byID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lotRows, err := r.q.Query(ctx, `
		SELECT id, metal_id, transaction_id, source, quantity, remaining, unit_cost, acquired_at
		FROM lots ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer lotRows.Close()
	for lotRows.Next() {
		var l entity.Lot
		if err := lotRows.Scan(&l.ID, &l.MetalID, &l.TransactionID, &l.Source, &l.Quantity, &l.Remaining, &l.UnitCost, &l.AcquiredAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		if m, ok := byID[l.MetalID]; ok {
			m.Lots = append(m.Lots, &l)
		}
	}
	return list, lotRows.Err()
}
