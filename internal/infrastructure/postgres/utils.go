package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

// copyRows inserta filas con COPY en el orden recibido; la columna seq se agrega como primer valor.
func copyRows(ctx context.Context, q Querier, table string, columns []string, n int, row func(i int) []any) error {
	if n == 0 {
		return nil
	}
	cols := append([]string{"seq"}, columns...)
	_, err := q.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromSlice(n, func(i int) ([]any, error) {
		return append([]any{i}, row(i)...), nil
	}))
	return err
}
