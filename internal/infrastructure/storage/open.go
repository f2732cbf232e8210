package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Metalica-api/internal/domain/repository"
	"github.com/jhoicas/Metalica-api/internal/infrastructure/jsonfile"
	"github.com/jhoicas/Metalica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Metalica-api/pkg/config"
)

// Open abre el almacén configurado y devuelve la función para cerrarlo.
// Con el driver memory devuelve un repositorio nil: el libro vive solo en memoria.
func Open(ctx context.Context, cfg config.StoreConfig, db config.DBConfig, log zerolog.Logger) (repository.SnapshotRepository, func(), error) {
	switch cfg.Driver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, db, log.With().Str("component", "postgres").Logger())
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("crear esquema: %w", err)
		}
		return postgres.NewSnapshotRepository(pool), pool.Close, nil
	case config.StoreJSON:
		return jsonfile.NewStore(cfg.JSONPath, log.With().Str("component", "jsonfile").Logger()), func() {}, nil
	case config.StoreMemory:
		log.Warn().Msg("almacén en memoria: los cambios se pierden al reiniciar")
		return nil, func() {}, nil
	}
	return nil, nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Driver)
}
