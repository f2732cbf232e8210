package repository

import (
	"context"

	"github.com/jhoicas/Metalica-api/internal/domain/entity"
)

// SnapshotRepository define el puerto de persistencia del libro completo.
// Load devuelve (nil, nil) si todavía no hay nada guardado.
type SnapshotRepository interface {
	Load(ctx context.Context) (*entity.Snapshot, error)
	Save(ctx context.Context, snapshot *entity.Snapshot) error
}

// Backupper lo implementan los almacenes que pueden generar una copia de respaldo bajo demanda.
type Backupper interface {
	Backup(ctx context.Context) (string, error)
}
