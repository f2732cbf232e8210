package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/jhoicas/Metalica-api/internal/domain/entity"
	"github.com/jhoicas/Metalica-api/internal/domain/repository"
)

var (
	_ repository.SnapshotRepository = (*Store)(nil)
	_ repository.Backupper          = (*Store)(nil)
)

// Store persiste el libro en un archivo JSON. La escritura es atómica: se escribe un archivo
// temporal en el mismo directorio y se renombra sobre el destino.
type Store struct {
	path string
	log  zerolog.Logger
	now  func() time.Time

	mu sync.Mutex
}

// NewStore construye el almacén sobre path. El directorio se crea al primer guardado.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log, now: time.Now}
}

// Path ruta del archivo principal.
func (s *Store) Path() string { return s.path }

// Load lee el archivo. Si no existe devuelve (nil, nil).
func (s *Store) Load(_ context.Context) (*entity.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("decode %s: versión de formato %d no soportada", s.path, doc.Version)
	}
	return doc.toSnapshot(), nil
}

// Save escribe el snapshot completo de forma atómica.
func (s *Store) Save(ctx context.Context, snap *entity.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(toDocument(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(s.path, raw); err != nil {
		return err
	}
	s.log.Debug().Str("path", s.path).Int("bytes", len(raw)).Msg("libro guardado")
	return nil
}

// Backup copia el archivo actual a <nombre>_backup_<YYYYmmdd_HHMMSS>.json en el mismo directorio.
func (s *Store) Backup(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	ext := filepath.Ext(s.path)
	base := strings.TrimSuffix(filepath.Base(s.path), ext)
	target := filepath.Join(filepath.Dir(s.path), fmt.Sprintf("%s_backup_%s%s", base, s.now().Format("20060102_150405"), ext))
	if err := writeAtomic(target, raw); err != nil {
		return "", err
	}
	return target, nil
}

func writeAtomic(path string, raw []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
