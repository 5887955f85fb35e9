// Package filestore persiste cada almacén como <dir>/<nombre>.json con reemplazo atómico
// (archivo temporal + rename).
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/AchrafRT/sales-crm/internal/domain/repository"
)

var _ repository.SnapshotStore = (*Store)(nil)

// Store almacén de snapshots en disco.
type Store struct {
	dir string
}

// New crea el directorio si no existe.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir raíz de datos.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load devuelve nil si el archivo no existe.
func (s *Store) Load(_ context.Context, name string) ([]byte, error) {
	raw, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", name, err)
	}
	return raw, nil
}

// Commit escribe primero todos los temporales y luego renombra cada uno. Si falla una
// escritura no se renombra nada; entre renames un fallo del proceso puede dejar
// almacenes de distinta generación.
func (s *Store) Commit(_ context.Context, docs map[string][]byte) error {
	names := slices.Sorted(maps.Keys(docs))
	temps := make(map[string]string, len(names))
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}
	for _, name := range names {
		tmp, err := writeTemp(s.dir, name, docs[name])
		if err != nil {
			cleanup()
			return err
		}
		temps[name] = tmp
	}
	for _, name := range names {
		if err := os.Rename(temps[name], s.path(name)); err != nil {
			cleanup()
			return fmt.Errorf("reemplazar %s: %w", name, err)
		}
		delete(temps, name)
	}
	return nil
}

func writeTemp(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("temporal %s: %w", name, err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("escribir %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("sync %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("cerrar %s: %w", name, err)
	}
	return tmp, nil
}
