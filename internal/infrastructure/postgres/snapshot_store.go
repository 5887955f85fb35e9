package postgres

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/AchrafRT/sales-crm/internal/domain/repository"
)

var _ repository.SnapshotStore = (*SnapshotStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	version    BIGINT NOT NULL DEFAULT 1,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SnapshotStore guarda cada almacén como una fila JSONB de la tabla documents. Un Commit
// escribe todos los documentos del comando en una sola transacción.
type SnapshotStore struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewSnapshotStore construye el adaptador.
func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool, tx: NewTxRunner(pool)}
}

// EnsureSchema crea la tabla si no existe.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear tabla documents: %w", err)
	}
	return nil
}

// Load devuelve nil si no hay fila para name.
func (s *SnapshotStore) Load(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT body::text FROM documents WHERE name = $1`, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer documento %s: %w", name, err)
	}
	return body, nil
}

// Commit upsert de cada documento en una transacción; todo o nada.
func (s *SnapshotStore) Commit(ctx context.Context, docs map[string][]byte) error {
	return s.tx.Run(ctx, func(tx pgx.Tx) error {
		for _, name := range slices.Sorted(maps.Keys(docs)) {
			_, err := tx.Exec(ctx, `
				INSERT INTO documents (name, body) VALUES ($1, $2::jsonb)
				ON CONFLICT (name) DO UPDATE
				SET body = EXCLUDED.body, version = documents.version + 1, updated_at = now()`,
				name, string(docs[name]))
			if err != nil {
				return fmt.Errorf("guardar documento %s: %w", name, err)
			}
		}
		return nil
	})
}

// RevenueByStatus suma totals.total de las órdenes con el estado dado, calculado en SQL
// como NUMERIC.
func (s *SnapshotStore) RevenueByStatus(ctx context.Context, status string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM((o.value->'totals'->>'total')::numeric), 0)
		FROM documents d, jsonb_each(d.body) o
		WHERE d.name = $1 AND o.value->>'status' = $2`,
		repository.StoreOrders, status).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sumar órdenes %s: %w", status, err)
	}
	return total, nil
}
