// Package bootstrap arma la pila compartida por la API y el worker a partir de la
// configuración: almacén, candado, renderer, motor y cola.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/application/queue"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/repository"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/filestore"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/lock"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/pdf"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/postgres"
	"github.com/AchrafRT/sales-crm/pkg/config"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// RevenueReporter suma de órdenes por estado.
type RevenueReporter interface {
	RevenueByStatus(ctx context.Context, status string) (decimal.Decimal, error)
}

// Runtime dependencias ya construidas.
type Runtime struct {
	Config  *config.Config
	Log     *logger.Logger
	Store   repository.SnapshotStore
	Engine  *engine.Dispatcher
	Reader  *engine.Reader
	Queue   *queue.Queue
	Revenue RevenueReporter

	closers []func()
}

// New construye la pila. Con STORE_DRIVER=postgres crea la tabla de documentos si falta;
// con LOCK_REDIS_ADDR el candado de escritor único pasa a Redis.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Runtime, error) {
	rt := &Runtime{Config: cfg, Log: log}

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		pg := postgres.NewSnapshotStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			rt.Close()
			return nil, err
		}
		rt.Store, rt.Revenue = pg, pg
	default:
		fs, err := filestore.New(cfg.Store.DataDir)
		if err != nil {
			return nil, err
		}
		rt.Store = fs
	}
	rt.Reader = engine.NewReader(rt.Store, log)
	if rt.Revenue == nil {
		rt.Revenue = rt.Reader
	}

	var locker repository.Locker = lock.NewLocal()
	if cfg.Lock.RedisAddr != "" {
		rdb, err := lock.NewRedisClient(ctx, cfg.Lock)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = rdb.Close() })
		locker = lock.NewRedis(rdb, cfg.Lock, log)
	}

	rt.Engine = engine.NewDispatcher(rt.Store, locker, pdf.New(cfg.Store.DataDir), engine.WithLogger(log))
	q, err := queue.New(cfg.Store.DataDir, rt.Engine, queue.WithLogger(log))
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Queue = q

	log.Info().
		Str("store", cfg.Store.Driver).
		Str("data_dir", cfg.Store.DataDir).
		Bool("redis_lock", cfg.Lock.RedisAddr != "").
		Msg("runtime listo")
	return rt, nil
}

// ── Datos iniciales ───────────────────────────────────────────────────────────

var demoLeads = []command.LeadRow{
	{BusinessName: "Depanneur A", BusinessPhone: "514-000-0001", BusinessAddress: "Montreal, QC"},
	{BusinessName: "Cafe B", BusinessPhone: "514-000-0002", BusinessAddress: "Laval, QC"},
	{BusinessName: "Restaurant C", BusinessPhone: "514-000-0003", BusinessAddress: "Longueuil, QC"},
}

// Seed crea settings y usuarios por defecto. Con SEED_DEMO y sin leads, importa leads de
// demostración por la cola (con historial) y asigna el primero al empleado.
func (rt *Runtime) Seed(ctx context.Context) error {
	if _, err := rt.Engine.Seed(ctx, engine.DefaultSeedUsers()); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if !rt.Config.App.SeedDemo {
		return nil
	}
	ids, err := rt.Reader.LeadIDs(ctx)
	if err != nil {
		return fmt.Errorf("seed demo: %w", err)
	}
	if len(ids) > 0 {
		return nil
	}

	admin, err := rt.Reader.UserByUsername(ctx, "admin")
	if err != nil {
		return fmt.Errorf("seed demo: usuario admin: %w", err)
	}
	if out, err := rt.Queue.Submit(ctx, admin.ID, command.ImportLeadsBatch{Rows: demoLeads}); err != nil || !out.OK {
		return fmt.Errorf("seed demo: importar leads: %v %s", err, out.Message)
	}
	ids, err = rt.Reader.LeadIDs(ctx)
	if err != nil {
		return fmt.Errorf("seed demo: leads importados: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	employee, err := rt.Reader.UserByUsername(ctx, "employee")
	if err != nil {
		// sin empleado de prueba no hay a quién asignar
		return nil
	}
	if _, err := rt.Queue.Submit(ctx, admin.ID, command.AssignLead{LeadID: ids[0], UserID: employee.ID}); err != nil {
		return fmt.Errorf("seed demo: asignar lead: %w", err)
	}
	rt.Log.Info().Int("leads", len(ids)).Msg("datos de demostración creados")
	return nil
}

// Close libera conexiones en orden inverso.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
