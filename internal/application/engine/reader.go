package engine

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/domain/repository"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// Reader consultas de solo lectura sobre los almacenes (login y chequeos de permisos).
type Reader struct {
	store repository.SnapshotStore
	log   *logger.Logger
}

// NewReader construye el lector.
func NewReader(store repository.SnapshotStore, log *logger.Logger) *Reader {
	return &Reader{store: store, log: log.Component("reader")}
}

// User devuelve domain.ErrNotFound si no existe.
func (r *Reader) User(ctx context.Context, id string) (*entity.User, error) {
	return find[entity.User](ctx, r, repository.StoreUsers, id)
}

// UserByUsername búsqueda sin distinguir mayúsculas.
func (r *Reader) UserByUsername(ctx context.Context, username string) (*entity.User, error) {
	t, err := loadTable[entity.User](ctx, r.store, r.log, repository.StoreUsers)
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	for _, id := range t.ids() {
		if u := t.rows[id]; strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Lead devuelve domain.ErrNotFound si no existe.
func (r *Reader) Lead(ctx context.Context, id string) (*entity.Lead, error) {
	return find[entity.Lead](ctx, r, repository.StoreLeads, id)
}

// LeadIDs IDs de leads ordenados.
func (r *Reader) LeadIDs(ctx context.Context) ([]string, error) {
	t, err := loadTable[entity.Lead](ctx, r.store, r.log, repository.StoreLeads)
	if err != nil {
		return nil, err
	}
	return t.ids(), nil
}

// Events eventos no archivados, ordenados por fecha, hora e ID.
func (r *Reader) Events(ctx context.Context) ([]entity.CalendarEvent, error) {
	t, err := loadTable[entity.CalendarEvent](ctx, r.store, r.log, repository.StoreCalendar)
	if err != nil {
		return nil, err
	}
	out := make([]entity.CalendarEvent, 0, len(t.rows))
	for _, id := range t.ids() {
		if ev := t.rows[id]; !ev.Archived {
			out = append(out, *ev)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.CalendarEvent) int {
		return strings.Compare(a.Date+" "+a.Time, b.Date+" "+b.Time)
	})
	return out, nil
}

// Order devuelve domain.ErrNotFound si no existe.
func (r *Reader) Order(ctx context.Context, id string) (*entity.Order, error) {
	return find[entity.Order](ctx, r, repository.StoreOrders, id)
}

// RevenueByStatus suma total_amount de las órdenes en el estado dado.
func (r *Reader) RevenueByStatus(ctx context.Context, status string) (decimal.Decimal, error) {
	t, err := loadTable[entity.Order](ctx, r.store, r.log, repository.StoreOrders)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, o := range t.rows {
		if o.Status == status {
			sum = sum.Add(o.TotalAmount)
		}
	}
	return sum, nil
}

func find[T any](ctx context.Context, r *Reader, name, id string) (*T, error) {
	t, err := loadTable[T](ctx, r.store, r.log, name)
	if err != nil {
		return nil, err
	}
	v, ok := t.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}
