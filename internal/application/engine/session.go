package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/domain/repository"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// table colección id -> registro cargada en memoria durante un comando.
type table[T any] struct {
	name  string
	rows  map[string]*T
	dirty bool
}

func (t *table[T]) get(id string) (*T, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v *T) {
	t.rows[id] = v
	t.dirty = true
}

func (t *table[T]) remove(id string) {
	if _, ok := t.rows[id]; ok {
		delete(t.rows, id)
		t.dirty = true
	}
}

func (t *table[T]) touch() { t.dirty = true }

// ids claves ordenadas (recorrido determinista).
func (t *table[T]) ids() []string {
	return slices.Sorted(maps.Keys(t.rows))
}

// session unidad de trabajo de un comando: lee todos los almacenes al inicio y escribe
// solo los modificados, en un único Commit, si el comando termina sin error.
type session struct {
	actor string
	now   string

	users         *table[entity.User]
	leads         *table[entity.Lead]
	clients       *table[entity.Client]
	orders        *table[entity.Order]
	invoices      *table[entity.Invoice]
	calendar      *table[entity.CalendarEvent]
	notifications *table[entity.Notification]

	settings      entity.Settings
	settingsDirty bool

	counters      map[string]int
	countersDirty bool
}

func openSession(ctx context.Context, store repository.SnapshotStore, log *logger.Logger, actor, now string) (*session, error) {
	s := &session{actor: actor, now: now}
	var err error
	if s.users, err = loadTable[entity.User](ctx, store, log, repository.StoreUsers); err != nil {
		return nil, err
	}
	if s.leads, err = loadTable[entity.Lead](ctx, store, log, repository.StoreLeads); err != nil {
		return nil, err
	}
	if s.clients, err = loadTable[entity.Client](ctx, store, log, repository.StoreClients); err != nil {
		return nil, err
	}
	if s.orders, err = loadTable[entity.Order](ctx, store, log, repository.StoreOrders); err != nil {
		return nil, err
	}
	if s.invoices, err = loadTable[entity.Invoice](ctx, store, log, repository.StoreInvoices); err != nil {
		return nil, err
	}
	if s.calendar, err = loadTable[entity.CalendarEvent](ctx, store, log, repository.StoreCalendar); err != nil {
		return nil, err
	}
	if s.notifications, err = loadTable[entity.Notification](ctx, store, log, repository.StoreNotifications); err != nil {
		return nil, err
	}
	if err := loadDoc(ctx, store, log, repository.StoreSettings, &s.settings); err != nil {
		return nil, err
	}
	if err := loadDoc(ctx, store, log, repository.StoreCounters, &s.counters); err != nil {
		return nil, err
	}
	if s.counters == nil {
		s.counters = map[string]int{}
	}
	return s, nil
}

// loadTable un documento ausente o corrupto equivale a una colección vacía.
func loadTable[T any](ctx context.Context, store repository.SnapshotStore, log *logger.Logger, name string) (*table[T], error) {
	rows := map[string]*T{}
	if err := loadDoc(ctx, store, log, name, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = map[string]*T{}
	}
	maps.DeleteFunc(rows, func(_ string, v *T) bool { return v == nil })
	return &table[T]{name: name, rows: rows}, nil
}

func loadDoc(ctx context.Context, store repository.SnapshotStore, log *logger.Logger, name string, dst any) error {
	raw, err := store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("cargar %s: %w", name, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("store", name).Msg("documento corrupto, se usa vacío")
	}
	return nil
}

// nextID asigna el siguiente número del prefijo. El contador persistido es monotónico;
// el recorrido de claves solo importa cuando hay datos creados sin contador.
func (s *session) nextID(prefix string, keys []string) string {
	n := max(s.counters[prefix], maxSuffix(prefix, keys)) + 1
	s.counters[prefix] = n
	s.countersDirty = true
	return formatID(prefix, n)
}

// notify agrega una notificación para admin.
func (s *session) notify(ntype, text, openURL string) {
	id := s.nextID(PrefixNotification, s.notifications.ids())
	s.notifications.put(id, &entity.Notification{
		ID:        id,
		Type:      ntype,
		Text:      text,
		CreatedAt: s.now,
		ForRole:   entity.RoleAdmin,
		OpenURL:   openURL,
	})
}

// commit serializa y persiste los documentos modificados.
func (s *session) commit(ctx context.Context, store repository.SnapshotStore) error {
	docs := map[string][]byte{}
	add := func(name string, v any) error {
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("serializar %s: %w", name, err)
		}
		docs[name] = raw
		return nil
	}
	for _, t := range []interface {
		snapshot() (string, any, bool)
	}{s.users, s.leads, s.clients, s.orders, s.invoices, s.calendar, s.notifications} {
		if name, rows, dirty := t.snapshot(); dirty {
			if err := add(name, rows); err != nil {
				return err
			}
		}
	}
	if s.settingsDirty {
		if err := add(repository.StoreSettings, s.settings); err != nil {
			return err
		}
	}
	if s.countersDirty {
		if err := add(repository.StoreCounters, s.counters); err != nil {
			return err
		}
	}
	if len(docs) == 0 {
		return nil
	}
	return store.Commit(ctx, docs)
}

func (t *table[T]) snapshot() (string, any, bool) {
	return t.name, t.rows, t.dirty
}
