package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/lock"
)

// memStore almacén en memoria que cuenta commits.
type memStore struct {
	mu      sync.Mutex
	docs    map[string][]byte
	commits int
	loadErr error
}

func newMemStore() *memStore { return &memStore{docs: map[string][]byte{}} }

func (m *memStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	raw, ok := m.docs[name]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), raw...), nil
}

func (m *memStore) Commit(_ context.Context, docs map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range docs {
		m.docs[k] = append([]byte(nil), v...)
	}
	m.commits++
	return nil
}

func (m *memStore) commitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

// recordingRenderer registra las llamadas y devuelve rutas fijas.
type recordingRenderer struct {
	invoices []string
	orders   []string
	fail     bool
}

func (r *recordingRenderer) RenderInvoice(_ context.Context, inv entity.Invoice, _ entity.Order, _ entity.Lead, _ entity.Settings) (string, error) {
	if r.fail {
		return "", errors.New("disco lleno")
	}
	r.invoices = append(r.invoices, inv.ID)
	return inv.PDFPath, nil
}

func (r *recordingRenderer) RenderPickList(_ context.Context, o entity.Order, _ entity.Lead, _ entity.Settings) (string, error) {
	if r.fail {
		return "", errors.New("disco lleno")
	}
	r.orders = append(r.orders, o.ID)
	return fmt.Sprintf("docs/orders/%s.pdf", o.ID), nil
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	store    *memStore
	renderer *recordingRenderer
	engine   *engine.Dispatcher
}

const (
	adminID    = "U0001"
	employeeID = "U0002"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.Local)

// newFixture motor con settings por defecto, admin U0001 y employee U0002.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		store:    newMemStore(),
		renderer: &recordingRenderer{},
	}
	f.engine = engine.NewDispatcher(f.store, lock.NewLocal(), f.renderer,
		engine.WithClock(func() time.Time { return fixedNow }),
		engine.WithPasswordCost(bcrypt.MinCost),
	)
	_, err := f.engine.Seed(f.ctx, engine.DefaultSeedUsers())
	require.NoError(t, err)
	return f
}

func (f *fixture) exec(actor string, cmd command.Command) engine.Outcome {
	return f.engine.Execute(f.ctx, actor, cmd)
}

// mustExec ejecuta y exige éxito.
func (f *fixture) mustExec(actor string, cmd command.Command) string {
	f.t.Helper()
	out := f.exec(actor, cmd)
	require.True(f.t, out.OK, "%s: %s", cmd.Name(), out.Message)
	return out.Message
}

func (f *fixture) leads() map[string]entity.Lead { return load[entity.Lead](f.t, f.store, "leads") }
func (f *fixture) orders() map[string]entity.Order {
	return load[entity.Order](f.t, f.store, "orders")
}
func (f *fixture) clients() map[string]entity.Client {
	return load[entity.Client](f.t, f.store, "clients")
}
func (f *fixture) invoices() map[string]entity.Invoice {
	return load[entity.Invoice](f.t, f.store, "invoices")
}
func (f *fixture) calendar() map[string]entity.CalendarEvent {
	return load[entity.CalendarEvent](f.t, f.store, "calendar")
}
func (f *fixture) notifications() map[string]entity.Notification {
	return load[entity.Notification](f.t, f.store, "notifications")
}
func (f *fixture) users() map[string]entity.User { return load[entity.User](f.t, f.store, "users") }

func load[T any](t *testing.T, s *memStore, name string) map[string]T {
	t.Helper()
	out := map[string]T{}
	raw, err := s.Load(context.Background(), name)
	require.NoError(t, err)
	if raw != nil {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return out
}

// leadWithRep crea un lead con datos de representante completos y devuelve su ID.
func (f *fixture) leadWithRep(name string) string {
	f.t.Helper()
	f.mustExec(adminID, command.CreateLead{BusinessName: name, BusinessPhone: "514-555-0101"})
	var id string
	for lid, l := range f.leads() {
		if l.BusinessName == name {
			id = lid
		}
	}
	require.NotEmpty(f.t, id)
	f.mustExec(adminID, command.UpdateLeadFields{LeadID: id, Fields: command.LeadFields{
		RepName: ptr("Marie Tremblay"), RepPhone: ptr("514-555-0199"), RepEmail: ptr("marie@example.com"),
	}})
	return id
}

func (f *fixture) order(leadID string, peach, cherry int) string {
	f.t.Helper()
	return f.mustExec(employeeID, command.CreateOrder{
		LeadID: leadID, PeachCases: command.NumberOf(peach), CherryCases: command.NumberOf(cherry),
	})
}

func ptr[T any](v T) *T { return &v }
