package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/lock"
)

func TestExecute_ComandoDesconocido(t *testing.T) {
	f := newFixture(t)
	before := f.store.commitCount()

	out := f.exec(adminID, command.Unknown{Cmd: "launch_rocket"})

	assert.Equal(t, engine.Outcome{OK: false, Message: "unknown cmd"}, out)
	assert.Equal(t, before, f.store.commitCount())
}

func TestExecute_RechazoNoPersisteNada(t *testing.T) {
	f := newFixture(t)
	before := f.store.commitCount()

	out := f.exec(adminID, command.CreateOrder{LeadID: "L0404", PeachCases: "25", CherryCases: "25"})

	assert.False(t, out.OK)
	assert.Equal(t, "lead not found", out.Message)
	assert.Equal(t, before, f.store.commitCount())
}

// schedule_delivery valida el lead después de tocar la orden: el cambio no debe quedar.
func TestExecute_RechazoTardioDescartaCambiosPrevios(t *testing.T) {
	f := newFixture(t)
	lid := f.leadWithRep("Dépanneur Laval")
	oid := f.order(lid, 25, 25)
	f.mustExec(adminID, command.MarkOrderPaid{OrderID: oid})

	// Lead borrado a mano, dejando la orden huérfana.
	orders := f.store.docs["orders"]
	f.mustExec(adminID, command.DeleteLeads{LeadIDs: []string{lid}})
	require.NoError(t, f.store.Commit(f.ctx, map[string][]byte{"orders": orders}))

	out := f.exec(adminID, command.ScheduleDelivery{OrderID: oid, Date: "2026-10-20", Time: "10:00"})
	assert.Equal(t, "lead missing", out.Message)
	assert.Equal(t, entity.OrderStatusPaid, f.orders()[oid].Status)
	assert.Empty(t, f.calendar())
}

func TestExecute_FalloDeAlmacenEsErrorInterno(t *testing.T) {
	f := newFixture(t)
	f.store.loadErr = errors.New("permiso denegado")

	out := f.exec(adminID, command.CreateLead{BusinessName: "X"})

	assert.Equal(t, engine.Outcome{OK: false, Message: "internal error"}, out)
}

func TestExecute_AlmacenCorruptoSeTrataComoVacio(t *testing.T) {
	f := newFixture(t)
	f.store.docs["leads"] = []byte("{not json")

	msg := f.mustExec(adminID, command.CreateLead{BusinessName: "Nuevo"})

	assert.Equal(t, "lead created", msg)
	assert.Len(t, f.leads(), 1)
}

func TestExecute_CandadoCanceladoEsErrorInterno(t *testing.T) {
	store := newMemStore()
	l := lock.NewLocal()
	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)
	defer unlock()

	d := engine.NewDispatcher(store, l, &recordingRenderer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := d.Execute(ctx, adminID, command.CreateLead{BusinessName: "X"})
	assert.Equal(t, "internal error", out.Message)
}

func TestExecuteEnvelope_PayloadInvalido(t *testing.T) {
	f := newFixture(t)
	out := f.engine.ExecuteEnvelope(f.ctx, command.Envelope{
		Cmd: "delete_leads", Actor: adminID, Payload: []byte(`{"lead_ids": 7}`),
	})
	assert.Equal(t, engine.Outcome{OK: false, Message: "bad payload"}, out)
}

func TestSeed_SoloUnaVez(t *testing.T) {
	f := newFixture(t)

	users := f.users()
	require.Len(t, users, 2)
	assert.Equal(t, entity.RoleAdmin, users[adminID].Role)
	assert.Equal(t, entity.RoleEmployee, users[employeeID].Role)
	settings := load[any](t, f.store, "settings")
	assert.NotEmpty(t, settings)

	changed, err := f.engine.Seed(f.ctx, engine.DefaultSeedUsers())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, f.users(), 2)
}
