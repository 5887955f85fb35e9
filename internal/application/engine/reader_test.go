package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

func TestReader_Consultas(t *testing.T) {
	f := newFixture(t)
	r := engine.NewReader(f.store, logger.Nop())

	u, err := r.UserByUsername(f.ctx, "  ADMIN ")
	require.NoError(t, err)
	assert.Equal(t, adminID, u.ID)

	_, err = r.UserByUsername(f.ctx, "nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lid := f.leadWithRep("Bar Bleu")
	l, err := r.Lead(f.ctx, lid)
	require.NoError(t, err)
	assert.Equal(t, "Bar Bleu", l.BusinessName)

	_, err = r.Order(f.ctx, "O9999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReader_RevenueByStatus(t *testing.T) {
	f := newFixture(t)
	r := engine.NewReader(f.store, logger.Nop())
	lid := f.leadWithRep("Bar Bleu")

	paid := f.order(lid, 25, 25)
	f.order(lid, 30, 30)
	f.mustExec(employeeID, command.MarkOrderPaid{OrderID: paid})

	sum, err := r.RevenueByStatus(f.ctx, entity.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, "3435.45", sum.StringFixed(2))

	sum, err = r.RevenueByStatus(f.ctx, entity.OrderStatusDelivered)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestReader_EventsOrdenadosSinArchivados(t *testing.T) {
	f := newFixture(t)
	r := engine.NewReader(f.store, logger.Nop())

	f.mustExec(adminID, command.CreateEvent{Title: "Tarde", Date: "2026-10-20", Time: "15:00"})
	f.mustExec(adminID, command.CreateEvent{Title: "Mañana", Date: "2026-10-20", Time: "09:00"})
	f.mustExec(adminID, command.CreateEvent{Title: "Viejo", Date: "2026-10-01", Time: "08:00"})
	f.mustExec(adminID, command.ArchiveEvent{EventID: "E0003"})

	events, err := r.Events(f.ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Mañana", events[0].Title)
	assert.Equal(t, "Tarde", events[1].Title)
}
