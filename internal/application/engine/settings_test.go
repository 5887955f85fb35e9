package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

func settings(t *testing.T, f *fixture) entity.Settings {
	t.Helper()
	var s entity.Settings
	raw, err := f.store.Load(f.ctx, "settings")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

func TestUpdateSettings_Mezcla(t *testing.T) {
	f := newFixture(t)

	msg := f.mustExec(adminID, command.UpdateSettings{
		CompanyName: "Sayf Boissons", PricePerCase: "61.20", GSTRate: "cinco", QSTRate: "",
	})

	assert.Equal(t, "settings updated", msg)
	s := settings(t, f)
	assert.Equal(t, "Sayf Boissons", s.CompanyName)
	assert.Equal(t, "sales@example.com", s.CompanyEmail)
	assert.Equal(t, "CAD", s.Currency)
	assert.Equal(t, "61.2", s.PricePerCase.String())
	assert.Equal(t, "0.05", s.GSTRate.Decimal.String(), "valor ilegible conserva el anterior")
	assert.Equal(t, "0.09975", s.QSTRate.Decimal.String(), "vacío conserva el anterior")
}

func TestUpdateSettings_AplicaANuevasOrdenes(t *testing.T) {
	f := newFixture(t)
	f.mustExec(adminID, command.UpdateSettings{PricePerCase: "50", Currency: "USD"})
	lid := f.leadWithRep("Nuevo Precio")

	o := f.orders()[f.order(lid, 25, 25)]

	assert.Equal(t, "2500.00", o.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "USD", o.Pricing.Currency)
	assert.Equal(t, "2.0833", o.Pricing.PricePerCan.StringFixed(4))
}
