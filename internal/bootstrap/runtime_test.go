package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchrafRT/sales-crm/internal/bootstrap"
	"github.com/AchrafRT/sales-crm/pkg/config"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

func newRuntime(t *testing.T, seedDemo bool) *bootstrap.Runtime {
	t.Helper()
	cfg := &config.Config{
		App:   config.AppConfig{Env: "test", SeedDemo: seedDemo},
		Store: config.StoreConfig{DataDir: t.TempDir(), Driver: config.StoreDriverFile},
	}
	rt, err := bootstrap.New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func TestSeed_DatosDemo(t *testing.T) {
	rt := newRuntime(t, true)
	ctx := context.Background()
	require.NoError(t, rt.Seed(ctx))

	admin, err := rt.Reader.UserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "U0001", admin.ID)

	ids, err := rt.Reader.LeadIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"L0001", "L0002", "L0003"}, ids)

	first, err := rt.Reader.Lead(ctx, "L0001")
	require.NoError(t, err)
	assert.Equal(t, "Depanneur A", first.BusinessName)
	assert.Equal(t, "U0002", first.AssignedTo)

	// segunda ejecución no duplica
	require.NoError(t, rt.Seed(ctx))
	ids, err = rt.Reader.LeadIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestSeed_SinDemo(t *testing.T) {
	rt := newRuntime(t, false)
	ctx := context.Background()
	require.NoError(t, rt.Seed(ctx))

	ids, err := rt.Reader.LeadIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = rt.Reader.UserByUsername(ctx, "employee")
	assert.NoError(t, err)
}

func TestRevenue_SinPostgresUsaReader(t *testing.T) {
	rt := newRuntime(t, false)
	total, err := rt.Revenue.RevenueByStatus(context.Background(), "paid")
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
