package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/alerts"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/memory"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

var hoy = time.Date(2026, 5, 10, 14, 30, 0, 0, time.UTC)

func caducidadStore() *memory.Store {
	s := memory.NewStore()
	s.PutProduct(entity.Product{ID: "vencido", Name: "Yogur", Stock: decimal.NewFromInt(3), ExpiresAt: date(2026, 5, 8)})
	s.PutProduct(entity.Product{ID: "hoy", Name: "Queso", Stock: decimal.NewFromInt(1), ExpiresAt: date(2026, 5, 10)})
	s.PutProduct(entity.Product{ID: "pronto", Name: "Jamón", Stock: decimal.NewFromInt(2), ExpiresAt: date(2026, 5, 15)})
	s.PutProduct(entity.Product{ID: "lejos", Name: "Atún", Stock: decimal.NewFromInt(9), ExpiresAt: date(2026, 8, 1)})
	s.PutProduct(entity.Product{ID: "agotado", Name: "Crema", Stock: decimal.Zero, ExpiresAt: date(2026, 5, 11)})
	return s
}

func newService(s *memory.Store) *alerts.Service {
	return alerts.NewService(s, s.Repos(), logger.Nop()).WithClock(func() time.Time { return hoy })
}

func TestService_ExpiringProducts(t *testing.T) {
	svc := newService(caducidadStore())

	got, err := svc.ExpiringProducts(context.Background(), 7)
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"vencido", "hoy", "pronto"}, ids)

	_, err = svc.ExpiringProducts(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_ScanExpiryNoDuplicaPendientes(t *testing.T) {
	s := caducidadStore()
	svc := newService(s)
	ctx := context.Background()

	created, err := svc.ScanExpiry(ctx, 7)
	require.NoError(t, err)
	require.Len(t, created, 3)
	msgs := map[string]string{}
	for _, a := range created {
		assert.Equal(t, entity.AlertExpiry, a.Kind)
		msgs[a.ProductID] = a.Message
	}
	assert.Equal(t, "Yogur venció el 2026-05-08", msgs["vencido"])
	assert.Equal(t, "Queso vence hoy", msgs["hoy"])
	assert.Equal(t, "Jamón vence en 5 días (2026-05-15)", msgs["pronto"])

	again, err := svc.ScanExpiry(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, s.AllAlerts(), 3)

	// Atender una alerta permite volver a generarla
	require.NoError(t, svc.Acknowledge(ctx, created[0].ID))
	again, err = svc.ScanExpiry(ctx, 7)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, created[0].ProductID, again[0].ProductID)
}

func TestService_ListPendingYAcknowledge(t *testing.T) {
	s := caducidadStore()
	svc := newService(s)
	ctx := context.Background()

	_, err := svc.ScanExpiry(ctx, 0)
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, svc.Acknowledge(ctx, pending[0].ID))
	pending, err = svc.ListPending(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	assert.ErrorIs(t, svc.Acknowledge(ctx, "no-existe"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Acknowledge(ctx, ""), domain.ErrInvalidInput)
}
