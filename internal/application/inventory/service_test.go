package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/alerts"
	"github.com/jhoicas/puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/memory"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

func newService(s *memory.Store) *inventory.Service {
	return inventory.NewService(s, s.Repos(),
		inventory.NewStockLedger(logger.Nop()),
		alerts.NewEngine(decimal.NewFromInt(5), logger.Nop()))
}

func TestService_AdjustCompraSumaStock(t *testing.T) {
	s := newStore(1)
	svc := newService(s)

	res, err := svc.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", Delta: decimal.NewFromInt(20), Reason: entity.ReasonPurchase, UserID: "u1",
	})
	require.NoError(t, err)
	assert.True(t, res.Product.Stock.Equal(decimal.NewFromInt(21)))
	assert.Equal(t, entity.ReasonPurchase, res.History.Reason)
	assert.Empty(t, res.Alerts)
}

func TestService_AdjustNegativoGeneraAlerta(t *testing.T) {
	s := newStore(8)
	svc := newService(s)

	res, err := svc.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", Delta: decimal.NewFromInt(-4), Reason: entity.ReasonAdjustment, UserID: "u1",
	})
	require.NoError(t, err)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, entity.AlertLowStock, res.Alerts[0].Kind)
	assert.Len(t, s.AllAlerts(), 1)
}

func TestService_AdjustRechazaMotivos(t *testing.T) {
	s := newStore(8)
	svc := newService(s)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, inventory.AdjustInput{ProductID: "p1", Delta: decimal.NewFromInt(-1), Reason: entity.ReasonSale, UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Adjust(ctx, inventory.AdjustInput{ProductID: "p1", Delta: decimal.NewFromInt(-1), Reason: entity.ReasonReturn, UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Adjust(ctx, inventory.AdjustInput{ProductID: "p1", Delta: decimal.RequireFromString("0.0001"), Reason: entity.ReasonPurchase, UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Adjust(ctx, inventory.AdjustInput{ProductID: "p1", Delta: decimal.NewFromInt(-9), Reason: entity.ReasonAdjustment, UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, _ := s.Product("p1")
	assert.True(t, stored.Stock.Equal(decimal.NewFromInt(8)))
	assert.Empty(t, s.HistoryOf("p1"))
}

func TestService_HistoryMasRecientePrimero(t *testing.T) {
	s := newStore(10)
	svc := newService(s)
	ctx := context.Background()

	for _, d := range []int64{5, -2, 3} {
		reason := entity.ReasonPurchase
		if d < 0 {
			reason = entity.ReasonAdjustment
		}
		_, err := svc.Adjust(ctx, inventory.AdjustInput{ProductID: "p1", Delta: decimal.NewFromInt(d), Reason: reason, UserID: "u1"})
		require.NoError(t, err)
	}

	hist, err := svc.History(ctx, "p1", repository.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.True(t, hist[0].Change.Equal(decimal.NewFromInt(3)))
	assert.True(t, hist[2].Change.Equal(decimal.NewFromInt(5)))

	page, err := svc.History(ctx, "p1", repository.HistoryFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.True(t, page[0].Change.Equal(decimal.NewFromInt(-2)))

	_, err = svc.History(ctx, "nope", repository.HistoryFilter{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
