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
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/memory"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

func evaluate(s *memory.Store, e *alerts.Engine, productID string) ([]*entity.Alert, error) {
	var out []*entity.Alert
	err := s.Run(context.Background(), func(ctx context.Context, r repository.TxRepos) error {
		var err error
		out, err = e.Evaluate(ctx, r, productID)
		return err
	})
	return out, err
}

func TestEngine_EvaluateBajoUmbral(t *testing.T) {
	s := memory.NewStore()
	s.PutProduct(entity.Product{ID: "p1", Name: "Pan", Stock: decimal.NewFromInt(4), Unit: entity.UnitPiece})
	e := alerts.NewEngine(decimal.NewFromInt(5), logger.Nop())

	got, err := evaluate(s, e, "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.AlertLowStock, got[0].Kind)
	assert.False(t, got[0].Acknowledged)
	assert.Contains(t, got[0].Message, "Pan")

	// Sin deduplicación: cada evaluación bajo el umbral crea otra alerta
	_, err = evaluate(s, e, "p1")
	require.NoError(t, err)
	assert.Len(t, s.AllAlerts(), 2)
}

func TestEngine_EvaluateEnUmbralNoAlerta(t *testing.T) {
	s := memory.NewStore()
	s.PutProduct(entity.Product{ID: "p1", Stock: decimal.NewFromInt(5)})
	e := alerts.NewEngine(decimal.NewFromInt(5), logger.Nop())

	got, err := evaluate(s, e, "p1")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, s.AllAlerts())
}

func TestEngine_UmbralPorDefecto(t *testing.T) {
	e := alerts.NewEngine(decimal.Zero, logger.Nop())

	s := memory.NewStore()
	s.PutProduct(entity.Product{ID: "p1", Stock: decimal.RequireFromString("4.999")})
	s.PutProduct(entity.Product{ID: "p2", Stock: alerts.DefaultLowStockThreshold})

	got, err := evaluate(s, e, "p1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = evaluate(s, e, "p2")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEngine_ProductoInexistente(t *testing.T) {
	_, err := evaluate(memory.NewStore(), alerts.NewEngine(decimal.NewFromInt(5), logger.Nop()), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
