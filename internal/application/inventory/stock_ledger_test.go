package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/memory"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

func newStore(stock int64) *memory.Store {
	s := memory.NewStore()
	s.PutProduct(entity.Product{
		ID:        "p1",
		Name:      "Arroz",
		Stock:     decimal.NewFromInt(stock),
		SalePrice: decimal.NewFromInt(20),
		Unit:      entity.UnitKg,
	})
	return s
}

func apply(s *memory.Store, l *inventory.StockLedger, change entity.StockChange) (*entity.Product, error) {
	var out *entity.Product
	err := s.Run(context.Background(), func(ctx context.Context, r repository.TxRepos) error {
		p, _, err := l.Apply(ctx, r, change)
		out = p
		return err
	})
	return out, err
}

func TestStockLedger_ApplyDescuentaYRegistra(t *testing.T) {
	s := newStore(10)
	l := inventory.NewStockLedger(logger.Nop())

	p, err := apply(s, l, entity.StockChange{ProductID: "p1", Delta: decimal.NewFromInt(-3), Reason: entity.ReasonSale, UserID: "u1"})
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(7)))

	stored, _ := s.Product("p1")
	assert.True(t, stored.Stock.Equal(decimal.NewFromInt(7)))

	hist := s.HistoryOf("p1")
	require.Len(t, hist, 1)
	assert.True(t, hist[0].Change.Equal(decimal.NewFromInt(-3)))
	assert.Equal(t, entity.ReasonSale, hist[0].Reason)
	assert.Equal(t, "u1", hist[0].UserID)
	assert.NotEmpty(t, hist[0].ID)
}

func TestStockLedger_ApplyRechazaStockNegativo(t *testing.T) {
	s := newStore(2)
	l := inventory.NewStockLedger(logger.Nop())

	_, err := apply(s, l, entity.StockChange{ProductID: "p1", Delta: decimal.NewFromInt(-3), Reason: entity.ReasonSale, UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.KindConsistency, domain.KindOf(err))

	stored, _ := s.Product("p1")
	assert.True(t, stored.Stock.Equal(decimal.NewFromInt(2)))
	assert.Empty(t, s.HistoryOf("p1"))
}

func TestStockLedger_ApplyDejaStockEnCero(t *testing.T) {
	s := newStore(3)
	l := inventory.NewStockLedger(logger.Nop())

	p, err := apply(s, l, entity.StockChange{ProductID: "p1", Delta: decimal.NewFromInt(-3), Reason: entity.ReasonSale, UserID: "u1"})
	require.NoError(t, err)
	assert.True(t, p.Stock.IsZero())
}

func TestStockLedger_ApplyEntradasValidas(t *testing.T) {
	cases := []struct {
		name   string
		change entity.StockChange
		err    error
	}{
		{"producto inexistente", entity.StockChange{ProductID: "x", Delta: decimal.NewFromInt(1), Reason: entity.ReasonPurchase, UserID: "u1"}, domain.ErrNotFound},
		{"delta cero", entity.StockChange{ProductID: "p1", Delta: decimal.Zero, Reason: entity.ReasonPurchase, UserID: "u1"}, domain.ErrInvalidInput},
		{"motivo desconocido", entity.StockChange{ProductID: "p1", Delta: decimal.NewFromInt(1), Reason: "robo", UserID: "u1"}, domain.ErrInvalidInput},
		{"sin usuario", entity.StockChange{ProductID: "p1", Delta: decimal.NewFromInt(1), Reason: entity.ReasonPurchase}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(5)
			_, err := apply(s, inventory.NewStockLedger(logger.Nop()), tc.change)
			assert.ErrorIs(t, err, tc.err)
			assert.Empty(t, s.HistoryOf("p1"))
		})
	}
}

func TestStockLedger_ApplyCantidadDecimal(t *testing.T) {
	s := newStore(2)
	l := inventory.NewStockLedger(logger.Nop())

	_, err := apply(s, l, entity.StockChange{ProductID: "p1", Delta: decimal.RequireFromString("-0.75"), Reason: entity.ReasonSale, UserID: "u1"})
	require.NoError(t, err)
	stored, _ := s.Product("p1")
	assert.Equal(t, "1.25", stored.Stock.String())
}

func TestStockLedger_ApplyRechazaMasDeTresDecimales(t *testing.T) {
	s := newStore(10)
	l := inventory.NewStockLedger(logger.Nop())

	_, err := apply(s, l, entity.StockChange{ProductID: "p1", Delta: decimal.RequireFromString("-0.0005"), Reason: entity.ReasonSale, UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, _ := s.Product("p1")
	assert.True(t, stored.Stock.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, s.HistoryOf("p1"))

	// Ceros a la derecha no cuentan como decimales
	_, err = apply(s, l, entity.StockChange{ProductID: "p1", Delta: decimal.RequireFromString("-1.2500"), Reason: entity.ReasonSale, UserID: "u1"})
	require.NoError(t, err)
}

// productReads registra por qué método se leyó cada producto.
type productReads struct {
	repository.ProductRepository
	calls []string
}

func (p *productReads) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p.calls = append(p.calls, "GetByID")
	return p.ProductRepository.GetByID(ctx, id)
}

func (p *productReads) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p.calls = append(p.calls, "GetForUpdate")
	return p.ProductRepository.GetForUpdate(ctx, id)
}

func TestStockLedger_ApplyBloqueaLaFilaDelProducto(t *testing.T) {
	s := newStore(10)
	l := inventory.NewStockLedger(logger.Nop())
	spy := &productReads{}

	err := s.Run(context.Background(), func(ctx context.Context, r repository.TxRepos) error {
		spy.ProductRepository = r.Products
		r.Products = spy
		_, _, err := l.Apply(ctx, r, entity.StockChange{ProductID: "p1", Delta: decimal.NewFromInt(-3), Reason: entity.ReasonSale, UserID: "u1"})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"GetForUpdate"}, spy.calls)
}

func TestStockLedger_ApplyRechazadoTambienBloquea(t *testing.T) {
	s := newStore(1)
	l := inventory.NewStockLedger(logger.Nop())
	spy := &productReads{}

	err := s.Run(context.Background(), func(ctx context.Context, r repository.TxRepos) error {
		spy.ProductRepository = r.Products
		r.Products = spy
		_, _, err := l.Apply(ctx, r, entity.StockChange{ProductID: "p1", Delta: decimal.NewFromInt(-3), Reason: entity.ReasonSale, UserID: "u1"})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, []string{"GetForUpdate"}, spy.calls)
}
