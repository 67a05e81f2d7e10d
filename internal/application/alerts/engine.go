package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// DefaultLowStockThreshold umbral de stock bajo cuando no se configura otro.
var DefaultLowStockThreshold = decimal.NewFromInt(5)

// Engine genera alertas de stock bajo como efecto de un cambio de stock.
// Corre dentro de la transacción del cambio: si la tx se descarta, la alerta también.
// No deduplica: cada cambio que deja el stock bajo el umbral produce una alerta nueva.
type Engine struct {
	threshold decimal.Decimal
	now       func() time.Time
	log       *logger.Logger
}

// NewEngine construye el motor con el umbral dado (cero o negativo usa el valor por defecto).
func NewEngine(threshold decimal.Decimal, log *logger.Logger) *Engine {
	if !threshold.IsPositive() {
		threshold = DefaultLowStockThreshold
	}
	return &Engine{threshold: threshold, now: utcNow, log: log.Component("alertas")}
}

// Evaluate lee el stock actual del producto (incluye lo escrito en la misma tx) y crea una
// alerta stock_bajo si queda por debajo del umbral.
func (e *Engine) Evaluate(ctx context.Context, repos repository.TxRepos, productID string) ([]*entity.Alert, error) {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if !product.Stock.LessThan(e.threshold) {
		return nil, nil
	}

	alert := &entity.Alert{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Kind:      entity.AlertLowStock,
		Message: fmt.Sprintf("Stock bajo para %s: quedan %s %s (umbral %s)",
			product.Name, product.Stock.String(), product.Unit, e.threshold.String()),
		Date: e.now(),
	}
	if err := repos.Alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	e.log.Info().
		Str("producto_id", product.ID).
		Str("tipo", alert.Kind).
		Str("stock", product.Stock.String()).
		Msg("alerta generada")
	return []*entity.Alert{alert}, nil
}

func utcNow() time.Time { return time.Now().UTC() }
