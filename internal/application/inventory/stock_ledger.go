package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/pricing"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// StockLedger es el único punto del sistema que modifica Product.Stock.
// No abre ni confirma transacciones: siempre trabaja con repositorios atados a la tx del caller.
type StockLedger struct {
	now func() time.Time
	log *logger.Logger
}

// NewStockLedger construye el ledger de stock.
func NewStockLedger(log *logger.Logger) *StockLedger {
	return &StockLedger{now: utcNow, log: log.Component("stock")}
}

// Apply bloquea la fila del producto (SELECT FOR UPDATE), verifica que el stock resultante no
// sea negativo, actualiza el stock y agrega una fila al historial.
// Si retorna error no se escribió nada y el caller debe descartar la transacción.
func (l *StockLedger) Apply(ctx context.Context, repos repository.TxRepos, change entity.StockChange) (*entity.Product, *entity.InventoryHistory, error) {
	if change.ProductID == "" || change.UserID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if change.Delta.IsZero() {
		return nil, nil, fmt.Errorf("%w: cambio de stock en cero", domain.ErrInvalidInput)
	}
	if !pricing.FitsPlaces(change.Delta, pricing.QuantityPlaces) {
		return nil, nil, fmt.Errorf("%w: cambio %s con más de %d decimales", domain.ErrInvalidInput, change.Delta.String(), pricing.QuantityPlaces)
	}
	if !entity.ValidReason(change.Reason) {
		return nil, nil, fmt.Errorf("%w: motivo %q", domain.ErrInvalidInput, change.Reason)
	}

	// Bloquea la fila del producto para serializar a otros mutadores concurrentes
	product, err := repos.Products.GetForUpdate(ctx, change.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, change.ProductID)
	}

	newStock := product.Stock.Add(change.Delta)
	if newStock.IsNegative() {
		return nil, nil, fmt.Errorf("%w: producto %s tiene %s, se pidió %s",
			domain.ErrInsufficientStock, product.ID, product.Stock.String(), change.Delta.Neg().String())
	}

	if err := repos.Products.UpdateStock(ctx, product.ID, newStock); err != nil {
		return nil, nil, err
	}
	previous := product.Stock
	product.Stock = newStock

	entry := &entity.InventoryHistory{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Change:    change.Delta,
		Reason:    change.Reason,
		Date:      l.now(),
		UserID:    change.UserID,
	}
	if err := repos.History.Append(ctx, entry); err != nil {
		return nil, nil, err
	}

	l.log.Info().
		Str("producto_id", product.ID).
		Str("motivo", change.Reason).
		Str("cambio", change.Delta.String()).
		Str("stock_anterior", previous.String()).
		Str("stock_nuevo", newStock.String()).
		Str("usuario_id", change.UserID).
		Msg("stock actualizado")

	return product, entry, nil
}

func utcNow() time.Time { return time.Now().UTC() }
