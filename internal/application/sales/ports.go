package sales

import (
	"context"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// StockApplier descuenta stock dentro de la transacción de la venta.
type StockApplier interface {
	Apply(ctx context.Context, repos repository.TxRepos, change entity.StockChange) (*entity.Product, *entity.InventoryHistory, error)
}

// AlertEvaluator revisa el stock de un producto tras la venta, dentro de la misma tx.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, repos repository.TxRepos, productID string) ([]*entity.Alert, error)
}
