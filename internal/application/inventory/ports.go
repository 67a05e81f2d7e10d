package inventory

import (
	"context"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// AlertEvaluator revisa el estado de un producto tras un cambio de stock, dentro de la misma tx.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, repos repository.TxRepos, productID string) ([]*entity.Alert, error)
}
