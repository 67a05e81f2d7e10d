package repository

import (
	"context"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// AlertRepository persiste alertas. Tras crearse solo cambia el flag de atendida.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	ListPending(ctx context.Context, limit, offset int) ([]*entity.Alert, error)
	// HasPending indica si el producto ya tiene una alerta sin atender del tipo dado.
	HasPending(ctx context.Context, productID, kind string) (bool, error)
	Acknowledge(ctx context.Context, id string) error
}
