package offers

import (
	"context"
	"time"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// ActiveOffersCache guarda el resultado de ActiveOffersFor por producto y día.
// Bump invalida todas las entradas; se llama tras cualquier cambio confirmado en ofertas
// o asociaciones.
type ActiveOffersCache interface {
	ActiveOffers(ctx context.Context, productID string, day time.Time,
		load func(ctx context.Context) ([]entity.PricedOffer, error)) ([]entity.PricedOffer, error)
	Bump(ctx context.Context) error
}
