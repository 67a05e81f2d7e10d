package repository

import (
	"context"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// OfferRepository persiste ofertas.
type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	GetByID(ctx context.Context, id string) (*entity.Offer, error)
	// GetForShare bloquea la oferta en modo compartido (FOR SHARE) durante la tx.
	GetForShare(ctx context.Context, id string) (*entity.Offer, error)
	// GetForUpdate bloquea la oferta en modo exclusivo (FOR UPDATE) durante la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Offer, error)
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Offer, error)
	Update(ctx context.Context, id string, patch entity.OfferPatch) error
	Delete(ctx context.Context, id string) error
}

// ProductOfferRepository persiste la relación muchos a muchos producto-oferta.
type ProductOfferRepository interface {
	Exists(ctx context.Context, productID, offerID string) (bool, error)
	Create(ctx context.Context, po entity.ProductOffer) error
	Delete(ctx context.Context, productID, offerID string) (bool, error)
	CountByOffer(ctx context.Context, offerID string) (int, error)
	// ListOffersByProduct devuelve todas las ofertas asociadas al producto (activas o no).
	ListOffersByProduct(ctx context.Context, productID string) ([]*entity.Offer, error)
	ListProductIDsByOffer(ctx context.Context, offerID string) ([]string, error)
}
