package postgres

import (
	"context"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.ProductOfferRepository = (*ProductOfferRepo)(nil)

// ProductOfferRepo relación producto-oferta sobre PostgreSQL. PK (producto_id, oferta_id).
type ProductOfferRepo struct {
	q Querier
}

// NewProductOfferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductOfferRepository(q Querier) *ProductOfferRepo {
	return &ProductOfferRepo{q: q}
}

// Exists indica si la asociación existe.
func (r *ProductOfferRepo) Exists(ctx context.Context, productID, offerID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM producto_oferta WHERE producto_id = $1 AND oferta_id = $2)`,
		productID, offerID).Scan(&exists)
	if err != nil {
		return false, mapError("existe producto_oferta", err)
	}
	return exists, nil
}

// Create inserta la asociación. Una carrera con otro insert llega como ErrDuplicate (23505).
func (r *ProductOfferRepo) Create(ctx context.Context, po entity.ProductOffer) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO producto_oferta (producto_id, oferta_id) VALUES ($1, $2)`,
		po.ProductID, po.OfferID)
	return mapError("insert producto_oferta", err)
}

// Delete elimina la asociación; false si no existía.
func (r *ProductOfferRepo) Delete(ctx context.Context, productID, offerID string) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM producto_oferta WHERE producto_id = $1 AND oferta_id = $2`, productID, offerID)
	if err != nil {
		return false, mapError("delete producto_oferta", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// CountByOffer cuenta los productos asociados a la oferta.
func (r *ProductOfferRepo) CountByOffer(ctx context.Context, offerID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM producto_oferta WHERE oferta_id = $1`, offerID).Scan(&n)
	if err != nil {
		return 0, mapError("count producto_oferta", err)
	}
	return n, nil
}

// ListOffersByProduct devuelve las ofertas asociadas al producto, activas o no.
func (r *ProductOfferRepo) ListOffersByProduct(ctx context.Context, productID string) ([]*entity.Offer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT o.id, o.nombre, o.descripcion, o.porcentaje_descuento, o.fecha_inicio, o.fecha_fin,
		       o.activa, o.created_at, o.updated_at
		FROM producto_oferta po
		JOIN ofertas o ON o.id = po.oferta_id
		WHERE po.producto_id = $1
		ORDER BY o.id`, productID)
	if err != nil {
		return nil, mapError("list ofertas por producto", err)
	}
	defer rows.Close()
	return collectOffers(rows)
}

// ListProductIDsByOffer devuelve los ids de productos asociados a la oferta.
func (r *ProductOfferRepo) ListProductIDsByOffer(ctx context.Context, offerID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT producto_id FROM producto_oferta WHERE oferta_id = $1 ORDER BY producto_id`, offerID)
	if err != nil {
		return nil, mapError("list productos por oferta", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError("scan producto_oferta", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
