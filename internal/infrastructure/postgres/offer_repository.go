package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.OfferRepository = (*OfferRepo)(nil)

const offerColumns = `id, nombre, descripcion, porcentaje_descuento, fecha_inicio, fecha_fin, activa, created_at, updated_at`

// OfferRepo ofertas sobre PostgreSQL.
type OfferRepo struct {
	q Querier
}

// NewOfferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOfferRepository(q Querier) *OfferRepo {
	return &OfferRepo{q: q}
}

// Create persiste una oferta nueva.
func (r *OfferRepo) Create(ctx context.Context, o *entity.Offer) error {
	query := `INSERT INTO ofertas (` + offerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Name, o.Description, o.DiscountPercent, o.StartDate, o.EndDate, o.Active, o.CreatedAt, o.UpdatedAt,
	)
	return mapError("insert oferta", err)
}

// GetByID obtiene una oferta. (nil, nil) si no existe.
func (r *OfferRepo) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	return r.get(ctx, `SELECT `+offerColumns+` FROM ofertas WHERE id = $1`, id, "get oferta")
}

// GetForShare obtiene la oferta con lock compartido (SELECT FOR SHARE).
func (r *OfferRepo) GetForShare(ctx context.Context, id string) (*entity.Offer, error) {
	return r.get(ctx, `SELECT `+offerColumns+` FROM ofertas WHERE id = $1 FOR SHARE`, id, "get oferta for share")
}

// GetForUpdate obtiene la oferta con lock exclusivo (SELECT FOR UPDATE).
func (r *OfferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Offer, error) {
	return r.get(ctx, `SELECT `+offerColumns+` FROM ofertas WHERE id = $1 FOR UPDATE`, id, "get oferta for update")
}

func (r *OfferRepo) get(ctx context.Context, query, id, op string) (*entity.Offer, error) {
	o, err := scanOffer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return o, nil
}

// List lista ofertas, las de inicio más reciente primero.
func (r *OfferRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM ofertas
		WHERE ($1 = false OR activa)
		ORDER BY fecha_inicio DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, onlyActive, limit, offset)
	if err != nil {
		return nil, mapError("list ofertas", err)
	}
	defer rows.Close()
	return collectOffers(rows)
}

// Update aplica un cambio parcial (solo columnas de la lista blanca).
func (r *OfferRepo) Update(ctx context.Context, id string, patch entity.OfferPatch) error {
	sql, args, err := offerPatchBuilder(patch).Build("id", id)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return mapError("update oferta", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la oferta. La FK de producto_oferta es RESTRICT: con asociaciones falla.
func (r *OfferRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM ofertas WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete oferta: %w", domain.ErrOfferInUse)
		}
		return mapError("delete oferta", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func offerPatchBuilder(p entity.OfferPatch) *UpdateBuilder {
	b := NewUpdateBuilder("ofertas",
		"nombre", "descripcion", "porcentaje_descuento", "fecha_inicio", "fecha_fin", "activa")
	if p.Name != nil {
		b.Set("nombre", *p.Name)
	}
	if p.Description != nil {
		b.Set("descripcion", *p.Description)
	}
	if p.DiscountPercent != nil {
		b.Set("porcentaje_descuento", *p.DiscountPercent)
	}
	if p.StartDate != nil {
		b.Set("fecha_inicio", entity.DateOf(*p.StartDate))
	}
	if p.EndDate != nil {
		b.Set("fecha_fin", entity.DateOf(*p.EndDate))
	}
	if p.Active != nil {
		b.Set("activa", *p.Active)
	}
	return b.Touch("updated_at")
}

func scanOffer(row pgxScanner) (*entity.Offer, error) {
	var o entity.Offer
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.DiscountPercent, &o.StartDate, &o.EndDate,
		&o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOffers(rows pgx.Rows) ([]*entity.Offer, error) {
	var list []*entity.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, mapError("scan oferta", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
