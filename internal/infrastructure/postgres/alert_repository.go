package postgres

import (
	"context"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una alerta nueva.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	query := `
		INSERT INTO alertas (id, producto_id, tipo, mensaje, fecha, atendida)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, a.ID, a.ProductID, a.Kind, a.Message, a.Date, a.Acknowledged)
	return mapError("insert alerta", err)
}

// ListPending lista alertas sin atender, más recientes primero.
func (r *AlertRepo) ListPending(ctx context.Context, limit, offset int) ([]*entity.Alert, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, producto_id, tipo, mensaje, fecha, atendida
		FROM alertas WHERE NOT atendida
		ORDER BY fecha DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, mapError("list alertas", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Kind, &a.Message, &a.Date, &a.Acknowledged); err != nil {
			return nil, mapError("scan alerta", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// HasPending indica si el producto tiene una alerta sin atender del tipo dado.
func (r *AlertRepo) HasPending(ctx context.Context, productID, kind string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM alertas WHERE producto_id = $1 AND tipo = $2 AND NOT atendida)`,
		productID, kind).Scan(&exists)
	if err != nil {
		return false, mapError("alerta pendiente", err)
	}
	return exists, nil
}

// Acknowledge marca la alerta como atendida.
func (r *AlertRepo) Acknowledge(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE alertas SET atendida = true WHERE id = $1`, id)
	if err != nil {
		return mapError("atender alerta", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
