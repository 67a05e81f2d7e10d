package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.InventoryHistoryRepository = (*InventoryHistoryRepo)(nil)

// InventoryHistoryRepo historial de inventario (append-only) sobre PostgreSQL.
type InventoryHistoryRepo struct {
	q Querier
}

// NewInventoryHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryHistoryRepository(q Querier) *InventoryHistoryRepo {
	return &InventoryHistoryRepo{q: q}
}

// Append agrega una fila al historial.
func (r *InventoryHistoryRepo) Append(ctx context.Context, h *entity.InventoryHistory) error {
	query := `
		INSERT INTO historial_inventario (id, producto_id, cambio, motivo, fecha, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, h.ID, h.ProductID, h.Change, h.Reason, h.Date, h.UserID)
	return mapError("insert historial_inventario", err)
}

// ListByProduct lista el historial del producto, más reciente primero.
func (r *InventoryHistoryRepo) ListByProduct(ctx context.Context, productID string, f repository.HistoryFilter) ([]*entity.InventoryHistory, error) {
	where := []string{"producto_id = $1"}
	args := []any{productID}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("fecha >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("fecha <= $%d", len(args)))
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT id, producto_id, cambio, motivo, fecha, usuario_id
		FROM historial_inventario
		WHERE %s
		ORDER BY fecha DESC, numero DESC
		LIMIT $%d OFFSET $%d`, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list historial_inventario", err)
	}
	defer rows.Close()
	var list []*entity.InventoryHistory
	for rows.Next() {
		var h entity.InventoryHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.Change, &h.Reason, &h.Date, &h.UserID); err != nil {
			return nil, mapError("scan historial_inventario", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
