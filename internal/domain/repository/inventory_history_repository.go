package repository

import (
	"context"
	"time"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// HistoryFilter rango y paginación para consultar el historial de un producto.
type HistoryFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// InventoryHistoryRepository es el ledger append-only de cambios de stock.
type InventoryHistoryRepository interface {
	Append(ctx context.Context, h *entity.InventoryHistory) error
	ListByProduct(ctx context.Context, productID string, filter HistoryFilter) ([]*entity.InventoryHistory, error)
}
