package repository

import (
	"context"
	"time"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// SaleFilter filtros para listar ventas. Campos vacíos no filtran.
type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	UserID string
	Limit  int
	Offset int
}

// SaleRepository persiste ventas y su detalle.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	SummarizeByDay(ctx context.Context, from, to time.Time) ([]entity.DailySales, error)
}
