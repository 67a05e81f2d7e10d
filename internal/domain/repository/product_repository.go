package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// ProductRepository define el acceso del núcleo a productos. El catálogo es dueño del resto de
// columnas; aquí solo se lee y se actualiza el stock.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT ... FOR UPDATE). Solo dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error
	// ListExpiring lista productos con stock > 0 cuya caducidad es <= until.
	ListExpiring(ctx context.Context, until time.Time) ([]*entity.Product, error)
}
