package repository

import (
	"context"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// UserRepository acceso mínimo a usuarios (emisión de tokens desde la CLI de operación).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
