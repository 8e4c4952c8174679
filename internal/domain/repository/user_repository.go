package repository

import (
	"context"

	"github.com/tochman/visinv-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios (solo login).
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
