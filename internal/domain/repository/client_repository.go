package repository

import (
	"context"

	"github.com/tochman/visinv-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Client, error)
}
