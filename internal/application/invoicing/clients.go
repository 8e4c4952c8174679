package invoicing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

// ClientUseCase administra los clientes receptores de facturas.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// CreateClient registra un cliente de la organización.
func (uc *ClientUseCase) CreateClient(ctx context.Context, orgID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.TrimSpace(in.Email),
		Address:        in.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetClient devuelve un cliente de la organización.
func (uc *ClientUseCase) GetClient(ctx context.Context, orgID, id string) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if client.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return toClientResponse(client), nil
}

// ListClients lista los clientes de la organización.
func (uc *ClientUseCase) ListClients(ctx context.Context, orgID string, page dto.PageRequest) ([]dto.ClientResponse, error) {
	page.DefaultPage()
	clients, err := uc.clientRepo.ListByOrganization(ctx, orgID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		Email:          c.Email,
		Address:        c.Address,
	}
}
