package invoicing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
)

func TestCreateClient_NormalizaYPersiste(t *testing.T) {
	repo := newMemClientRepo()
	uc := invoicing.NewClientUseCase(repo)

	resp, err := uc.CreateClient(context.Background(), "org-1", dto.CreateClientRequest{
		Name:  "  ACME Ltda  ",
		Email: " facturacion@acme.test ",
	})

	require.NoError(t, err)
	assert.Equal(t, "ACME Ltda", resp.Name)
	assert.Equal(t, "facturacion@acme.test", resp.Email)
	assert.Equal(t, "org-1", resp.OrganizationID)
	assert.NotEmpty(t, resp.ID)
}

func TestCreateClient_NombreRequerido(t *testing.T) {
	uc := invoicing.NewClientUseCase(newMemClientRepo())

	_, err := uc.CreateClient(context.Background(), "org-1", dto.CreateClientRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetClient_AislamientoDeTenant(t *testing.T) {
	repo := newMemClientRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.Client{
		ID: "cli-1", OrganizationID: "org-1", Name: "ACME",
	}))
	uc := invoicing.NewClientUseCase(repo)

	_, err := uc.GetClient(context.Background(), "org-2", "cli-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetClient(context.Background(), "org-1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := uc.GetClient(context.Background(), "org-1", "cli-1")
	require.NoError(t, err)
	assert.Equal(t, "ACME", resp.Name)
}

func TestListClients_SoloDeLaOrganizacion(t *testing.T) {
	repo := newMemClientRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.Client{ID: "a", OrganizationID: "org-1", Name: "A"}))
	require.NoError(t, repo.Create(context.Background(), &entity.Client{ID: "b", OrganizationID: "org-2", Name: "B"}))
	uc := invoicing.NewClientUseCase(repo)

	list, err := uc.ListClients(context.Background(), "org-1", dto.PageRequest{})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Name)
}
