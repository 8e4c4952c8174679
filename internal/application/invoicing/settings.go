package invoicing

import (
	"context"
	"time"

	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

// SettingsUseCase lee y actualiza la configuración de numeración de la
// organización. El contador next_number es de las asignaciones, no de la
// configuración: aquí nunca se modifica ni se reinicia.
type SettingsUseCase struct {
	orgRepo repository.OrganizationRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(orgRepo repository.OrganizationRepository) *SettingsUseCase {
	return &SettingsUseCase{orgRepo: orgRepo}
}

// GetNumbering devuelve la configuración vigente, incluido el próximo
// consecutivo que asignaría el modo automático.
func (uc *SettingsUseCase) GetNumbering(ctx context.Context, orgID string) (*dto.NumberingSettingsResponse, error) {
	org, err := uc.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.NumberingSettingsResponse{
		Mode:       org.NumberingMode,
		Prefix:     org.InvoicePrefix,
		NextNumber: org.NextNumber,
		Width:      org.NumberWidth,
	}, nil
}

// UpdateNumbering cambia modo, prefijo y ancho. Volver a automático retoma el
// contador donde quedó, sin importar qué números se ingresaron a mano.
func (uc *SettingsUseCase) UpdateNumbering(ctx context.Context, orgID string, in dto.UpdateNumberingRequest) (*dto.NumberingSettingsResponse, error) {
	if in.Mode != entity.NumberingAutomatic && in.Mode != entity.NumberingManual {
		return nil, domain.ErrInvalidInput
	}
	if in.Width < 0 {
		return nil, domain.ErrInvalidInput
	}
	org, err := uc.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	org.NumberingMode = in.Mode
	org.InvoicePrefix = in.Prefix
	if in.Width > 0 {
		org.NumberWidth = in.Width
	}
	org.UpdatedAt = time.Now()
	if err := uc.orgRepo.UpdateNumbering(ctx, org); err != nil {
		return nil, err
	}
	return &dto.NumberingSettingsResponse{
		Mode:       org.NumberingMode,
		Prefix:     org.InvoicePrefix,
		NextNumber: org.NextNumber,
		Width:      org.NumberWidth,
	}, nil
}
