package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implementación de OrganizationRepository (usable con pool o tx).
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// GetByID obtiene la organización por ID.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), COALESCE(address, ''),
		       numbering_mode, COALESCE(invoice_prefix, ''), next_number, number_width,
		       plan, created_at, updated_at
		FROM organizations WHERE id = $1`
	var o entity.Organization
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Name, &o.Email, &o.Address,
		&o.NumberingMode, &o.InvoicePrefix, &o.NextNumber, &o.NumberWidth,
		&o.Plan, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get organization", err)
	}
	return &o, nil
}

// ClaimNextNumber incrementa el contador solo si nadie lo movió desde la
// lectura: UPDATE condicional sobre el valor actual. Cero filas afectadas
// significa que otro proceso ganó la carrera; el caller relee y reintenta.
func (r *OrganizationRepo) ClaimNextNumber(ctx context.Context, orgID string, current int64) (bool, error) {
	query := `
		UPDATE organizations
		SET next_number = next_number + 1, updated_at = NOW()
		WHERE id = $1 AND next_number = $2`
	tag, err := r.q.Exec(ctx, query, orgID, current)
	if err != nil {
		return false, storeErr("claim next number", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateNumbering persiste modo, prefijo y ancho. El contador next_number no
// aparece en el SET: la configuración jamás lo reinicia.
func (r *OrganizationRepo) UpdateNumbering(ctx context.Context, org *entity.Organization) error {
	query := `
		UPDATE organizations
		SET numbering_mode = $2, invoice_prefix = $3, number_width = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		org.ID, org.NumberingMode, org.InvoicePrefix, org.NumberWidth, org.UpdatedAt,
	)
	if err != nil {
		return storeErr("update numbering", err)
	}
	return nil
}
