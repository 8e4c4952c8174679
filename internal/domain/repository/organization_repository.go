package repository

import (
	"context"

	"github.com/tochman/visinv-api/internal/domain/entity"
)

// OrganizationRepository define el puerto de persistencia para organizaciones
// y su configuración de numeración.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Organization, error)

	// ClaimNextNumber intenta el incremento condicional del contador:
	// next_number pasa de current a current+1 solo si nadie lo movió antes.
	// Devuelve false (sin error) cuando otro proceso ganó la carrera; el
	// asignador relee y reintenta un número acotado de veces.
	ClaimNextNumber(ctx context.Context, orgID string, current int64) (bool, error)

	// UpdateNumbering cambia modo, prefijo y ancho. Nunca toca next_number:
	// cambiar de modo no renumera ni reinicia el contador.
	UpdateNumbering(ctx context.Context, org *entity.Organization) error
}
