package invoicing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Asignador de consecutivos: CAS con reintento acotado en modo automático,
// unicidad estricta en modo manual.
// ──────────────────────────────────────────────────────────────────────────────

func autoOrg(next int64) *entity.Organization {
	return &entity.Organization{
		ID:            "org-1",
		NumberingMode: entity.NumberingAutomatic,
		InvoicePrefix: "INV",
		NextNumber:    next,
		NumberWidth:   4,
	}
}

func TestAllocate_AutomaticoSinContencion(t *testing.T) {
	orgs := &memOrgRepo{org: autoOrg(5)}
	invoices := newMemInvoiceRepo()
	allocator := invoicing.NewNumberAllocator()

	number, err := allocator.Allocate(context.Background(), orgs, invoices, autoOrg(5), "")

	require.NoError(t, err)
	assert.Equal(t, "INV-0005", number)
	assert.Equal(t, int64(6), orgs.org.NextNumber, "el contador debe avanzar exactamente uno")
}

func TestAllocate_AutomaticoReintentaTrasPerderLaCarrera(t *testing.T) {
	// Dos rivales ganan la carrera antes que nosotros: el tercer intento pasa.
	orgs := &memOrgRepo{org: autoOrg(5), claimRejections: 2}
	allocator := invoicing.NewNumberAllocator()

	number, err := allocator.Allocate(context.Background(), orgs, newMemInvoiceRepo(), autoOrg(5), "")

	require.NoError(t, err)
	assert.Equal(t, "INV-0007", number, "debe usar el valor releído, no el observado al inicio")
	assert.Equal(t, int64(8), orgs.org.NextNumber)
}

func TestAllocate_AutomaticoAgotaReintentos(t *testing.T) {
	orgs := &memOrgRepo{org: autoOrg(5), claimRejections: 3}
	allocator := invoicing.NewNumberAllocator()

	_, err := allocator.Allocate(context.Background(), orgs, newMemInvoiceRepo(), autoOrg(5), "")

	assert.ErrorIs(t, err, domain.ErrNumberAllocationFailed)
}

func TestAllocate_ManualRequiereNumero(t *testing.T) {
	org := &entity.Organization{ID: "org-1", NumberingMode: entity.NumberingManual}
	allocator := invoicing.NewNumberAllocator()

	_, err := allocator.Allocate(context.Background(), &memOrgRepo{org: org}, newMemInvoiceRepo(), org, "")

	assert.ErrorIs(t, err, domain.ErrMissingInvoiceNumber)
}

func TestAllocate_ManualRechazaDuplicado(t *testing.T) {
	org := &entity.Organization{ID: "org-1", NumberingMode: entity.NumberingManual}
	invoices := newMemInvoiceRepo()
	require.NoError(t, invoices.Create(context.Background(), &entity.Invoice{
		ID:             "inv-1",
		OrganizationID: "org-1",
		InvoiceNumber:  "FAC-2026-001",
	}))
	allocator := invoicing.NewNumberAllocator()

	_, err := allocator.Allocate(context.Background(), &memOrgRepo{org: org}, invoices, org, "FAC-2026-001")
	assert.ErrorIs(t, err, domain.ErrDuplicateInvoiceNumber)

	number, err := allocator.Allocate(context.Background(), &memOrgRepo{org: org}, invoices, org, "FAC-2026-002")
	require.NoError(t, err)
	assert.Equal(t, "FAC-2026-002", number)
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-0005", invoicing.FormatInvoiceNumber("INV", 4, 5))
	assert.Equal(t, "INV-00123", invoicing.FormatInvoiceNumber("INV", 5, 123))
	assert.Equal(t, "0042", invoicing.FormatInvoiceNumber("", 4, 42), "sin prefijo queda solo el consecutivo")
	assert.Equal(t, "F-0007", invoicing.FormatInvoiceNumber("F", 0, 7), "ancho <= 0 usa el por defecto")
	assert.Equal(t, "INV-12345", invoicing.FormatInvoiceNumber("INV", 4, 12345), "el relleno no trunca")
}
