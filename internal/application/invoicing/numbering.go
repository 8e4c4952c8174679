package invoicing

import (
	"context"
	"fmt"

	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

// maxAllocationAttempts acota los reintentos del incremento condicional.
// La contención en el contador es una condición esperada, no excepcional:
// se relee y se reintenta; agotados los intentos, la creación falla y el
// cliente puede reenviar el formulario.
const maxAllocationAttempts = 3

// defaultNumberWidth ancho de relleno cuando la organización no configura uno.
const defaultNumberWidth = 4

// NumberAllocator produce o valida el invoice_number de una factura nueva
// según el modo de numeración de la organización. Es el único componente que
// muta el contador next_number.
type NumberAllocator struct{}

// NewNumberAllocator construye el asignador.
func NewNumberAllocator() *NumberAllocator { return &NumberAllocator{} }

// Allocate devuelve el número a usar. Los repositorios recibidos deben estar
// atados a la transacción de creación del caller.
//
//   - Modo automático: incremento condicional (CAS) del contador con reintento
//     acotado. Dos creaciones concurrentes nunca reciben el mismo número.
//   - Modo manual: manualNumber no vacío y único en la organización.
func (a *NumberAllocator) Allocate(
	ctx context.Context,
	orgRepo repository.OrganizationRepository,
	invoiceRepo repository.InvoiceRepository,
	org *entity.Organization,
	manualNumber string,
) (string, error) {
	if org.NumberingMode == entity.NumberingManual {
		return a.validateManual(ctx, invoiceRepo, org, manualNumber)
	}
	return a.allocateAutomatic(ctx, orgRepo, org)
}

func (a *NumberAllocator) allocateAutomatic(
	ctx context.Context,
	orgRepo repository.OrganizationRepository,
	org *entity.Organization,
) (string, error) {
	current := org.NextNumber
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		ok, err := orgRepo.ClaimNextNumber(ctx, org.ID, current)
		if err != nil {
			return "", fmt.Errorf("reclamar consecutivo: %w", err)
		}
		if ok {
			return FormatInvoiceNumber(org.InvoicePrefix, org.NumberWidth, current), nil
		}
		// Otro proceso movió el contador: releer el valor confirmado y reintentar.
		fresh, err := orgRepo.GetByID(ctx, org.ID)
		if err != nil {
			return "", fmt.Errorf("releer contador: %w", err)
		}
		if fresh == nil {
			return "", domain.ErrNotFound
		}
		current = fresh.NextNumber
	}
	return "", domain.ErrNumberAllocationFailed
}

func (a *NumberAllocator) validateManual(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	org *entity.Organization,
	manualNumber string,
) (string, error) {
	if manualNumber == "" {
		return "", domain.ErrMissingInvoiceNumber
	}
	exists, err := invoiceRepo.ExistsNumber(ctx, org.ID, manualNumber)
	if err != nil {
		return "", fmt.Errorf("verificar unicidad del número: %w", err)
	}
	if exists {
		return "", domain.ErrDuplicateInvoiceNumber
	}
	return manualNumber, nil
}

// FormatInvoiceNumber arma el identificador visible: {prefijo}-{consecutivo
// con relleno}, ej. ("INV", 4, 5) -> "INV-0005". Sin prefijo queda solo el
// consecutivo rellenado.
func FormatInvoiceNumber(prefix string, width int, n int64) string {
	if width <= 0 {
		width = defaultNumberWidth
	}
	if prefix == "" {
		return fmt.Sprintf("%0*d", width, n)
	}
	return fmt.Sprintf("%s-%0*d", prefix, width, n)
}
