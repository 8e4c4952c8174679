package invoicing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

// CreditResolver valida el enlace entre una nota crédito y su factura
// objetivo. No acota el monto acreditado contra el total original: los
// créditos parciales (y múltiples por objetivo) son válidos.
type CreditResolver struct{}

// NewCreditResolver construye el resolver.
func NewCreditResolver() *CreditResolver { return &CreditResolver{} }

// Validate verifica las precondiciones del enlace y devuelve la factura
// objetivo. Cualquier violación es ErrInvalidCreditTarget:
//
//   - el objetivo existe y pertenece a la misma organización,
//   - el objetivo es DEBET (no se acredita una nota crédito),
//   - el objetivo es del mismo cliente que la nota nueva,
//   - el total de la nota es <= 0 (documento reversor).
func (r *CreditResolver) Validate(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	orgID, clientID, creditedInvoiceID string,
	total decimal.Decimal,
) (*entity.Invoice, error) {
	if creditedInvoiceID == "" {
		return nil, domain.ErrInvalidCreditTarget
	}
	target, err := invoiceRepo.GetByID(ctx, creditedInvoiceID)
	if err != nil {
		return nil, fmt.Errorf("buscar factura objetivo: %w", err)
	}
	if target == nil || target.OrganizationID != orgID {
		return nil, domain.ErrInvalidCreditTarget
	}
	if target.Type != entity.TypeDebet {
		return nil, domain.ErrInvalidCreditTarget
	}
	if target.ClientID != clientID {
		return nil, domain.ErrInvalidCreditTarget
	}
	if total.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidCreditTarget
	}
	return target, nil
}
