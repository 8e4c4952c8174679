package invoicing

import (
	"context"
	"fmt"

	"github.com/tochman/visinv-api/internal/domain"
)

// DefaultFreeTierInvoiceLimit máximo de facturas del plan gratuito.
const DefaultFreeTierInvoiceLimit = 10

// QuotaGate bloquea la creación de facturas cuando una organización del plan
// gratuito alcanza el límite. Es un chequeo de frontera, no una restricción de
// base de datos: una carrera en el umbral puede dejar pasar una factura de
// más, aceptable para un empujón de producto.
type QuotaGate struct {
	subs  SubscriptionReader
	limit int
}

// NewQuotaGate construye la puerta. limit <= 0 usa el valor por defecto.
func NewQuotaGate(subs SubscriptionReader, limit int) *QuotaGate {
	if limit <= 0 {
		limit = DefaultFreeTierInvoiceLimit
	}
	return &QuotaGate{subs: subs, limit: limit}
}

// CheckCreate se evalúa una sola vez, en el momento de la intención de crear.
// Premium pasa incondicionalmente. ErrQuotaExceeded es una condición de
// negocio distinguible: el borde HTTP la enruta al flujo de upgrade, no a un
// error de formulario.
func (g *QuotaGate) CheckCreate(ctx context.Context, orgID string) error {
	usage, err := g.subs.Usage(ctx, orgID)
	if err != nil {
		return fmt.Errorf("consultar uso de la organización: %w", err)
	}
	if usage.Premium {
		return nil
	}
	if usage.InvoiceCount >= g.limit {
		return domain.ErrQuotaExceeded
	}
	return nil
}
