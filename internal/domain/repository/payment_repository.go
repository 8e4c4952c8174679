package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tochman/visinv-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para pagos.
// Solo inserción y lectura: los pagos son inmutables.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	// SumByInvoice devuelve la suma de abonos de la factura (cero si no hay).
	SumByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}
