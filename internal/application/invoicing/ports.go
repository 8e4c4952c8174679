package invoicing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con repositorios
// atados a ella. Lo implementa postgres.TxRunner.
type TxRunner interface {
	// RunCreation agrupa asignación de consecutivo e inserción de la factura:
	// si la inserción falla, el contador no queda incrementado.
	RunCreation(ctx context.Context, fn func(
		orgRepo repository.OrganizationRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error

	// RunPayment agrupa la verificación de saldo, la inserción del pago y la
	// actualización de estado: un fallo parcial nunca deja un pago registrado
	// contra un estado viejo.
	RunPayment(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// SubscriptionReader es el colaborador de suscripciones: el Quota Gate
// consume {premium, conteo de facturas}, no los calcula.
type SubscriptionReader interface {
	Usage(ctx context.Context, orgID string) (entity.SubscriptionUsage, error)
}

// PaymentConfirmation datos del correo de confirmación de pago.
type PaymentConfirmation struct {
	To            string
	ClientName    string
	InvoiceNumber string
	Currency      string
	Amount        decimal.Decimal
	Balance       decimal.Decimal
	PaymentDate   time.Time
}

// ReminderNotice datos del recordatorio de pago.
type ReminderNotice struct {
	To            string
	ClientName    string
	InvoiceNumber string
	Currency      string
	Balance       decimal.Decimal
	DueDate       time.Time
}

// Mailer es el colaborador de notificaciones. Se invoca después del commit de
// la mutación que lo dispara; su fallo jamás revierte el pago ni su evento de
// auditoría, solo produce un aviso separado.
type Mailer interface {
	SendPaymentConfirmation(ctx context.Context, msg PaymentConfirmation) error
	SendReminder(ctx context.Context, msg ReminderNotice) error
}
