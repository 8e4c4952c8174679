package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
	"github.com/tochman/visinv-api/pkg/logger"
)

// PaymentLedger administra el libro de pagos: abonos inmutables contra una
// factura, saldo y estado derivados de la suma. El registro completo ocurre
// dentro de una transacción con la factura bloqueada, de modo que dos abonos
// concurrentes nunca sobrepasen el total.
type PaymentLedger struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	clientRepo  repository.ClientRepository
	audit       *AuditRecorder
	mailer      Mailer
	log         *logger.Logger
}

// NewPaymentLedger construye el libro de pagos.
func NewPaymentLedger(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	audit *AuditRecorder,
	mailer Mailer,
	log *logger.Logger,
) *PaymentLedger {
	return &PaymentLedger{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		audit:       audit,
		mailer:      mailer,
		log:         log,
	}
}

// RecordPayment registra un abono contra la factura. Valida monto positivo,
// que la factura admita pagos y que el abono no exceda el saldo pendiente;
// actualiza el estado a paid o partially_paid en la misma transacción.
func (pl *PaymentLedger) RecordPayment(ctx context.Context, orgID, userID, invoiceID string, in dto.RecordPaymentRequest) (*dto.PaymentResult, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	paymentDate := time.Now()
	if in.PaymentDate != "" {
		d, err := parseDate(in.PaymentDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		paymentDate = d
	}

	var (
		inv       *entity.Invoice
		payment   *entity.Payment
		newPaid   decimal.Decimal
		oldStatus string
	)
	err := pl.txRunner.RunPayment(ctx, func(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository) error {
		var err error
		inv, err = invoiceRepo.GetByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.OrganizationID != orgID {
			return domain.ErrForbidden
		}
		if inv.Status == entity.StatusDraft || inv.Status == entity.StatusVoid {
			return domain.ErrConflict
		}
		if inv.Type == entity.TypeCredit {
			return domain.ErrConflict
		}

		paid, err := paymentRepo.SumByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		oldStatus = entity.DeriveStatus(inv, paid, time.Now())
		remaining := inv.AbsTotal().Sub(paid)
		if in.Amount.GreaterThan(remaining) {
			return domain.ErrPaymentExceedsBalance
		}

		payment = &entity.Payment{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Amount:      in.Amount,
			PaymentDate: paymentDate,
			Method:      in.Method,
			Reference:   in.Reference,
			Notes:       in.Notes,
			CreatedAt:   time.Now(),
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		newPaid = paid.Add(in.Amount)
		status := entity.StatusPartiallyPaid
		if newPaid.GreaterThanOrEqual(inv.AbsTotal()) {
			status = entity.StatusPaid
		}
		inv.Status = status
		inv.UpdatedAt = time.Now()
		return invoiceRepo.UpdateStatus(ctx, invoiceID, status, inv.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}

	pl.audit.Record(ctx, invoiceID, entity.EventPaymentRecorded, map[string]any{
		"amount":         payment.Amount.String(),
		"payment_method": payment.Method,
		"user_id":        userID,
	})
	if inv.Status != oldStatus {
		pl.audit.Record(ctx, invoiceID, entity.EventStatusChanged, map[string]any{
			"old_status": oldStatus,
			"new_status": inv.Status,
		})
	}

	result := &dto.PaymentResult{
		Payment: toPaymentResponse(payment),
		Status:  inv.Status,
		Balance: inv.AbsTotal().Sub(newPaid),
	}
	if notice := pl.sendConfirmation(ctx, inv, payment, result.Balance); notice != "" {
		result.EmailNotice = notice
	}
	return result, nil
}

// sendConfirmation envía el correo de confirmación de cada abono registrado.
// El pago ya está confirmado: un fallo aquí se reporta como aviso, nunca como
// error de la operación.
func (pl *PaymentLedger) sendConfirmation(ctx context.Context, inv *entity.Invoice, payment *entity.Payment, balance decimal.Decimal) string {
	client, err := pl.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil || client == nil || client.Email == "" {
		return "abono registrado; sin correo de cliente para la confirmación"
	}
	err = pl.mailer.SendPaymentConfirmation(ctx, PaymentConfirmation{
		To:            client.Email,
		ClientName:    client.Name,
		InvoiceNumber: inv.InvoiceNumber,
		Currency:      inv.Currency,
		Amount:        payment.Amount,
		Balance:       balance,
		PaymentDate:   payment.PaymentDate,
	})
	if err != nil {
		pl.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo enviar la confirmación de pago")
		return "pago registrado; no se pudo enviar el correo de confirmación"
	}
	return ""
}

// GetBalance devuelve total, pagado y saldo de la factura, con el saldo como
// monto sugerido para el siguiente abono.
func (pl *PaymentLedger) GetBalance(ctx context.Context, orgID, invoiceID string) (*dto.BalanceResponse, error) {
	inv, err := pl.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	paid, err := pl.paymentRepo.SumByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	balance := inv.AbsTotal().Sub(paid)
	if balance.LessThan(decimal.Zero) {
		balance = decimal.Zero
	}
	return &dto.BalanceResponse{
		InvoiceID:       inv.ID,
		Currency:        inv.Currency,
		TotalAmount:     inv.AbsTotal(),
		PaidAmount:      paid,
		Balance:         balance,
		SuggestedAmount: balance,
		Status:          entity.DeriveStatus(inv, paid, time.Now()),
	}, nil
}

// ListPayments lista los abonos de la factura en orden de registro.
func (pl *PaymentLedger) ListPayments(ctx context.Context, orgID, invoiceID string) ([]dto.PaymentResponse, error) {
	inv, err := pl.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	payments, err := pl.paymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	return out, nil
}
