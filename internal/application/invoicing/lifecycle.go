package invoicing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
	"github.com/tochman/visinv-api/pkg/logger"
)

// InvoiceUseCase operaciones de lectura y transiciones de ciclo de vida que no
// tocan el contador ni el libro de pagos: consulta, edición de borradores,
// envío, anulación, marca de visto y recordatorios.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
	audit       *AuditRecorder
	mailer      Mailer
	log         *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	audit *AuditRecorder,
	mailer Mailer,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		audit:       audit,
		mailer:      mailer,
		log:         log,
	}
}

// getOwned carga la factura y verifica el tenant.
func (uc *InvoiceUseCase) getOwned(ctx context.Context, orgID, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// Get devuelve la factura con líneas, nombre del cliente y estado derivado.
func (uc *InvoiceUseCase) Get(ctx context.Context, orgID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, err := uc.paymentRepo.SumByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(ctx, inv.ClientID); client != nil {
		clientName = client.Name
	}
	return toInvoiceResponse(inv, items, clientName, paid), nil
}

// List lista las facturas de la organización con estado derivado por factura.
func (uc *InvoiceUseCase) List(ctx context.Context, orgID string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.ListByOrganization(ctx, orgID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.invoiceRepo.CountByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	resp := &dto.InvoiceListResponse{
		Invoices: make([]dto.InvoiceResponse, 0, len(invoices)),
		Page:     dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, inv := range invoices {
		paid, err := uc.paymentRepo.SumByInvoice(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		resp.Invoices = append(resp.Invoices, *toInvoiceResponse(inv, nil, "", paid))
	}
	return resp, nil
}

// UpdateDraft edita un borrador: cliente, moneda, fechas y líneas. El número
// y el tipo son inmutables. Emite el evento updated.
func (uc *InvoiceUseCase) UpdateDraft(ctx context.Context, orgID, userID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.StatusDraft {
		return nil, domain.ErrConflict
	}

	if in.ClientID != "" && in.ClientID != inv.ClientID {
		client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil || client.OrganizationID != orgID {
			return nil, domain.ErrInvalidInput
		}
		// Una nota crédito no cambia de cliente: quedaría desalineada con su objetivo.
		if inv.Type == entity.TypeCredit {
			return nil, domain.ErrConflict
		}
		inv.ClientID = in.ClientID
	}
	if in.Currency != "" {
		inv.Currency = in.Currency
	}
	if !in.ExchangeRate.IsZero() {
		inv.ExchangeRate = in.ExchangeRate
	}
	if in.IssueDate != "" {
		d, err := parseDate(in.IssueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		inv.IssueDate = d
	}
	if in.DueDate != "" {
		d, err := parseDate(in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		inv.DueDate = d
	}

	items, err := uc.invoiceRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(in.Items) > 0 {
		items, inv.TotalAmount, err = buildItems(in.Items)
		if err != nil {
			return nil, err
		}
		if inv.Type == entity.TypeDebet && inv.TotalAmount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if inv.Type == entity.TypeCredit && inv.TotalAmount.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		for _, it := range items {
			it.InvoiceID = inv.ID
		}
		if err := uc.invoiceRepo.ReplaceItems(ctx, id, items); err != nil {
			return nil, err
		}
	}

	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, inv.ID, entity.EventUpdated, map[string]any{
		"total_amount": inv.TotalAmount.String(),
		"user_id":      userID,
	})
	return toInvoiceResponse(inv, items, "", decimal.Zero), nil
}

// Send marca un borrador como enviado. Emite sent y status_changed.
func (uc *InvoiceUseCase) Send(ctx context.Context, orgID, userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.StatusDraft {
		return nil, domain.ErrConflict
	}
	old := inv.Status
	inv.Status = entity.StatusSent
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.UpdateStatus(ctx, id, inv.Status, inv.UpdatedAt); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, id, entity.EventSent, map[string]any{"user_id": userID})
	uc.audit.Record(ctx, id, entity.EventStatusChanged, map[string]any{
		"old_status": old,
		"new_status": inv.Status,
	})
	paid, _ := uc.paymentRepo.SumByInvoice(ctx, id)
	return toInvoiceResponse(inv, nil, "", paid), nil
}

// Void anula la factura. Una factura pagada no se anula (se corrige con nota
// crédito); una ya anulada tampoco. Emite status_changed.
func (uc *InvoiceUseCase) Void(ctx context.Context, orgID, userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == entity.StatusVoid {
		return nil, domain.ErrConflict
	}
	paid, err := uc.paymentRepo.SumByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if paid.GreaterThanOrEqual(inv.AbsTotal()) && paid.GreaterThan(decimal.Zero) {
		return nil, domain.ErrConflict
	}
	old := entity.DeriveStatus(inv, paid, time.Now())
	inv.Status = entity.StatusVoid
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.UpdateStatus(ctx, id, inv.Status, inv.UpdatedAt); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, id, entity.EventStatusChanged, map[string]any{
		"old_status": old,
		"new_status": entity.StatusVoid,
		"user_id":    userID,
	})
	return toInvoiceResponse(inv, nil, "", paid), nil
}

// MarkViewed registra que el receptor abrió la factura. No cambia el estado,
// solo agrega el evento viewed a la línea de tiempo.
func (uc *InvoiceUseCase) MarkViewed(ctx context.Context, orgID, id string) error {
	inv, err := uc.getOwned(ctx, orgID, id)
	if err != nil {
		return err
	}
	uc.audit.Record(ctx, inv.ID, entity.EventViewed, nil)
	return nil
}

// SendReminder envía el recordatorio de pago al cliente y emite
// reminder_sent. A diferencia del correo de confirmación de pago, aquí el
// envío ES la operación: su fallo sí se propaga al caller.
func (uc *InvoiceUseCase) SendReminder(ctx context.Context, orgID, userID, id string) error {
	inv, err := uc.getOwned(ctx, orgID, id)
	if err != nil {
		return err
	}
	if inv.Status == entity.StatusDraft || inv.Status == entity.StatusVoid {
		return domain.ErrConflict
	}
	client, err := uc.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil {
		return err
	}
	if client == nil || client.Email == "" {
		return domain.ErrInvalidInput
	}
	paid, err := uc.paymentRepo.SumByInvoice(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.mailer.SendReminder(ctx, ReminderNotice{
		To:            client.Email,
		ClientName:    client.Name,
		InvoiceNumber: inv.InvoiceNumber,
		Currency:      inv.Currency,
		Balance:       inv.AbsTotal().Sub(paid),
		DueDate:       inv.DueDate,
	}); err != nil {
		return err
	}
	uc.audit.Record(ctx, id, entity.EventReminderSent, map[string]any{
		"to":      client.Email,
		"user_id": userID,
	})
	return nil
}

// Timeline devuelve la bitácora de la factura en orden cronológico.
func (uc *InvoiceUseCase) Timeline(ctx context.Context, orgID, id string) ([]dto.AuditEventResponse, error) {
	if _, err := uc.getOwned(ctx, orgID, id); err != nil {
		return nil, err
	}
	events, err := uc.audit.ListEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.AuditEventResponse{
			ID:        ev.ID,
			EventType: ev.EventType,
			EventData: ev.EventData,
			CreatedAt: ev.CreatedAt,
		})
	}
	return out, nil
}
