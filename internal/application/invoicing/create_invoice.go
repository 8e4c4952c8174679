package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

// CreateInvoiceUseCase crea facturas (DEBET y CREDIT) y copias.
//
// Orden del flujo: Quota Gate (solo creación) -> asignador de consecutivos ->
// resolver de crédito (solo tipo CREDIT) -> persistencia, todo en una
// transacción; tras el commit se agregan los eventos de auditoría.
type CreateInvoiceUseCase struct {
	txRunner    TxRunner
	quota       *QuotaGate
	allocator   *NumberAllocator
	credit      *CreditResolver
	audit       *AuditRecorder
	orgRepo     repository.OrganizationRepository
	clientRepo  repository.ClientRepository
	invoiceRepo repository.InvoiceRepository
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner TxRunner,
	quota *QuotaGate,
	allocator *NumberAllocator,
	credit *CreditResolver,
	audit *AuditRecorder,
	orgRepo repository.OrganizationRepository,
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:    txRunner,
		quota:       quota,
		allocator:   allocator,
		credit:      credit,
		audit:       audit,
		orgRepo:     orgRepo,
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
	}
}

// CreateInvoice crea la factura y sus líneas. El consecutivo se asigna dentro
// de la misma transacción que la inserción: si la inserción falla, el contador
// no avanza.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, orgID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	invType := in.Type
	if invType == "" {
		invType = entity.TypeDebet
	}
	if invType != entity.TypeDebet && invType != entity.TypeCredit {
		return nil, domain.ErrInvalidInput
	}

	client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if client.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}

	org, err := uc.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	// Quota Gate: solo en creación; premium pasa siempre.
	if err := uc.quota.CheckCreate(ctx, orgID); err != nil {
		return nil, err
	}

	issueDate, err := parseDate(in.IssueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if issueDate.IsZero() {
		issueDate = time.Now().Truncate(24 * time.Hour)
	}
	dueDate, err := parseDate(in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	items, total, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	// El signo del total debe coincidir con el tipo del documento.
	if invType == entity.TypeDebet && total.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	currency := in.Currency
	if currency == "" {
		currency = "EUR"
	}
	exchangeRate := in.ExchangeRate
	if exchangeRate.IsZero() {
		exchangeRate = decimal.NewFromInt(1)
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		ClientID:       in.ClientID,
		Type:           invType,
		Status:         entity.StatusDraft,
		Currency:       currency,
		ExchangeRate:   exchangeRate,
		TotalAmount:    total,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var target *entity.Invoice
	err = uc.txRunner.RunCreation(ctx, func(
		orgRepo repository.OrganizationRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		number, err := uc.allocator.Allocate(ctx, orgRepo, invoiceRepo, org, in.Number)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number

		if invType == entity.TypeCredit {
			target, err = uc.credit.Validate(ctx, invoiceRepo, orgID, in.ClientID, in.CreditedInvoiceID, total)
			if err != nil {
				return err
			}
			inv.CreditedInvoiceID = target.ID
		}

		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, item := range items {
			item.InvoiceID = inv.ID
			if err := invoiceRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Auditoría post-commit (best-effort).
	uc.audit.Record(ctx, inv.ID, entity.EventCreated, map[string]any{
		"invoice_number": inv.InvoiceNumber,
		"type":           inv.Type,
		"total_amount":   inv.TotalAmount.String(),
		"user_id":        userID,
	})
	if target != nil {
		uc.audit.Record(ctx, inv.ID, entity.EventCreditCreated, map[string]any{
			"credited_invoice_id":     target.ID,
			"credited_invoice_number": target.InvoiceNumber,
		})
	}

	return toInvoiceResponse(inv, items, client.Name, decimal.Zero), nil
}

// CopyInvoice duplica una factura DEBET como borrador nuevo: mismas líneas,
// consecutivo fresco (pasa por el Quota Gate y el asignador como cualquier
// creación) y fecha de emisión de hoy.
func (uc *CreateInvoiceUseCase) CopyInvoice(ctx context.Context, orgID, userID, sourceID, manualNumber string) (*dto.InvoiceResponse, error) {
	source, err := uc.invoiceRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, domain.ErrNotFound
	}
	if source.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	// Una nota crédito no se duplica: está atada a su factura objetivo.
	if source.Type != entity.TypeDebet {
		return nil, domain.ErrConflict
	}
	items, err := uc.invoiceRepo.GetItems(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	req := dto.CreateInvoiceRequest{
		ClientID:     source.ClientID,
		Type:         entity.TypeDebet,
		Number:       manualNumber,
		Currency:     source.Currency,
		ExchangeRate: source.ExchangeRate,
		DueDate:      formatDate(source.DueDate),
	}
	for _, it := range items {
		req.Items = append(req.Items, dto.InvoiceItemRequest{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}

	resp, err := uc.CreateInvoice(ctx, orgID, userID, req)
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, resp.ID, entity.EventCopied, map[string]any{
		"source_invoice_id":     source.ID,
		"source_invoice_number": source.InvoiceNumber,
	})
	return resp, nil
}

// buildItems arma las líneas con posición estable y devuelve el total firmado.
func buildItems(in []dto.InvoiceItemRequest) ([]*entity.LineItem, decimal.Decimal, error) {
	items := make([]*entity.LineItem, 0, len(in))
	for i, it := range in {
		if it.Description == "" || it.Quantity.IsZero() {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		if it.UnitPrice.LessThan(decimal.Zero) {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		items = append(items, &entity.LineItem{
			ID:          uuid.New().String(),
			Position:    i + 1,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     entity.NormalizeTaxRate(it.TaxRate),
		})
	}
	return items, entity.LineItemsTotal(items), nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
