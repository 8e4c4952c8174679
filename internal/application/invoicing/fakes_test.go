package invoicing_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
	"github.com/tochman/visinv-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia. Implementan los contratos
// de los repositorios reales (copias defensivas, unicidad de número, CAS del
// contador) para ejercitar los casos de uso sin PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memOrgRepo struct {
	org *entity.Organization
	// claimRejections simula procesos rivales: los primeros N reclamos fallan
	// y el contador avanza como si el rival hubiera ganado la carrera.
	claimRejections int
}

func (r *memOrgRepo) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	if r.org == nil || r.org.ID != id {
		return nil, nil
	}
	cp := *r.org
	return &cp, nil
}

func (r *memOrgRepo) ClaimNextNumber(_ context.Context, orgID string, current int64) (bool, error) {
	if r.org == nil || r.org.ID != orgID {
		return false, fmt.Errorf("organización desconocida: %s", orgID)
	}
	if r.claimRejections > 0 {
		r.claimRejections--
		r.org.NextNumber++
		return false, nil
	}
	if r.org.NextNumber != current {
		return false, nil
	}
	r.org.NextNumber++
	return true, nil
}

func (r *memOrgRepo) UpdateNumbering(_ context.Context, org *entity.Organization) error {
	r.org.NumberingMode = org.NumberingMode
	r.org.InvoicePrefix = org.InvoicePrefix
	r.org.NumberWidth = org.NumberWidth
	r.org.UpdatedAt = org.UpdatedAt
	return nil
}

type memClientRepo struct {
	clients map[string]*entity.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[string]*entity.Client)}
}

func (r *memClientRepo) Create(_ context.Context, client *entity.Client) error {
	cp := *client
	r.clients[client.ID] = &cp
	return nil
}

func (r *memClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memClientRepo) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.Client, error) {
	var list []*entity.Client
	for _, c := range r.clients {
		if c.OrganizationID == orgID {
			cp := *c
			list = append(list, &cp)
		}
	}
	return list, nil
}

type memInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.LineItem
	order    []string
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.LineItem),
	}
}

func (r *memInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	for _, existing := range r.invoices {
		if existing.OrganizationID == invoice.OrganizationID && existing.InvoiceNumber == invoice.InvoiceNumber {
			return domain.ErrDuplicateInvoiceNumber
		}
	}
	cp := *invoice
	r.invoices[invoice.ID] = &cp
	r.order = append(r.order, invoice.ID)
	return nil
}

func (r *memInvoiceRepo) CreateItem(_ context.Context, item *entity.LineItem) error {
	cp := *item
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], &cp)
	return nil
}

func (r *memInvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	stored, ok := r.invoices[invoice.ID]
	if !ok {
		return fmt.Errorf("factura inexistente: %s", invoice.ID)
	}
	stored.ClientID = invoice.ClientID
	stored.Currency = invoice.Currency
	stored.ExchangeRate = invoice.ExchangeRate
	stored.TotalAmount = invoice.TotalAmount
	stored.IssueDate = invoice.IssueDate
	stored.DueDate = invoice.DueDate
	stored.UpdatedAt = invoice.UpdatedAt
	return nil
}

func (r *memInvoiceRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	stored, ok := r.invoices[id]
	if !ok {
		return fmt.Errorf("factura inexistente: %s", id)
	}
	stored.Status = status
	stored.UpdatedAt = updatedAt
	return nil
}

func (r *memInvoiceRepo) ReplaceItems(_ context.Context, invoiceID string, items []*entity.LineItem) error {
	replaced := make([]*entity.LineItem, 0, len(items))
	for _, it := range items {
		cp := *it
		cp.InvoiceID = invoiceID
		replaced = append(replaced, &cp)
	}
	r.items[invoiceID] = replaced
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *memInvoiceRepo) GetItems(_ context.Context, invoiceID string) ([]*entity.LineItem, error) {
	var list []*entity.LineItem
	for _, it := range r.items[invoiceID] {
		cp := *it
		list = append(list, &cp)
	}
	return list, nil
}

func (r *memInvoiceRepo) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for _, id := range r.order {
		inv := r.invoices[id]
		if inv.OrganizationID == orgID {
			cp := *inv
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memInvoiceRepo) CountByOrganization(_ context.Context, orgID string) (int, error) {
	count := 0
	for _, inv := range r.invoices {
		if inv.OrganizationID == orgID {
			count++
		}
	}
	return count, nil
}

func (r *memInvoiceRepo) ExistsNumber(_ context.Context, orgID, number string) (bool, error) {
	for _, inv := range r.invoices {
		if inv.OrganizationID == orgID && inv.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

type memPaymentRepo struct {
	payments []*entity.Payment
}

func (r *memPaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *memPaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	var list []*entity.Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memPaymentRepo) SumByInvoice(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

type memAuditRepo struct {
	events     []*entity.AuditEvent
	failAppend bool
}

func (r *memAuditRepo) Append(_ context.Context, event *entity.AuditEvent) error {
	if r.failAppend {
		return fmt.Errorf("bitácora caída")
	}
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *memAuditRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.AuditEvent, error) {
	var list []*entity.AuditEvent
	for _, ev := range r.events {
		if ev.InvoiceID == invoiceID {
			cp := *ev
			list = append(list, &cp)
		}
	}
	return list, nil
}

// eventTypes devuelve los tipos emitidos para una factura, en orden.
func (r *memAuditRepo) eventTypes(invoiceID string) []string {
	var types []string
	for _, ev := range r.events {
		if ev.InvoiceID == invoiceID {
			types = append(types, ev.EventType)
		}
	}
	return types
}

type fakeSubs struct {
	usage entity.SubscriptionUsage
	err   error
}

func (s *fakeSubs) Usage(_ context.Context, _ string) (entity.SubscriptionUsage, error) {
	return s.usage, s.err
}

type fakeMailer struct {
	failConfirmation bool
	confirmations    []invoicing.PaymentConfirmation
	reminders        []invoicing.ReminderNotice
}

func (m *fakeMailer) SendPaymentConfirmation(_ context.Context, msg invoicing.PaymentConfirmation) error {
	if m.failConfirmation {
		return fmt.Errorf("SMTP caído")
	}
	m.confirmations = append(m.confirmations, msg)
	return nil
}

func (m *fakeMailer) SendReminder(_ context.Context, msg invoicing.ReminderNotice) error {
	m.reminders = append(m.reminders, msg)
	return nil
}

// fakeTxRunner entrega los repos en memoria al callback. No simula rollback:
// los tests que fuerzan fallos no afirman sobre escrituras parciales.
type fakeTxRunner struct {
	orgs     repository.OrganizationRepository
	invoices repository.InvoiceRepository
	payments repository.PaymentRepository
}

func (r *fakeTxRunner) RunCreation(ctx context.Context, fn func(
	orgRepo repository.OrganizationRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	return fn(r.orgs, r.invoices)
}

func (r *fakeTxRunner) RunPayment(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return fn(r.invoices, r.payments)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}
