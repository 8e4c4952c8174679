package invoicing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
)

// Flujo completo sobre los mismos repositorios en memoria: crear con el
// contador en 5, enviar, pagar el total y verificar que el libro rechaza
// cualquier abono posterior.
func TestFlujoCompleto_CrearEnviarPagar(t *testing.T) {
	ctx := context.Background()

	orgs := &memOrgRepo{org: autoOrg(5)}
	clients := newMemClientRepo()
	invoices := newMemInvoiceRepo()
	payments := &memPaymentRepo{}
	auditRepo := &memAuditRepo{}
	mailer := &fakeMailer{}
	txRunner := &fakeTxRunner{orgs: orgs, invoices: invoices, payments: payments}
	audit := invoicing.NewAuditRecorder(auditRepo, testLogger())

	require.NoError(t, clients.Create(ctx, &entity.Client{
		ID: "cli-1", OrganizationID: "org-1", Name: "ACME Ltda", Email: "pagos@acme.test",
	}))

	createUC := invoicing.NewCreateInvoiceUseCase(
		txRunner,
		invoicing.NewQuotaGate(&fakeSubs{usage: entity.SubscriptionUsage{Premium: true}}, 10),
		invoicing.NewNumberAllocator(),
		invoicing.NewCreditResolver(),
		audit,
		orgs, clients, invoices,
	)
	invoiceUC := invoicing.NewInvoiceUseCase(invoices, clients, payments, audit, mailer, testLogger())
	ledger := invoicing.NewPaymentLedger(txRunner, invoices, payments, clients, audit, mailer, testLogger())

	// Crear: el contador en 5 produce INV-0005 y avanza a 6.
	created, err := createUC.CreateInvoice(ctx, "org-1", "user-1", debetRequest())
	require.NoError(t, err)
	assert.Equal(t, "INV-0005", created.InvoiceNumber)
	assert.Equal(t, int64(6), orgs.org.NextNumber)

	// Enviar para habilitar pagos.
	_, err = invoiceUC.Send(ctx, "org-1", "user-1", created.ID)
	require.NoError(t, err)

	// Pagar el total: estado paid y correo de confirmación.
	result, err := ledger.RecordPayment(ctx, "org-1", "user-1", created.ID, pago(238))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, result.Status)
	assert.True(t, result.Balance.IsZero())
	assert.Len(t, mailer.confirmations, 1)

	// La bitácora cuenta la historia en orden.
	types := auditRepo.eventTypes(created.ID)
	assert.Equal(t, []string{
		entity.EventCreated,
		entity.EventSent,
		entity.EventStatusChanged,
		entity.EventPaymentRecorded,
		entity.EventStatusChanged,
	}, types)

	// Cualquier abono posterior excede el saldo.
	_, err = ledger.RecordPayment(ctx, "org-1", "user-1", created.ID, pago(1))
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsBalance)

	// El saldo queda en cero y el estado derivado en paid.
	balance, err := ledger.GetBalance(ctx, "org-1", created.ID)
	require.NoError(t, err)
	assert.True(t, balance.Balance.IsZero())
	assert.Equal(t, entity.StatusPaid, balance.Status)
	assert.True(t, balance.PaidAmount.Equal(decimal.NewFromInt(238)))
}
