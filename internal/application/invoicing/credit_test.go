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

// ──────────────────────────────────────────────────────────────────────────────
// Resolver de notas crédito: toda violación del enlace es ErrInvalidCreditTarget.
// ──────────────────────────────────────────────────────────────────────────────

func TestCreditValidate_ObjetivoValido(t *testing.T) {
	invoices := newMemInvoiceRepo()
	require.NoError(t, invoices.Create(context.Background(), &entity.Invoice{
		ID:             "inv-1",
		OrganizationID: "org-1",
		ClientID:       "cli-1",
		InvoiceNumber:  "INV-0001",
		Type:           entity.TypeDebet,
	}))
	resolver := invoicing.NewCreditResolver()

	target, err := resolver.Validate(context.Background(), invoices, "org-1", "cli-1", "inv-1", decimal.NewFromInt(-50))

	require.NoError(t, err)
	assert.Equal(t, "inv-1", target.ID)
	assert.Equal(t, "INV-0001", target.InvoiceNumber)
}

func TestCreditValidate_Rechazos(t *testing.T) {
	invoices := newMemInvoiceRepo()
	seed := []*entity.Invoice{
		{ID: "debet-propia", OrganizationID: "org-1", ClientID: "cli-1", InvoiceNumber: "INV-0001", Type: entity.TypeDebet},
		{ID: "debet-ajena", OrganizationID: "org-2", ClientID: "cli-9", InvoiceNumber: "INV-0002", Type: entity.TypeDebet},
		{ID: "credit-previa", OrganizationID: "org-1", ClientID: "cli-1", InvoiceNumber: "CN-0001", Type: entity.TypeCredit},
		{ID: "otro-cliente", OrganizationID: "org-1", ClientID: "cli-2", InvoiceNumber: "INV-0003", Type: entity.TypeDebet},
	}
	for _, inv := range seed {
		require.NoError(t, invoices.Create(context.Background(), inv))
	}
	resolver := invoicing.NewCreditResolver()
	negativo := decimal.NewFromInt(-10)

	cases := []struct {
		name              string
		clientID          string
		creditedInvoiceID string
		total             decimal.Decimal
	}{
		{"sin objetivo", "cli-1", "", negativo},
		{"objetivo inexistente", "cli-1", "no-existe", negativo},
		{"objetivo de otra organización", "cli-1", "debet-ajena", negativo},
		{"objetivo es otra nota crédito", "cli-1", "credit-previa", negativo},
		{"objetivo de otro cliente", "cli-1", "otro-cliente", negativo},
		{"total positivo en documento reversor", "cli-1", "debet-propia", decimal.NewFromInt(10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Validate(context.Background(), invoices, "org-1", tc.clientID, tc.creditedInvoiceID, tc.total)
			assert.ErrorIs(t, err, domain.ErrInvalidCreditTarget)
		})
	}
}

func TestCreditValidate_TotalCeroEsValido(t *testing.T) {
	invoices := newMemInvoiceRepo()
	require.NoError(t, invoices.Create(context.Background(), &entity.Invoice{
		ID: "inv-1", OrganizationID: "org-1", ClientID: "cli-1", InvoiceNumber: "INV-0001", Type: entity.TypeDebet,
	}))
	resolver := invoicing.NewCreditResolver()

	_, err := resolver.Validate(context.Background(), invoices, "org-1", "cli-1", "inv-1", decimal.Zero)
	assert.NoError(t, err, "total <= 0 es aceptable para una nota crédito")
}
