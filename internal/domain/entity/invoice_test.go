package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tochman/visinv-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// DeriveStatus es la única fuente del estado de pago: estos casos fijan la
// precedencia (void > pagos > borrador > vencimiento) para que un refactor no
// la altere en silencio.
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestDeriveStatus_PrecedenciaDeEstados(t *testing.T) {
	hoy := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	ayer := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	manana := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		invoice  entity.Invoice
		paid     string
		expected string
	}{
		{
			name:     "void gana siempre, incluso con pagos",
			invoice:  entity.Invoice{Status: entity.StatusVoid, TotalAmount: d("100")},
			paid:     "100",
			expected: entity.StatusVoid,
		},
		{
			name:     "pago completo es paid",
			invoice:  entity.Invoice{Status: entity.StatusSent, TotalAmount: d("100")},
			paid:     "100",
			expected: entity.StatusPaid,
		},
		{
			name:     "pago parcial es partially_paid aunque esté vencida",
			invoice:  entity.Invoice{Status: entity.StatusSent, TotalAmount: d("100"), DueDate: ayer},
			paid:     "40",
			expected: entity.StatusPartiallyPaid,
		},
		{
			name:     "borrador sin pagos se conserva",
			invoice:  entity.Invoice{Status: entity.StatusDraft, TotalAmount: d("100"), DueDate: ayer},
			paid:     "0",
			expected: entity.StatusDraft,
		},
		{
			name:     "enviada, vencida y sin pagos es overdue",
			invoice:  entity.Invoice{Status: entity.StatusSent, TotalAmount: d("100"), DueDate: ayer},
			paid:     "0",
			expected: entity.StatusOverdue,
		},
		{
			name:     "enviada sin vencer sigue sent",
			invoice:  entity.Invoice{Status: entity.StatusSent, TotalAmount: d("100"), DueDate: manana},
			paid:     "0",
			expected: entity.StatusSent,
		},
		{
			name:     "enviada sin fecha de vencimiento nunca vence",
			invoice:  entity.Invoice{Status: entity.StatusSent, TotalAmount: d("100")},
			paid:     "0",
			expected: entity.StatusSent,
		},
		{
			name:     "nota crédito: el pago se compara contra el valor absoluto",
			invoice:  entity.Invoice{Status: entity.StatusSent, Type: entity.TypeCredit, TotalAmount: d("-50")},
			paid:     "50",
			expected: entity.StatusPaid,
		},
		{
			name:     "estado de pago almacenado se ignora si no hay pagos",
			invoice:  entity.Invoice{Status: entity.StatusPaid, TotalAmount: d("100"), DueDate: manana},
			paid:     "0",
			expected: entity.StatusSent,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := entity.DeriveStatus(&tc.invoice, d(tc.paid), hoy)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDeriveStatus_VencimientoMismoDiaNoEsOverdue(t *testing.T) {
	hoy := time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	inv := entity.Invoice{
		Status:      entity.StatusSent,
		TotalAmount: d("100"),
		DueDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	// El día del vencimiento la factura aún no está vencida.
	assert.Equal(t, entity.StatusSent, entity.DeriveStatus(&inv, decimal.Zero, hoy))
}

func TestLineItemsTotal_SumaConImpuesto(t *testing.T) {
	items := []*entity.LineItem{
		{Quantity: d("2"), UnitPrice: d("100"), TaxRate: d("0.19")},
		{Quantity: d("1"), UnitPrice: d("50"), TaxRate: d("0")},
	}
	// 2*100*1.19 + 50 = 288
	assert.True(t, entity.LineItemsTotal(items).Equal(d("288")))
}

func TestLineItemsTotal_CantidadesNegativasProducenTotalNegativo(t *testing.T) {
	items := []*entity.LineItem{
		{Quantity: d("-1"), UnitPrice: d("100"), TaxRate: d("0.19")},
	}
	assert.True(t, entity.LineItemsTotal(items).Equal(d("-119")))
}

func TestNormalizeTaxRate_AceptaFraccionYPorcentaje(t *testing.T) {
	assert.True(t, entity.NormalizeTaxRate(d("0.19")).Equal(d("0.19")), "fracción queda igual")
	assert.True(t, entity.NormalizeTaxRate(d("19")).Equal(d("0.19")), "porcentaje se divide entre 100")
	assert.True(t, entity.NormalizeTaxRate(d("1")).Equal(d("1")), "1 se interpreta como 100% en fracción")
}

func TestAbsTotal_NotaCredito(t *testing.T) {
	inv := entity.Invoice{TotalAmount: d("-75.50")}
	assert.True(t, inv.AbsTotal().Equal(d("75.50")))
}
