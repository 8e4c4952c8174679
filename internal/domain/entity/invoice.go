package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de factura. Una CREDIT es un documento reversor con total negativo,
// siempre enlazado a una factura DEBET de la misma organización y cliente.
const (
	TypeDebet  = "DEBET"
	TypeCredit = "CREDIT"
)

// Estados del ciclo de vida. El estado de pago nunca se confía tal como está
// almacenado: se deriva del libro de pagos con DeriveStatus.
const (
	StatusDraft         = "draft"
	StatusSent          = "sent"
	StatusPartiallyPaid = "partially_paid"
	StatusPaid          = "paid"
	StatusOverdue       = "overdue"
	StatusVoid          = "void"
)

// Invoice es la cabecera de una factura. TotalAmount es firmado: negativo para
// notas crédito. CreditedInvoiceID solo se llena cuando Type es CREDIT.
type Invoice struct {
	ID                string
	OrganizationID    string
	ClientID          string
	InvoiceNumber     string // identificador visible, único por organización
	Type              string // TypeDebet | TypeCredit
	Status            string
	Currency          string
	ExchangeRate      decimal.Decimal
	TotalAmount       decimal.Decimal
	CreditedInvoiceID string // vacío salvo en notas crédito
	IssueDate         time.Time
	DueDate           time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LineItem es una línea de factura. Quantity es firmada: negativa en notas
// crédito (crédito parcial permitido).
type LineItem struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// AbsTotal devuelve |TotalAmount|: la base contra la que se pagan las facturas
// (las notas crédito almacenan total negativo).
func (i *Invoice) AbsTotal() decimal.Decimal {
	return i.TotalAmount.Abs()
}

// NormalizeTaxRate acepta tasas como fracción (0.19) o porcentaje (19) y
// devuelve siempre la fracción.
func NormalizeTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// LineItemsTotal calcula el total firmado de las líneas: sum(cantidad * precio
// unitario * (1 + tasa)). El signo del total debe coincidir con el signo
// agregado de las cantidades.
func LineItemsTotal(items []*LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		subtotal := it.Quantity.Mul(it.UnitPrice)
		rate := NormalizeTaxRate(it.TaxRate)
		total = total.Add(subtotal).Add(subtotal.Mul(rate))
	}
	return total
}

// DeriveStatus es la función pura que decide el estado de la factura a partir
// del libro de pagos, nunca del campo almacenado:
//
//   - void gana siempre (anulación explícita).
//   - pagos == |total| y > 0  -> paid
//   - 0 < pagos < |total|     -> partially_paid
//   - sin pagos: draft se conserva; una factura enviada y vencida -> overdue.
//
// El campo almacenado solo aporta el marcador de ciclo de vida (draft/sent/
// void); cualquier estado de pago persistido se recalcula aquí.
func DeriveStatus(inv *Invoice, paid decimal.Decimal, today time.Time) string {
	if inv.Status == StatusVoid {
		return StatusVoid
	}
	abs := inv.AbsTotal()
	if paid.GreaterThan(decimal.Zero) {
		if paid.GreaterThanOrEqual(abs) {
			return StatusPaid
		}
		return StatusPartiallyPaid
	}
	if inv.Status == StatusDraft {
		return StatusDraft
	}
	if !inv.DueDate.IsZero() && inv.DueDate.Before(today.Truncate(24*time.Hour)) {
		return StatusOverdue
	}
	return StatusSent
}
