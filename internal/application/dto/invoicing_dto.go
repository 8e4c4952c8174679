package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura. Quantity es firmada: negativa en notas
// crédito parciales.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Number solo aplica en organizaciones con numeración manual; en modo
// automático se ignora y el consecutivo lo asigna el sistema.
type CreateInvoiceRequest struct {
	ClientID          string               `json:"client_id"`
	Type              string               `json:"type,omitempty"` // DEBET (default) | CREDIT
	Number            string               `json:"number,omitempty"`
	Currency          string               `json:"currency,omitempty"`
	ExchangeRate      decimal.Decimal      `json:"exchange_rate,omitempty"`
	IssueDate         string               `json:"issue_date,omitempty"` // YYYY-MM-DD
	DueDate           string               `json:"due_date,omitempty"`   // YYYY-MM-DD
	CreditedInvoiceID string               `json:"credited_invoice_id,omitempty"`
	Items             []InvoiceItemRequest `json:"items"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id (solo borradores).
type UpdateInvoiceRequest struct {
	ClientID     string               `json:"client_id,omitempty"`
	Currency     string               `json:"currency,omitempty"`
	ExchangeRate decimal.Decimal      `json:"exchange_rate,omitempty"`
	IssueDate    string               `json:"issue_date,omitempty"`
	DueDate      string               `json:"due_date,omitempty"`
	Items        []InvoiceItemRequest `json:"items"`
}

// InvoiceItemResponse línea en respuestas.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// InvoiceResponse factura con estado derivado del libro de pagos.
// Balance es el saldo pendiente (|total| - pagos); también es el monto
// sugerido para el próximo abono.
type InvoiceResponse struct {
	ID                string                `json:"id"`
	OrganizationID    string                `json:"organization_id"`
	ClientID          string                `json:"client_id"`
	ClientName        string                `json:"client_name,omitempty"`
	InvoiceNumber     string                `json:"invoice_number"`
	Type              string                `json:"type"`
	Status            string                `json:"status"`
	Currency          string                `json:"currency"`
	ExchangeRate      decimal.Decimal       `json:"exchange_rate"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	PaidAmount        decimal.Decimal       `json:"paid_amount"`
	Balance           decimal.Decimal       `json:"balance"`
	CreditedInvoiceID string                `json:"credited_invoice_id,omitempty"`
	IssueDate         string                `json:"issue_date,omitempty"`
	DueDate           string                `json:"due_date,omitempty"`
	Items             []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// InvoiceListResponse listado paginado.
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Page     PageResponse      `json:"page"`
}

// RecordPaymentRequest body para POST /api/invoices/:id/payments.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date,omitempty"` // YYYY-MM-DD; default hoy
	Method      string          `json:"method,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	Method      string          `json:"method,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PaymentResult resultado de registrar un pago. EmailNotice lleva el aviso
// no bloqueante cuando el correo de confirmación falló: el pago quedó
// registrado igual.
type PaymentResult struct {
	Payment     PaymentResponse `json:"payment"`
	Status      string          `json:"status"`
	Balance     decimal.Decimal `json:"balance"`
	EmailNotice string          `json:"email_notice,omitempty"`
}

// BalanceResponse saldo de una factura. SuggestedAmount es el monto por
// defecto a proponer al registrar el próximo pago (pago total o continuación).
type BalanceResponse struct {
	InvoiceID       string          `json:"invoice_id"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Balance         decimal.Decimal `json:"balance"`
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
}

// AuditEventResponse evento de la línea de tiempo de una factura.
type AuditEventResponse struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	EventData map[string]any `json:"event_data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NumberingSettingsResponse configuración de numeración de la organización.
type NumberingSettingsResponse struct {
	Mode       string `json:"mode"`
	Prefix     string `json:"prefix"`
	NextNumber int64  `json:"next_number"`
	Width      int    `json:"width"`
}

// UpdateNumberingRequest cambio de configuración. El contador no se toca:
// cambiar de modo solo afecta asignaciones futuras.
type UpdateNumberingRequest struct {
	Mode   string `json:"mode"`
	Prefix string `json:"prefix"`
	Width  int    `json:"width,omitempty"`
}

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
}
