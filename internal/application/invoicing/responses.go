package invoicing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/domain/entity"
)

// toInvoiceResponse arma la respuesta con el estado derivado del libro de
// pagos (nunca el almacenado crudo) y el saldo pendiente.
func toInvoiceResponse(inv *entity.Invoice, items []*entity.LineItem, clientName string, paid decimal.Decimal) *dto.InvoiceResponse {
	balance := inv.AbsTotal().Sub(paid)
	if balance.LessThan(decimal.Zero) {
		balance = decimal.Zero
	}
	resp := &dto.InvoiceResponse{
		ID:                inv.ID,
		OrganizationID:    inv.OrganizationID,
		ClientID:          inv.ClientID,
		ClientName:        clientName,
		InvoiceNumber:     inv.InvoiceNumber,
		Type:              inv.Type,
		Status:            entity.DeriveStatus(inv, paid, time.Now()),
		Currency:          inv.Currency,
		ExchangeRate:      inv.ExchangeRate,
		TotalAmount:       inv.TotalAmount,
		PaidAmount:        paid,
		Balance:           balance,
		CreditedInvoiceID: inv.CreditedInvoiceID,
		IssueDate:         formatDate(inv.IssueDate),
		DueDate:           formatDate(inv.DueDate),
		CreatedAt:         inv.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}
	return resp
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		PaymentDate: formatDate(p.PaymentDate),
		Method:      p.Method,
		Reference:   p.Reference,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}
