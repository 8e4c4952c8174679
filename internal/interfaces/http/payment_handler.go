package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/application/invoicing"
)

// PaymentHandler maneja el libro de pagos de una factura (protegido).
type PaymentHandler struct {
	ledger *invoicing.PaymentLedger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(ledger *invoicing.PaymentLedger) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// Record registra un abono contra la factura.
// POST /api/invoices/:id/payments
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.ledger.RecordPayment(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista los abonos de la factura.
// GET /api/invoices/:id/payments
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	payments, err := h.ledger.ListPayments(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}

// Balance devuelve total, pagado y saldo de la factura.
// GET /api/invoices/:id/balance
func (h *PaymentHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.ledger.GetBalance(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(balance)
}
