package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/application/invoicing"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	createUC   *invoicing.CreateInvoiceUseCase
	invoiceUC  *invoicing.InvoiceUseCase
	documentUC *invoicing.DocumentUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	createUC *invoicing.CreateInvoiceUseCase,
	invoiceUC *invoicing.InvoiceUseCase,
	documentUC *invoicing.DocumentUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{createUC: createUC, invoiceUC: invoiceUC, documentUC: documentUC}
}

// Create crea una factura DEBET o una nota crédito.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.createUC.CreateInvoice(c.Context(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List lista las facturas de la organización.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.invoiceUC.List(c.Context(), GetOrganizationID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene el detalle completo de una factura.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.Get(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Update edita un borrador.
// PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.invoiceUC.UpdateDraft(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Send marca el borrador como enviado.
// POST /api/invoices/:id/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.Send(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Void anula la factura.
// POST /api/invoices/:id/void
func (h *InvoiceHandler) Void(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.Void(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Copy crea un borrador nuevo a partir de una factura existente. El borrador
// recibe su propio número y consume cupo del plan como cualquier creación.
// POST /api/invoices/:id/copy
func (h *InvoiceHandler) Copy(c *fiber.Ctx) error {
	// Body opcional: en numeración manual trae el número del borrador nuevo.
	var in struct {
		Number string `json:"number"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	invoice, err := h.createUC.CopyInvoice(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in.Number)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// MarkViewed registra que el receptor abrió la factura.
// POST /api/invoices/:id/viewed
func (h *InvoiceHandler) MarkViewed(c *fiber.Ctx) error {
	if err := h.invoiceUC.MarkViewed(c.Context(), GetOrganizationID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SendReminder envía el recordatorio de pago al cliente.
// POST /api/invoices/:id/reminder
func (h *InvoiceHandler) SendReminder(c *fiber.Ctx) error {
	if err := h.invoiceUC.SendReminder(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Timeline devuelve la bitácora de eventos de la factura.
// GET /api/invoices/:id/events
func (h *InvoiceHandler) Timeline(c *fiber.Ctx) error {
	events, err := h.invoiceUC.Timeline(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

// DownloadPDF descarga la factura como PDF.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.documentUC.DownloadPDF(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// DownloadXML descarga la factura como UBL XML.
// GET /api/invoices/:id/xml
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	xmlBytes, filename, err := h.documentUC.DownloadXML(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(xmlBytes)
}
