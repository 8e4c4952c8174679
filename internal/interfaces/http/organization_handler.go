package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/application/invoicing"
)

// OrganizationHandler maneja la configuración de la organización (protegido).
type OrganizationHandler struct {
	uc *invoicing.SettingsUseCase
}

// NewOrganizationHandler construye el handler.
func NewOrganizationHandler(uc *invoicing.SettingsUseCase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc}
}

// GetNumbering devuelve la configuración de numeración.
// GET /api/organization/numbering
func (h *OrganizationHandler) GetNumbering(c *fiber.Ctx) error {
	out, err := h.uc.GetNumbering(c.Context(), GetOrganizationID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateNumbering cambia modo, prefijo y ancho de la numeración.
// PUT /api/organization/numbering
func (h *OrganizationHandler) UpdateNumbering(c *fiber.Ctx) error {
	var in dto.UpdateNumberingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateNumbering(c.Context(), GetOrganizationID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
