package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/application/invoicing"
)

// ClientHandler maneja los clientes de la organización (protegido).
type ClientHandler struct {
	uc *invoicing.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *invoicing.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create registra un cliente.
// POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	client, err := h.uc.CreateClient(c.Context(), GetOrganizationID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// GetByID obtiene un cliente.
// GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	client, err := h.uc.GetClient(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// List lista los clientes de la organización.
// GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	clients, err := h.uc.ListClients(c.Context(), GetOrganizationID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clients)
}
