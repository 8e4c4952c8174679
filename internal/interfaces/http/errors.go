package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/internal/domain"
)

// respondError traduce los errores de dominio a HTTP. La taxonomía es parte
// del contrato de la API:
//
//	402 UPGRADE_REQUIRED          cupo del plan gratuito agotado
//	409 DUPLICATE_NUMBER          número manual ya usado en la organización
//	422 INVALID_CREDIT_TARGET     enlace de nota crédito inválido
//	422 PAYMENT_EXCEEDS_BALANCE   el abono sobrepasa el saldo
//	503 NUMBER_ALLOCATION_FAILED  reintentos de consecutivo agotados
//	500 PERSISTENCE               fallo del almacén (sin detalle al cliente)
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrMissingInvoiceNumber):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_NUMBER", Message: "numeración manual: el número es requerido"})
	case errors.Is(err, domain.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_AMOUNT", Message: "el monto debe ser mayor que cero"})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrQuotaExceeded):
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{Code: "UPGRADE_REQUIRED", Message: "límite de facturas del plan gratuito alcanzado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicateInvoiceNumber):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_NUMBER", Message: "el número de factura ya existe en la organización"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la operación no es válida en el estado actual"})
	case errors.Is(err, domain.ErrInvalidCreditTarget):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_CREDIT_TARGET", Message: "la factura objetivo de la nota crédito es inválida"})
	case errors.Is(err, domain.ErrPaymentExceedsBalance):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PAYMENT_EXCEEDS_BALANCE", Message: "el abono excede el saldo pendiente"})
	case errors.Is(err, domain.ErrNumberAllocationFailed):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "NUMBER_ALLOCATION_FAILED", Message: "no se pudo asignar el consecutivo, reintente"})
	case errors.Is(err, domain.ErrPersistence):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "fallo de persistencia"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
