package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Los errores de validación se recuperan en el borde HTTP y se traducen a un
// código estable para que el cliente muestre un mensaje puntual sin cerrar el
// formulario. ErrQuotaExceeded no es un error de validación: es una condición
// de negocio que debe llevar al flujo de upgrade.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Asignación de consecutivos (modo automático y manual).
	ErrNumberAllocationFailed = errors.New("no se pudo asignar el consecutivo de factura")
	ErrDuplicateInvoiceNumber = errors.New("el número de factura ya existe en la organización")
	ErrMissingInvoiceNumber   = errors.New("número de factura requerido en modo manual")

	// Notas crédito.
	ErrInvalidCreditTarget = errors.New("factura objetivo inválida para nota crédito")

	// Libro de pagos.
	ErrInvalidAmount         = errors.New("el monto debe ser mayor que cero")
	ErrPaymentExceedsBalance = errors.New("el pago excede el saldo pendiente de la factura")

	// Límite del plan gratuito.
	ErrQuotaExceeded = errors.New("límite de facturas del plan gratuito alcanzado")

	// Fallos del almacén de datos sin regla de negocio asociada.
	ErrPersistence = errors.New("fallo de persistencia")
)
