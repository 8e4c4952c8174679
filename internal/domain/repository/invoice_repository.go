package repository

import (
	"context"
	"time"

	"github.com/tochman/visinv-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas y líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.LineItem) error
	// Update actualiza la cabecera editable de un borrador (cliente, moneda,
	// fechas, total). El número y el tipo son inmutables tras la creación.
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	// ReplaceItems borra y reescribe las líneas de un borrador.
	ReplaceItems(ctx context.Context, invoiceID string, items []*entity.LineItem) error

	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila de la factura; solo tiene sentido dentro
	// de una transacción (serializa la verificación de saldo del libro de pagos).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.LineItem, error)
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Invoice, error)
	CountByOrganization(ctx context.Context, orgID string) (int, error)
	// ExistsNumber verifica unicidad exacta (sensible a mayúsculas) del número
	// dentro de la organización.
	ExistsNumber(ctx context.Context, orgID, number string) (bool, error)
}
