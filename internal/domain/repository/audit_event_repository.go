package repository

import (
	"context"

	"github.com/tochman/visinv-api/internal/domain/entity"
)

// AuditEventRepository define el puerto de persistencia para la bitácora.
// Append-only: no existe actualización ni borrado de eventos.
type AuditEventRepository interface {
	Append(ctx context.Context, event *entity.AuditEvent) error
	// ListByInvoice devuelve los eventos ordenados por created_at ascendente,
	// listos para pintar la línea de tiempo del documento.
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.AuditEvent, error)
}
