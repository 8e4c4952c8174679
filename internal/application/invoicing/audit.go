package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
	"github.com/tochman/visinv-api/pkg/logger"
)

// AuditRecorder agrega eventos inmutables a la bitácora de una factura.
//
// Se invoca siempre después del commit de la mutación que dispara el evento:
// el estado de negocio es la fuente de verdad y la bitácora es historia
// best-effort. Un fallo al agregar se loguea y no se propaga.
type AuditRecorder struct {
	repo repository.AuditEventRepository
	log  *logger.Logger
}

// NewAuditRecorder construye el registrador.
func NewAuditRecorder(repo repository.AuditEventRepository, log *logger.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log}
}

// Record agrega un evento. Nunca retorna error: la mutación de negocio ya
// ocurrió y no debe deshacerse por un fallo de auditoría.
func (r *AuditRecorder) Record(ctx context.Context, invoiceID, eventType string, data map[string]any) {
	event := &entity.AuditEvent{
		ID:        uuid.New().String(),
		InvoiceID: invoiceID,
		EventType: eventType,
		EventData: data,
		CreatedAt: time.Now(),
	}
	if err := r.repo.Append(ctx, event); err != nil {
		r.log.Warn().
			Err(err).
			Str("invoice_id", invoiceID).
			Str("event_type", eventType).
			Msg("no se pudo agregar el evento de auditoría")
	}
}

// ListEvents devuelve la línea de tiempo de la factura, ordenada por
// created_at ascendente.
func (r *AuditRecorder) ListEvents(ctx context.Context, invoiceID string) ([]*entity.AuditEvent, error) {
	return r.repo.ListByInvoice(ctx, invoiceID)
}
