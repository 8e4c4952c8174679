package postgres

import (
	"context"
	"encoding/json"

	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

var _ repository.AuditEventRepository = (*AuditEventRepo)(nil)

// AuditEventRepo implementación de AuditEventRepository (usable con pool o tx).
// Append-only: ni UPDATE ni DELETE sobre la tabla de eventos.
type AuditEventRepo struct {
	q Querier
}

// NewAuditEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditEventRepository(q Querier) *AuditEventRepo {
	return &AuditEventRepo{q: q}
}

// Append persiste un evento. event_data viaja como JSONB.
func (r *AuditEventRepo) Append(ctx context.Context, event *entity.AuditEvent) error {
	var data []byte
	if event.EventData != nil {
		var err error
		data, err = json.Marshal(event.EventData)
		if err != nil {
			return storeErr("marshal event data", err)
		}
	}
	query := `
		INSERT INTO invoice_events (id, invoice_id, event_type, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		event.ID, event.InvoiceID, event.EventType, data, event.CreatedAt,
	)
	if err != nil {
		return storeErr("insert invoice event", err)
	}
	return nil
}

// ListByInvoice devuelve los eventos ordenados por created_at ascendente.
func (r *AuditEventRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.AuditEvent, error) {
	query := `
		SELECT id, invoice_id, event_type, event_data, created_at
		FROM invoice_events WHERE invoice_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, storeErr("list invoice events", err)
	}
	defer rows.Close()
	var list []*entity.AuditEvent
	for rows.Next() {
		var (
			ev   entity.AuditEvent
			data []byte
		)
		if err := rows.Scan(&ev.ID, &ev.InvoiceID, &ev.EventType, &data, &ev.CreatedAt); err != nil {
			return nil, storeErr("scan invoice event", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &ev.EventData); err != nil {
				return nil, storeErr("unmarshal event data", err)
			}
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}
