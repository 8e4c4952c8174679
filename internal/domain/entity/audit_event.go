package entity

import "time"

// Tipos de evento de auditoría del ciclo de vida de una factura.
const (
	EventCreated         = "created"
	EventSent            = "sent"
	EventViewed          = "viewed"
	EventPaymentRecorded = "payment_recorded"
	EventStatusChanged   = "status_changed"
	EventReminderSent    = "reminder_sent"
	EventCreditCreated   = "credit_created"
	EventCopied          = "copied"
	EventUpdated         = "updated"
)

// AuditEvent es un registro inmutable de algo que le ocurrió a una factura.
// Solo se agrega, nunca se muta ni se borra: es la historia autoritativa del
// documento, independiente del estado mutable actual.
type AuditEvent struct {
	ID        string
	InvoiceID string
	EventType string
	EventData map[string]any // payload específico del tipo, ej. {old_status, new_status}
	CreatedAt time.Time
}
