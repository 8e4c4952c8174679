package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
)

var _ invoicing.SubscriptionReader = (*SubscriptionReader)(nil)

// SubscriptionReader implementa invoicing.SubscriptionReader: entrega el plan
// de la organización y su conteo de facturas en una sola consulta.
type SubscriptionReader struct {
	q Querier
}

// NewSubscriptionReader construye el lector. Pasar pool o tx (Querier).
func NewSubscriptionReader(q Querier) *SubscriptionReader {
	return &SubscriptionReader{q: q}
}

// Usage devuelve {premium, conteo de facturas} para el Quota Gate.
func (r *SubscriptionReader) Usage(ctx context.Context, orgID string) (entity.SubscriptionUsage, error) {
	query := `
		SELECT o.plan, COUNT(i.id)
		FROM organizations o
		LEFT JOIN invoices i ON i.organization_id = o.id
		WHERE o.id = $1
		GROUP BY o.plan`
	var (
		plan  string
		count int
	)
	err := r.q.QueryRow(ctx, query, orgID).Scan(&plan, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.SubscriptionUsage{}, domain.ErrNotFound
		}
		return entity.SubscriptionUsage{}, storeErr("subscription usage", err)
	}
	return entity.SubscriptionUsage{
		Premium:      plan == entity.PlanPremium,
		InvoiceCount: count,
	}, nil
}
