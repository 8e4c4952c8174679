package postgres

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
// Solo INSERT y SELECT: los pagos son inmutables.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un abono.
func (r *PaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, invoice_id, amount, payment_date, method, reference, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		payment.ID, payment.InvoiceID, payment.Amount, payment.PaymentDate,
		nullIfEmpty(payment.Method), nullIfEmpty(payment.Reference), nullIfEmpty(payment.Notes),
		payment.CreatedAt,
	)
	if err != nil {
		return storeErr("insert payment", err)
	}
	return nil
}

// ListByInvoice lista los abonos en orden de registro.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, invoice_id, amount, payment_date,
		       COALESCE(method, ''), COALESCE(reference, ''), COALESCE(notes, ''), created_at
		FROM payments WHERE invoice_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, storeErr("list payments", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaymentDate,
			&p.Method, &p.Reference, &p.Notes, &p.CreatedAt); err != nil {
			return nil, storeErr("scan payment", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// SumByInvoice devuelve la suma de abonos de la factura (cero si no hay).
func (r *PaymentRepo) SumByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`, invoiceID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, storeErr("sum payments", err)
	}
	return sum, nil
}
