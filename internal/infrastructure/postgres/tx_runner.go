package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

// Ensure TxRunner implements invoicing.TxRunner.
var _ invoicing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCreation inicia una transacción con los repos de organización y factura
// atados a ella: asignación de consecutivo e inserción en una sola unidad,
// con Commit o Rollback al final.
func (r *TxRunner) RunCreation(ctx context.Context, fn func(
	orgRepo repository.OrganizationRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orgRepo := NewOrganizationRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)

	if err := fn(orgRepo, invoiceRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}

// RunPayment inicia una transacción con los repos de factura y pagos:
// bloqueo de la factura, verificación de saldo, inserción del pago y
// actualización de estado como unidad atómica.
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	paymentRepo := NewPaymentRepository(tx)

	if err := fn(invoiceRepo, paymentRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}
