package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tochman/visinv-api/internal/domain"
	"github.com/tochman/visinv-api/internal/domain/entity"
	"github.com/tochman/visinv-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, organization_id, client_id, invoice_number, type, status,
	currency, exchange_rate, total_amount, COALESCE(credited_invoice_id::text, ''),
	issue_date, COALESCE(due_date, '0001-01-01'::timestamptz), created_at, updated_at`

// Create persiste la cabecera. La unicidad (organization_id, invoice_number)
// la respalda un índice único; su violación sale como ErrDuplicateInvoiceNumber.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, organization_id, client_id, invoice_number, type, status,
			currency, exchange_rate, total_amount, credited_invoice_id, issue_date, due_date,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.OrganizationID, invoice.ClientID, invoice.InvoiceNumber,
		invoice.Type, invoice.Status, invoice.Currency, invoice.ExchangeRate,
		invoice.TotalAmount, nullIfEmpty(invoice.CreditedInvoiceID),
		invoice.IssueDate, nullIfZeroTime(invoice.DueDate),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return storeErr("insert invoice", err)
	}
	return nil
}

// CreateItem persiste una línea.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.LineItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, position, description, quantity, unit_price, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Position, item.Description,
		item.Quantity, item.UnitPrice, item.TaxRate,
	)
	if err != nil {
		return storeErr("insert invoice item", err)
	}
	return nil
}

// Update actualiza la cabecera editable de un borrador. El número y el tipo
// no aparecen en el SET: son inmutables tras la creación.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET client_id = $2, currency = $3, exchange_rate = $4, total_amount = $5,
		    issue_date = $6, due_date = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.ClientID, invoice.Currency, invoice.ExchangeRate,
		invoice.TotalAmount, invoice.IssueDate, nullIfZeroTime(invoice.DueDate),
		invoice.UpdatedAt,
	)
	if err != nil {
		return storeErr("update invoice", err)
	}
	return nil
}

// UpdateStatus persiste solo el marcador de estado.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return storeErr("update invoice status", err)
	}
	return nil
}

// ReplaceItems borra y reescribe las líneas de un borrador.
func (r *InvoiceRepo) ReplaceItems(ctx context.Context, invoiceID string, items []*entity.LineItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return storeErr("delete invoice items", err)
	}
	for _, item := range items {
		item.InvoiceID = invoiceID
		if err := r.CreateItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene la factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la factura bloqueando su fila (FOR UPDATE). Solo
// tiene sentido dentro de una transacción del TxRunner.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.OrganizationID, &inv.ClientID, &inv.InvoiceNumber, &inv.Type, &inv.Status,
		&inv.Currency, &inv.ExchangeRate, &inv.TotalAmount, &inv.CreditedInvoiceID,
		&inv.IssueDate, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get invoice", err)
	}
	normalizeZeroDueDate(&inv)
	return &inv, nil
}

// GetItems devuelve las líneas ordenadas por posición.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.LineItem, error) {
	query := `
		SELECT id, invoice_id, position, description, quantity, unit_price, tax_rate
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, storeErr("list invoice items", err)
	}
	defer rows.Close()
	var list []*entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.TaxRate); err != nil {
			return nil, storeErr("scan invoice item", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByOrganization lista facturas de la organización, más recientes primero.
func (r *InvoiceRepo) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices WHERE organization_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, storeErr("list invoices", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.OrganizationID, &inv.ClientID, &inv.InvoiceNumber, &inv.Type, &inv.Status,
			&inv.Currency, &inv.ExchangeRate, &inv.TotalAmount, &inv.CreditedInvoiceID,
			&inv.IssueDate, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, storeErr("scan invoice", err)
		}
		normalizeZeroDueDate(&inv)
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// CountByOrganization cuenta las facturas de la organización (incluye
// anuladas: el cupo del plan gratuito se consume con la creación).
func (r *InvoiceRepo) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE organization_id = $1`, orgID,
	).Scan(&count)
	if err != nil {
		return 0, storeErr("count invoices", err)
	}
	return count, nil
}

// ExistsNumber verifica si el número exacto ya existe en la organización.
func (r *InvoiceRepo) ExistsNumber(ctx context.Context, orgID, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM invoices WHERE organization_id = $1 AND invoice_number = $2)`,
		orgID, number,
	).Scan(&exists)
	if err != nil {
		return false, storeErr("exists invoice number", err)
	}
	return exists, nil
}

// normalizeZeroDueDate devuelve due_date NULL como time.Time cero real. El
// COALESCE del SELECT lo entrega como año 1 con zona UTC; IsZero lo exige sin
// monotonic ni offset.
func normalizeZeroDueDate(inv *entity.Invoice) {
	if inv.DueDate.Year() == 1 {
		inv.DueDate = time.Time{}
	}
}
