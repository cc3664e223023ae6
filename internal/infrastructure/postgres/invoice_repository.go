package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
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

const invoiceColumns = `id, business_id, customer_id, number, issue_date, due_date, status, payment_method,
	subtotal_ht, discount_total, total_tva, stamp_duty_amount, total_ttc, footer, notes, paid_at,
	created_at, updated_at`

const invoiceItemColumns = `id, invoice_id, product_id, description, kind, quantity, unit_price,
	discount_rate, tva_rate, line_total_ht, tva_amount, line_total_ttc`

// Create persiste la cabecera de factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.BusinessID, inv.CustomerID, inv.Number, inv.IssueDate, inv.DueDate, inv.Status, inv.PaymentMethod,
		inv.SubtotalHT, inv.DiscountTotal, inv.TotalTVA, inv.StampDutyAmount, inv.TotalTTC,
		inv.Footer, nullIfEmpty(inv.Notes), inv.PaidAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de factura.
func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	query := `INSERT INTO invoice_items (` + invoiceItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.InvoiceID, nullIfEmpty(it.ProductID), it.Description, it.Kind, it.Quantity, it.UnitPrice,
		it.DiscountRate, it.TVARate, it.LineTotalHT, it.TVAAmount, it.LineTotalTTC,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItems líneas de la factura en el orden en que se crearon.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `SELECT ` + invoiceItemColumns + ` FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()

	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		var productID *string
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &productID, &it.Description, &it.Kind, &it.Quantity, &it.UnitPrice,
			&it.DiscountRate, &it.TVARate, &it.LineTotalHT, &it.TVAAmount, &it.LineTotalTTC,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		it.ProductID = derefStr(productID)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List facturas del negocio con filtros; devuelve también el total sin paginar.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	where := []string{"business_id = $1"}
	args := []any{f.BusinessID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.CustomerID != "" {
		add("customer_id = $%d", f.CustomerID)
	}
	if f.From != nil {
		add("issue_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("issue_date < $%d", *f.To)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE %s ORDER BY issue_date DESC, number DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// UpdateStatus persiste status, paid_at y updated_at.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, inv *entity.Invoice) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $2, paid_at = $3, updated_at = $4 WHERE id = $1`,
		inv.ID, inv.Status, inv.PaidAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la factura; los ítems caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// NextNumber incrementa el correlativo anual con un upsert: dentro de la transacción de
// creación la fila queda bloqueada hasta el commit y dos facturas nunca comparten número.
func (r *InvoiceRepo) NextNumber(ctx context.Context, businessID string, year int) (string, error) {
	const query = `
		INSERT INTO invoice_sequences (business_id, year, last_value) VALUES ($1, $2, 1)
		ON CONFLICT (business_id, year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value`
	var n int
	if err := r.q.QueryRow(ctx, query, businessID, year).Scan(&n); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("FA-%d-%05d", year, n), nil
}

// MarkOverdue pasa a overdue las facturas emitidas cuyo due_date es anterior al día de asOf.
func (r *InvoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = 'overdue', updated_at = $1 WHERE status = 'issued' AND due_date < $2`,
		asOf, entity.StartOfDay(asOf))
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanInvoice(row scanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var notes *string
	err := row.Scan(
		&inv.ID, &inv.BusinessID, &inv.CustomerID, &inv.Number, &inv.IssueDate, &inv.DueDate, &inv.Status, &inv.PaymentMethod,
		&inv.SubtotalHT, &inv.DiscountTotal, &inv.TotalTVA, &inv.StampDutyAmount, &inv.TotalTTC,
		&inv.Footer, &notes, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Notes = derefStr(notes)
	return &inv, nil
}
