package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo facturas de proveedor sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, business_id, supplier_name, supplier_nif, reference, date,
	amount_ht, tva_amount, withholding_amount, created_at, updated_at`

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `INSERT INTO purchases (` + purchaseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.BusinessID, p.SupplierName, nullIfEmpty(p.SupplierNIF), nullIfEmpty(p.Reference), p.Date,
		p.AmountHT, p.TVAAmount, p.WithholdingAmount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// ListByBusiness compras con fecha en [from, to).
func (r *PurchaseRepo) ListByBusiness(ctx context.Context, businessID string, from, to time.Time, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE business_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, businessID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

func scanPurchase(row scanner) (*entity.Purchase, error) {
	var p entity.Purchase
	var nif, ref *string
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.SupplierName, &nif, &ref, &p.Date,
		&p.AmountHT, &p.TVAAmount, &p.WithholdingAmount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.SupplierNIF = derefStr(nif)
	p.Reference = derefStr(ref)
	return &p, nil
}
