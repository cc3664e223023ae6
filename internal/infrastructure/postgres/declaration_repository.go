package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain/repository"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

var _ repository.DeclarationRepository = (*DeclarationRepo)(nil)

// countedStatuses estados que entran en las declaraciones.
const countedStatuses = `('issued', 'paid', 'overdue')`

// DeclarationRepo agregados de lectura para G50, G12 y G12bis.
type DeclarationRepo struct {
	q Querier
}

// NewDeclarationRepository construye el adaptador.
func NewDeclarationRepository(q Querier) *DeclarationRepo {
	return &DeclarationRepo{q: q}
}

// SalesByRate la base HT de cada tasa descuenta la parte proporcional del descuento de cabecera.
func (r *DeclarationRepo) SalesByRate(ctx context.Context, businessID string, from, to time.Time) ([]tax.SalesByRate, error) {
	query := `
	SELECT it.tva_rate,
	       COALESCE(SUM(it.line_total_ht * (1 - COALESCE(i.discount_total / NULLIF(i.subtotal_ht, 0), 0))), 0),
	       COALESCE(SUM(it.tva_amount), 0)
	FROM invoices i
	JOIN invoice_items it ON it.invoice_id = i.id
	WHERE i.business_id = $1
	  AND i.issue_date >= $2 AND i.issue_date < $3
	  AND i.status IN ` + countedStatuses + `
	GROUP BY it.tva_rate
	ORDER BY it.tva_rate`
	rows, err := r.q.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by rate: %w", err)
	}
	defer rows.Close()

	var out []tax.SalesByRate
	for rows.Next() {
		var s tax.SalesByRate
		if err := rows.Scan(&s.Rate, &s.BaseHT, &s.TVA); err != nil {
			return nil, fmt.Errorf("scan sales by rate: %w", err)
		}
		s.BaseHT = s.BaseHT.Round(2)
		out = append(out, s)
	}
	return out, rows.Err()
}

// TurnoverByKind reparte el descuento de cabecera en proporción al HT de cada línea.
func (r *DeclarationRepo) TurnoverByKind(ctx context.Context, businessID string, from, to time.Time) (goods, services decimal.Decimal, err error) {
	query := `
	SELECT
	    COALESCE(SUM(CASE WHEN it.kind = 'goods'    THEN it.line_total_ht * (1 - COALESCE(i.discount_total / NULLIF(i.subtotal_ht, 0), 0)) END), 0),
	    COALESCE(SUM(CASE WHEN it.kind = 'services' THEN it.line_total_ht * (1 - COALESCE(i.discount_total / NULLIF(i.subtotal_ht, 0), 0)) END), 0)
	FROM invoices i
	JOIN invoice_items it ON it.invoice_id = i.id
	WHERE i.business_id = $1
	  AND i.issue_date >= $2 AND i.issue_date < $3
	  AND i.status IN ` + countedStatuses
	if err = r.q.QueryRow(ctx, query, businessID, from, to).Scan(&goods, &services); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("turnover by kind: %w", err)
	}
	return goods.Round(2), services.Round(2), nil
}

func (r *DeclarationRepo) StampDutyCollected(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
	SELECT COALESCE(SUM(stamp_duty_amount), 0)
	FROM invoices
	WHERE business_id = $1
	  AND issue_date >= $2 AND issue_date < $3
	  AND status IN ` + countedStatuses
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, businessID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("stamp duty collected: %w", err)
	}
	return total, nil
}

func (r *DeclarationRepo) PurchaseTotals(ctx context.Context, businessID string, from, to time.Time) (deductibleTVA, withholdings decimal.Decimal, err error) {
	const query = `
	SELECT COALESCE(SUM(tva_amount), 0), COALESCE(SUM(withholding_amount), 0)
	FROM purchases
	WHERE business_id = $1 AND date >= $2 AND date < $3`
	if err = r.q.QueryRow(ctx, query, businessID, from, to).Scan(&deductibleTVA, &withholdings); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("purchase totals: %w", err)
	}
	return deductibleTVA, withholdings, nil
}
