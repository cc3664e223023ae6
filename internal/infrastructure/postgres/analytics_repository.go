package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics volumen HT neto de descuento, TVA y TTC del período.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, businessID string, from, to time.Time) (repository.SalesMetrics, error) {
	query := `
	SELECT
	    COUNT(*),
	    COALESCE(SUM(subtotal_ht - discount_total), 0),
	    COALESCE(SUM(total_tva), 0),
	    COALESCE(SUM(total_ttc), 0)
	FROM invoices
	WHERE business_id = $1
	  AND issue_date >= $2 AND issue_date < $3
	  AND status IN ` + countedStatuses
	var m repository.SalesMetrics
	if err := r.q.QueryRow(ctx, query, businessID, from, to).Scan(&m.InvoiceCount, &m.TurnoverHT, &m.TotalTVA, &m.TotalTTC); err != nil {
		return m, fmt.Errorf("get sales metrics: %w", err)
	}
	return m, nil
}

// GetReceivables pendiente de cobro; una emitida con due_date pasado cuenta como vencida
// aunque el barrido todavía no la haya marcado.
func (r *AnalyticsRepo) GetReceivables(ctx context.Context, businessID string, asOf time.Time) (repository.ReceivablesResult, error) {
	const query = `
	SELECT
	    COALESCE(SUM(total_ttc), 0),
	    COUNT(*),
	    COALESCE(SUM(total_ttc) FILTER (WHERE status = 'overdue' OR due_date < $2), 0),
	    COUNT(*) FILTER (WHERE status = 'overdue' OR due_date < $2)
	FROM invoices
	WHERE business_id = $1 AND status IN ('issued', 'overdue')`
	var out repository.ReceivablesResult
	err := r.q.QueryRow(ctx, query, businessID, entity.StartOfDay(asOf)).Scan(&out.UnpaidTotal, &out.UnpaidCount, &out.OverdueTotal, &out.OverdueCount)
	if err != nil {
		return out, fmt.Errorf("get receivables: %w", err)
	}
	return out, nil
}

func (r *AnalyticsRepo) GetTopCustomers(ctx context.Context, businessID string, from, to time.Time, limit int) ([]repository.CustomerRevenueResult, error) {
	query := `
	SELECT c.id, c.name, COUNT(i.id), COALESCE(SUM(i.subtotal_ht - i.discount_total), 0) AS turnover
	FROM invoices i
	JOIN customers c ON c.id = i.customer_id
	WHERE i.business_id = $1
	  AND i.issue_date >= $2 AND i.issue_date < $3
	  AND i.status IN ` + countedStatuses + `
	GROUP BY c.id, c.name
	ORDER BY turnover DESC, c.name
	LIMIT $4`
	rows, err := r.q.Query(ctx, query, businessID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("get top customers: %w", err)
	}
	defer rows.Close()

	var out []repository.CustomerRevenueResult
	for rows.Next() {
		var c repository.CustomerRevenueResult
		if err := rows.Scan(&c.CustomerID, &c.CustomerName, &c.InvoiceCount, &c.TurnoverHT); err != nil {
			return nil, fmt.Errorf("scan top customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetMonthlyTurnover devuelve siempre 12 filas; los meses sin ventas quedan en cero.
func (r *AnalyticsRepo) GetMonthlyTurnover(ctx context.Context, businessID string, year int) ([]repository.MonthlyTurnoverResult, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	query := `
	SELECT
	    EXTRACT(MONTH FROM issue_date)::int,
	    COALESCE(SUM(subtotal_ht - discount_total), 0),
	    COALESCE(SUM(total_tva), 0)
	FROM invoices
	WHERE business_id = $1
	  AND issue_date >= $2 AND issue_date < $3
	  AND status IN ` + countedStatuses + `
	GROUP BY 1`
	rows, err := r.q.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get monthly turnover: %w", err)
	}
	defer rows.Close()

	months := make([]repository.MonthlyTurnoverResult, 12)
	for i := range months {
		months[i].Month = time.Month(i + 1)
	}
	for rows.Next() {
		var month int
		var row repository.MonthlyTurnoverResult
		if err := rows.Scan(&month, &row.TurnoverHT, &row.TotalTVA); err != nil {
			return nil, fmt.Errorf("scan monthly turnover: %w", err)
		}
		if month < 1 || month > 12 {
			continue
		}
		row.Month = time.Month(month)
		months[month-1] = row
	}
	return months, rows.Err()
}
