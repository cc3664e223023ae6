package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

var (
	_ repository.DeclarationRepository = (*DeclarationRepo)(nil)
	_ repository.AnalyticsRepository   = (*AnalyticsRepo)(nil)
)

// countedInvoices facturas del negocio en [from, to) que cuentan para declaraciones.
// Debe llamarse con el lock de lectura tomado.
func (s *Store) countedInvoices(businessID string, from, to time.Time) []entity.Invoice {
	var out []entity.Invoice
	for _, inv := range s.invoices {
		if inv.BusinessID == businessID && entity.CountsForDeclarations(inv.Status) && inRange(inv.IssueDate, from, to) {
			out = append(out, inv)
		}
	}
	return out
}

// netFactor fracción del HT de cada línea que queda tras el descuento global de la factura.
func netFactor(inv entity.Invoice) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	if inv.SubtotalHT.IsPositive() {
		factor = factor.Sub(inv.DiscountTotal.Div(inv.SubtotalHT))
	}
	return factor
}

// DeclarationRepo agregados de declaraciones calculados sobre el store.
type DeclarationRepo struct{ s *Store }

func (r *DeclarationRepo) SalesByRate(ctx context.Context, businessID string, from, to time.Time) ([]tax.SalesByRate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byRate := map[string]*tax.SalesByRate{}
	for _, inv := range r.s.countedInvoices(businessID, from, to) {
		factor := netFactor(inv)
		for _, it := range r.s.items[inv.ID] {
			key := it.TVARate.String()
			row, ok := byRate[key]
			if !ok {
				row = &tax.SalesByRate{Rate: it.TVARate}
				byRate[key] = row
			}
			row.BaseHT = row.BaseHT.Add(it.LineTotalHT.Mul(factor))
			row.TVA = row.TVA.Add(it.TVAAmount)
		}
	}
	out := make([]tax.SalesByRate, 0, len(byRate))
	for _, row := range byRate {
		row.BaseHT = row.BaseHT.Round(2)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate.LessThan(out[j].Rate) })
	return out, nil
}

// TurnoverByKind reparte el descuento global de cada factura en proporción al HT de cada naturaleza.
func (r *DeclarationRepo) TurnoverByKind(ctx context.Context, businessID string, from, to time.Time) (goods, services decimal.Decimal, err error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inv := range r.s.countedInvoices(businessID, from, to) {
		factor := netFactor(inv)
		for _, it := range r.s.items[inv.ID] {
			net := it.LineTotalHT.Mul(factor)
			switch it.Kind {
			case entity.ActivityGoods:
				goods = goods.Add(net)
			case entity.ActivityServices:
				services = services.Add(net)
			}
		}
	}
	return goods.Round(2), services.Round(2), nil
}

func (r *DeclarationRepo) StampDutyCollected(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, inv := range r.s.countedInvoices(businessID, from, to) {
		total = total.Add(inv.StampDutyAmount)
	}
	return total, nil
}

func (r *DeclarationRepo) PurchaseTotals(ctx context.Context, businessID string, from, to time.Time) (deductibleTVA, withholdings decimal.Decimal, err error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.purchases {
		if p.BusinessID == businessID && inRange(p.Date, from, to) {
			deductibleTVA = deductibleTVA.Add(p.TVAAmount)
			withholdings = withholdings.Add(p.WithholdingAmount)
		}
	}
	return deductibleTVA, withholdings, nil
}

// AnalyticsRepo consultas del dashboard calculadas sobre el store.
type AnalyticsRepo struct{ s *Store }

func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, businessID string, from, to time.Time) (repository.SalesMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var m repository.SalesMetrics
	for _, inv := range r.s.countedInvoices(businessID, from, to) {
		m.InvoiceCount++
		m.TurnoverHT = m.TurnoverHT.Add(inv.SubtotalHT.Sub(inv.DiscountTotal))
		m.TotalTVA = m.TotalTVA.Add(inv.TotalTVA)
		m.TotalTTC = m.TotalTTC.Add(inv.TotalTTC)
	}
	return m, nil
}

func (r *AnalyticsRepo) GetReceivables(ctx context.Context, businessID string, asOf time.Time) (repository.ReceivablesResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out repository.ReceivablesResult
	for _, inv := range r.s.invoices {
		if inv.BusinessID != businessID {
			continue
		}
		switch {
		case inv.Status == entity.InvoiceStatusOverdue,
			inv.Status == entity.InvoiceStatusIssued && inv.DueDate.Before(entity.StartOfDay(asOf)):
			out.OverdueTotal = out.OverdueTotal.Add(inv.TotalTTC)
			out.OverdueCount++
		case inv.Status != entity.InvoiceStatusIssued:
			continue
		}
		out.UnpaidTotal = out.UnpaidTotal.Add(inv.TotalTTC)
		out.UnpaidCount++
	}
	return out, nil
}

func (r *AnalyticsRepo) GetTopCustomers(ctx context.Context, businessID string, from, to time.Time, limit int) ([]repository.CustomerRevenueResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byCustomer := map[string]*repository.CustomerRevenueResult{}
	for _, inv := range r.s.countedInvoices(businessID, from, to) {
		row, ok := byCustomer[inv.CustomerID]
		if !ok {
			row = &repository.CustomerRevenueResult{CustomerID: inv.CustomerID, CustomerName: r.s.customers[inv.CustomerID].Name}
			byCustomer[inv.CustomerID] = row
		}
		row.InvoiceCount++
		row.TurnoverHT = row.TurnoverHT.Add(inv.SubtotalHT.Sub(inv.DiscountTotal))
	}
	out := make([]repository.CustomerRevenueResult, 0, len(byCustomer))
	for _, row := range byCustomer {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TurnoverHT.Equal(out[j].TurnoverHT) {
			return out[i].TurnoverHT.GreaterThan(out[j].TurnoverHT)
		}
		return out[i].CustomerName < out[j].CustomerName
	})
	return page(out, limit, 0), nil
}

func (r *AnalyticsRepo) GetMonthlyTurnover(ctx context.Context, businessID string, year int) ([]repository.MonthlyTurnoverResult, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	months := make([]repository.MonthlyTurnoverResult, 12)
	for i := range months {
		months[i].Month = time.Month(i + 1)
	}
	for _, inv := range r.s.countedInvoices(businessID, from, to) {
		m := &months[inv.IssueDate.Month()-1]
		m.TurnoverHT = m.TurnoverHT.Add(inv.SubtotalHT.Sub(inv.DiscountTotal))
		m.TotalTVA = m.TotalTVA.Add(inv.TotalTVA)
	}
	return months, nil
}
