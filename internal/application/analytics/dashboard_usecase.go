// Package analytics contiene el caso de uso del dashboard de facturación.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

const dashboardTopCustomers = 5 // clientes en el widget del dashboard

// DashboardUseCase genera el resumen del mes en curso y el saldo pendiente de cobro.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	businessRepo  repository.BusinessRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, businessRepo repository.BusinessRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, businessRepo: businessRepo, now: time.Now}
}

// SetClock sustituye el reloj del dashboard.
func (uc *DashboardUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// GetSummary construye el DashboardSummaryDTO del negocio.
//
// Cuatro consultas en paralelo:
//  1. GetSalesMetrics(mes)          → HT, TVA y TTC del mes
//  2. GetReceivables(ahora)         → pendiente y vencido
//  3. GetTopCustomers(mes, top 5)   → TopCustomers
//  4. GetMonthlyTurnover(año)       → serie mensual
func (uc *DashboardUseCase) GetSummary(ctx context.Context, businessID string) (*dto.DashboardSummaryDTO, error) {
	business, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	regime, err := tax.Classify(business.LegalType, business.FiscalRegime)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	type metricsResult struct {
		m   repository.SalesMetrics
		err error
	}
	type receivablesResult struct {
		r   repository.ReceivablesResult
		err error
	}
	type topResult struct {
		rows []repository.CustomerRevenueResult
		err  error
	}
	type monthlyResult struct {
		rows []repository.MonthlyTurnoverResult
		err  error
	}

	metricsCh := make(chan metricsResult, 1)
	receivablesCh := make(chan receivablesResult, 1)
	topCh := make(chan topResult, 1)
	monthlyCh := make(chan monthlyResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, businessID, monthStart, monthEnd)
		metricsCh <- metricsResult{m, err}
	}()
	go func() {
		r, err := uc.analyticsRepo.GetReceivables(ctx, businessID, now)
		receivablesCh <- receivablesResult{r, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetTopCustomers(ctx, businessID, monthStart, monthEnd, dashboardTopCustomers)
		topCh <- topResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetMonthlyTurnover(ctx, businessID, now.Year())
		monthlyCh <- monthlyResult{rows, err}
	}()

	month := <-metricsCh
	receivables := <-receivablesCh
	top := <-topCh
	monthly := <-monthlyCh

	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if receivables.err != nil {
		return nil, fmt.Errorf("dashboard: pendiente de cobro: %w", receivables.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top clientes: %w", top.err)
	}
	if monthly.err != nil {
		return nil, fmt.Errorf("dashboard: serie mensual: %w", monthly.err)
	}

	out := &dto.DashboardSummaryDTO{
		MonthTurnoverHT: month.m.TurnoverHT.Round(2),
		MonthTVA:        month.m.TotalTVA.Round(2),
		MonthTTC:        month.m.TotalTTC.Round(2),
		MonthInvoices:   month.m.InvoiceCount,
		UnpaidTotal:     receivables.r.UnpaidTotal.Round(2),
		UnpaidCount:     receivables.r.UnpaidCount,
		OverdueTotal:    receivables.r.OverdueTotal.Round(2),
		OverdueCount:    receivables.r.OverdueCount,
		TopCustomers:    make([]dto.TopCustomerDTO, 0, len(top.rows)),
		Monthly:         make([]dto.MonthlyTurnoverDTO, 0, len(monthly.rows)),
		Regime:          regime.String(),
		DateLabel:       monthLabel(now),
	}
	for _, c := range top.rows {
		out.TopCustomers = append(out.TopCustomers, dto.TopCustomerDTO{
			CustomerID:   c.CustomerID,
			CustomerName: c.CustomerName,
			InvoiceCount: c.InvoiceCount,
			TurnoverHT:   c.TurnoverHT.Round(2),
		})
	}
	for _, m := range monthly.rows {
		out.Monthly = append(out.Monthly, dto.MonthlyTurnoverDTO{
			Month:      int(m.Month),
			TurnoverHT: m.TurnoverHT.Round(2),
			TotalTVA:   m.TotalTVA.Round(2),
		})
	}
	return out, nil
}

// monthLabel etiqueta del mes en francés, ej: "mars 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
