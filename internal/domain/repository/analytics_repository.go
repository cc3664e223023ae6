package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics resultado crudo de ventas del período (facturas que cuentan para declaraciones).
type SalesMetrics struct {
	InvoiceCount int
	TurnoverHT   decimal.Decimal
	TotalTVA     decimal.Decimal
	TotalTTC     decimal.Decimal
}

// ReceivablesResult saldo pendiente de cobro.
type ReceivablesResult struct {
	UnpaidTotal  decimal.Decimal // TTC de facturas issued + overdue
	UnpaidCount  int
	OverdueTotal decimal.Decimal
	OverdueCount int
}

// CustomerRevenueResult facturación por cliente.
type CustomerRevenueResult struct {
	CustomerID   string
	CustomerName string
	InvoiceCount int
	TurnoverHT   decimal.Decimal
}

// MonthlyTurnoverResult volumen HT de un mes.
type MonthlyTurnoverResult struct {
	Month      time.Month
	TurnoverHT decimal.Decimal
	TotalTVA   decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura del dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetSalesMetrics usa COALESCE para devolver cero si no hay facturas en el período.
	GetSalesMetrics(ctx context.Context, businessID string, from, to time.Time) (SalesMetrics, error)
	GetReceivables(ctx context.Context, businessID string, asOf time.Time) (ReceivablesResult, error)
	// GetTopCustomers devuelve los `limit` clientes con mayor volumen HT en el período.
	GetTopCustomers(ctx context.Context, businessID string, from, to time.Time, limit int) ([]CustomerRevenueResult, error)
	GetMonthlyTurnover(ctx context.Context, businessID string, year int) ([]MonthlyTurnoverResult, error)
}
