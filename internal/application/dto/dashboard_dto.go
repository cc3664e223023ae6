package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs del mes en curso, saldo pendiente de cobro y top de clientes del mes.
type DashboardSummaryDTO struct {
	MonthTurnoverHT decimal.Decimal `json:"month_turnover_ht"`
	MonthTVA        decimal.Decimal `json:"month_tva"`
	MonthTTC        decimal.Decimal `json:"month_ttc"`
	MonthInvoices   int             `json:"month_invoices"`

	UnpaidTotal  decimal.Decimal `json:"unpaid_total"`
	UnpaidCount  int             `json:"unpaid_count"`
	OverdueTotal decimal.Decimal `json:"overdue_total"`
	OverdueCount int             `json:"overdue_count"`

	TopCustomers []TopCustomerDTO     `json:"top_customers"`
	Monthly      []MonthlyTurnoverDTO `json:"monthly"`

	Regime    string `json:"regime"`
	DateLabel string `json:"date_label"` // ej: "mars 2026"
}

// TopCustomerDTO cliente del widget del dashboard.
type TopCustomerDTO struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	InvoiceCount int             `json:"invoice_count"`
	TurnoverHT   decimal.Decimal `json:"turnover_ht"`
}

// MonthlyTurnoverDTO punto de la serie mensual del año en curso.
type MonthlyTurnoverDTO struct {
	Month      int             `json:"month"`
	TurnoverHT decimal.Decimal `json:"turnover_ht"`
	TotalTVA   decimal.Decimal `json:"total_tva"`
}
