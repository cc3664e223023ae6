package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusIssued    = "issued"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// invoiceTransitions destinos permitidos desde cada estado.
var invoiceTransitions = map[string][]string{
	InvoiceStatusDraft:   {InvoiceStatusIssued, InvoiceStatusCancelled},
	InvoiceStatusIssued:  {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue: {InvoiceStatusPaid, InvoiceStatusCancelled},
}

// CanTransition informa si la factura puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CountsForDeclarations informa si una factura en ese estado entra en las declaraciones fiscales.
func CountsForDeclarations(status string) bool {
	switch status {
	case InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// StartOfDay medianoche del día de t en su zona. Una factura vence al terminar su due_date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Invoice representa la cabecera de una factura.
// Los totales son derivados de los ítems: TotalTTC = SubtotalHT - DiscountTotal + TotalTVA + StampDutyAmount.
type Invoice struct {
	ID              string
	BusinessID      string
	CustomerID      string
	Number          string
	IssueDate       time.Time
	DueDate         time.Time
	Status          string
	PaymentMethod   string // cash, cheque, transfer, card
	SubtotalHT      decimal.Decimal
	DiscountTotal   decimal.Decimal
	TotalTVA        decimal.Decimal
	StampDutyAmount decimal.Decimal
	TotalTTC        decimal.Decimal
	Footer          string // pie legal congelado al crear la factura
	Notes           string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
