package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	NIF     string `json:"nif" validate:"omitempty,max=25"`
	RC      string `json:"rc" validate:"omitempty,max=30"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`
	NIF        string `json:"nif,omitempty"`
	RC         string `json:"rc,omitempty"`
	Address    string `json:"address,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices. La factura se crea en borrador.
type CreateInvoiceRequest struct {
	CustomerID    string               `json:"customer_id" validate:"required,uuid"`
	IssueDate     *time.Time           `json:"issue_date,omitempty"` // por defecto hoy
	DueDate       *time.Time           `json:"due_date,omitempty"`   // por defecto issue_date + FISCAL_DEFAULT_DUE_DAYS
	PaymentMethod string               `json:"payment_method" validate:"required,oneof=cash cheque transfer card"`
	DiscountTotal decimal.Decimal      `json:"discount_total"`
	Notes         string               `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Items         []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemRequest línea de factura. Con ProductID vacío se exige descripción y precio.
// Los campos de precio, tasa y naturaleza vacíos se completan desde el producto.
type InvoiceItemRequest struct {
	ProductID    string           `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Description  string           `json:"description,omitempty" validate:"omitempty,max=500"`
	Kind         string           `json:"kind,omitempty" validate:"omitempty,oneof=goods services"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountRate decimal.Decimal  `json:"discount_rate"`
	TVARate      *decimal.Decimal `json:"tva_rate,omitempty"`
}

// InvoiceResponse factura con líneas para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID              string                `json:"id"`
	BusinessID      string                `json:"business_id"`
	CustomerID      string                `json:"customer_id"`
	CustomerName    string                `json:"customer_name,omitempty"`
	Number          string                `json:"number"`
	IssueDate       string                `json:"issue_date"`
	DueDate         string                `json:"due_date"`
	Status          string                `json:"status"`
	PaymentMethod   string                `json:"payment_method"`
	SubtotalHT      decimal.Decimal       `json:"subtotal_ht"`
	DiscountTotal   decimal.Decimal       `json:"discount_total"`
	TotalTVA        decimal.Decimal       `json:"total_tva"`
	StampDutyAmount decimal.Decimal       `json:"stamp_duty_amount"`
	TotalTTC        decimal.Decimal       `json:"total_ttc"`
	Footer          string                `json:"footer"`
	LegalMentions   []string              `json:"legal_mentions,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	PaidAt          *time.Time            `json:"paid_at,omitempty"`
	Items           []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id,omitempty"`
	Description  string          `json:"description"`
	Kind         string          `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	TVARate      decimal.Decimal `json:"tva_rate"`
	LineTotalHT  decimal.Decimal `json:"line_total_ht"`
	TVAAmount    decimal.Decimal `json:"tva_amount"`
	LineTotalTTC decimal.Decimal `json:"line_total_ttc"`
}

// InvoiceListRequest filtros de GET /api/invoices.
type InvoiceListRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=draft issued paid overdue cancelled"`
	CustomerID string `query:"customer_id" validate:"omitempty,uuid"`
	From       string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// InvoiceListResponse lista paginada de facturas (sin líneas).
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PayInvoiceRequest body opcional para POST /api/invoices/:id/pay.
type PayInvoiceRequest struct {
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierName      string          `json:"supplier_name" validate:"required,min=1,max=200"`
	SupplierNIF       string          `json:"supplier_nif" validate:"omitempty,max=25"`
	Reference         string          `json:"reference" validate:"omitempty,max=60"`
	Date              time.Time       `json:"date" validate:"required"`
	AmountHT          decimal.Decimal `json:"amount_ht"`
	TVAAmount         decimal.Decimal `json:"tva_amount"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount"`
}

// PurchaseResponse compra en respuestas.
type PurchaseResponse struct {
	ID                string          `json:"id"`
	SupplierName      string          `json:"supplier_name"`
	SupplierNIF       string          `json:"supplier_nif,omitempty"`
	Reference         string          `json:"reference,omitempty"`
	Date              string          `json:"date"`
	AmountHT          decimal.Decimal `json:"amount_ht"`
	TVAAmount         decimal.Decimal `json:"tva_amount"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount"`
}
