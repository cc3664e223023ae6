package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de factura. Los importes de línea son derivados.
type InvoiceItem struct {
	ID           string
	InvoiceID    string
	ProductID    string // opcional
	Description  string
	Kind         string // goods | services
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	DiscountRate decimal.Decimal // porcentaje 0-100
	TVARate      decimal.Decimal // porcentaje
	LineTotalHT  decimal.Decimal
	TVAAmount    decimal.Decimal
	LineTotalTTC decimal.Decimal
}
