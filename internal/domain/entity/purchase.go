package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase factura de proveedor: aporta la TVA deducible y las retenciones a la G50.
type Purchase struct {
	ID                string
	BusinessID        string
	SupplierName      string
	SupplierNIF       string
	Reference         string
	Date              time.Time
	AmountHT          decimal.Decimal
	TVAAmount         decimal.Decimal
	WithholdingAmount decimal.Decimal // retenue à la source practicada sobre el pago
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
