package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

// DeclarationRepository agregados de lectura para las declaraciones fiscales.
// Solo cuentan facturas emitidas, pagadas o vencidas. Rangos [from, to) sobre issue_date.
type DeclarationRepository interface {
	// SalesByRate base HT y TVA por tasa, ordenado por tasa.
	SalesByRate(ctx context.Context, businessID string, from, to time.Time) ([]tax.SalesByRate, error)
	// TurnoverByKind volumen HT neto de descuentos separado en bienes y servicios.
	TurnoverByKind(ctx context.Context, businessID string, from, to time.Time) (goods, services decimal.Decimal, err error)
	// StampDutyCollected droit de timbre facturado.
	StampDutyCollected(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, error)
	// PurchaseTotals TVA deducible y retenciones de las compras del período.
	PurchaseTotals(ctx context.Context, businessID string, from, to time.Time) (deductibleTVA, withholdings decimal.Decimal, err error)
}
